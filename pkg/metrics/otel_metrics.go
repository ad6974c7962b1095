package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 引导向导相关指标
	WizardStepCompletedTotal metric.Int64Counter
	WizardStepSkippedTotal   metric.Int64Counter
	WizardCompletedTotal     metric.Int64Counter
	WizardResumeTotal        metric.Int64Counter

	// 市民报障相关指标
	ReportSubmittedTotal metric.Int64Counter
	ReportResolvedTotal  metric.Int64Counter
	ReportResolutionTime metric.Float64Histogram
	SLABreachTotal       metric.Int64Counter

	// 消息队列相关指标
	MQPublishTotal  metric.Int64Counter
	MQPublishErrors metric.Int64Counter
	MQConsumeErrors metric.Int64Counter

	// 短信通知指标
	SMSSentTotal   metric.Int64Counter
	SMSFailedTotal metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("civiclink")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.WizardStepCompletedTotal, err = meter.Int64Counter(
		"onboarding_step_completed_total",
		metric.WithDescription("Total number of onboarding steps completed"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	metrics.WizardStepSkippedTotal, err = meter.Int64Counter(
		"onboarding_step_skipped_total",
		metric.WithDescription("Total number of onboarding steps skipped"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	metrics.WizardCompletedTotal, err = meter.Int64Counter(
		"onboarding_completed_total",
		metric.WithDescription("Total number of municipalities finishing onboarding"),
		metric.WithUnit("{municipality}"),
	)
	if err != nil {
		return err
	}

	metrics.WizardResumeTotal, err = meter.Int64Counter(
		"onboarding_resume_total",
		metric.WithDescription("Total number of onboarding sessions resumed from persisted progress"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	metrics.ReportSubmittedTotal, err = meter.Int64Counter(
		"reports_submitted_total",
		metric.WithDescription("Total number of citizen service reports submitted"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return err
	}

	metrics.ReportResolvedTotal, err = meter.Int64Counter(
		"reports_resolved_total",
		metric.WithDescription("Total number of service reports resolved"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return err
	}

	metrics.ReportResolutionTime, err = meter.Float64Histogram(
		"report_resolution_hours",
		metric.WithDescription("Hours between report submission and resolution"),
		metric.WithUnit("h"),
		metric.WithExplicitBucketBoundaries(1, 4, 12, 24, 48, 96, 168, 336, 720),
	)
	if err != nil {
		return err
	}

	metrics.SLABreachTotal, err = meter.Int64Counter(
		"sla_breach_total",
		metric.WithDescription("Total number of reports past their SLA deadline"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return err
	}

	metrics.MQPublishTotal, err = meter.Int64Counter(
		"mq_publish_total",
		metric.WithDescription("Total number of messages published to RabbitMQ"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	metrics.MQPublishErrors, err = meter.Int64Counter(
		"mq_publish_errors_total",
		metric.WithDescription("Number of RabbitMQ publish errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	metrics.MQConsumeErrors, err = meter.Int64Counter(
		"mq_consume_errors_total",
		metric.WithDescription("Number of RabbitMQ consume errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSentTotal, err = meter.Int64Counter(
		"sms_sent_total",
		metric.WithDescription("Total number of notification SMS sent"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSFailedTotal, err = meter.Int64Counter(
		"sms_failed_total",
		metric.WithDescription("Total number of notification SMS failures"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例，未初始化时返回 nil，调用方需要判空
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordStepCompleted 记录步骤完成
func (m *OTelMetrics) RecordStepCompleted(ctx context.Context, stepID string) {
	m.WizardStepCompletedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", stepID),
	))
}

// RecordStepSkipped 记录步骤跳过
func (m *OTelMetrics) RecordStepSkipped(ctx context.Context, stepID string) {
	m.WizardStepSkippedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", stepID),
	))
}

// RecordReportSubmitted 记录报障提交
func (m *OTelMetrics) RecordReportSubmitted(ctx context.Context, category string) {
	m.ReportSubmittedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordReportResolved 记录报障解决及耗时
func (m *OTelMetrics) RecordReportResolved(ctx context.Context, category string, hours float64) {
	attrs := metric.WithAttributes(attribute.String("category", category))
	m.ReportResolvedTotal.Add(ctx, 1, attrs)
	m.ReportResolutionTime.Record(ctx, hours, attrs)
}

// RecordSLABreach 记录 SLA 超期
func (m *OTelMetrics) RecordSLABreach(ctx context.Context, category string) {
	m.SLABreachTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordMQPublish 记录消息发布，err 非空时同时累加错误计数
func (m *OTelMetrics) RecordMQPublish(exchange, routingKey string, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("exchange", exchange),
		attribute.String("routing_key", routingKey),
	)
	m.MQPublishTotal.Add(ctx, 1, attrs)
	if err != nil {
		m.MQPublishErrors.Add(ctx, 1, attrs)
	}
}

// RecordMQConsumeError 记录消费失败
func (m *OTelMetrics) RecordMQConsumeError(queue string) {
	m.MQConsumeErrors.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("queue", queue),
	))
}

// RecordSMS 记录短信发送结果
func (m *OTelMetrics) RecordSMS(ctx context.Context, category string, err error) {
	attrs := metric.WithAttributes(attribute.String("category", category))
	if err != nil {
		m.SMSFailedTotal.Add(ctx, 1, attrs)
		return
	}
	m.SMSSentTotal.Add(ctx, 1, attrs)
}
