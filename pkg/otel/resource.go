package otel

// Resource 描述产生 telemetry 数据的实体（服务、容器、主机等），
// 这些属性会附加到所有 spans 和 metrics 上，用于标识数据来源

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
			semconv.ServiceNamespace("civiclink"),
			semconv.TelemetrySDKLanguageGo,
		),
		resource.WithHost(),
		resource.WithOSType(),
		resource.WithOSDescription(),
	)
}

// GetServiceAttributes 获取服务属性
func GetServiceAttributes(serviceName, serviceVersion, environment string) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
		semconv.DeploymentEnvironment(environment),
		semconv.ServiceNamespace("civiclink"),
	}
}
