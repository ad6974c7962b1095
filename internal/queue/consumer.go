package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	"CivicLink/internal/service"
	"CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/storage/mq"
)

// StartInvitationDispatchConsumer 启动邀请投递消费者
func StartInvitationDispatchConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.InvitationDispatchMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal invitation dispatch message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，宁可重复也不丢消息
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("invitation_id", msg.InvitationID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing invitation dispatch",
			zap.String("message_id", msg.MessageID),
			zap.Int64("invitation_id", msg.InvitationID),
			zap.String("role", msg.Role),
		)

		if err := service.Notification().HandleInvitationDispatch(ctx, msg); err != nil {
			// 处理失败，取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to handle invitation dispatch: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         "invitation.dispatch",
		ConsumerTag:   "invitation_dispatch_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartReportStatusConsumer 启动报障状态短信消费者
func StartReportStatusConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.ReportStatusMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal report status message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			logger.Logger.Info("Message already processed or being processing, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("report_public_id", msg.ReportPublicID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing report status notification",
			zap.String("message_id", msg.MessageID),
			zap.Int64("report_public_id", msg.ReportPublicID),
			zap.String("old_status", msg.OldStatus),
			zap.String("new_status", msg.NewStatus),
		)

		err = service.Notification().HandleReportStatus(ctx, msg)
		if err != nil {
			// 如果是 SkipMessageError，标记为已处理并跳过（不重试）
			if errors.IsSkipMessageError(err) {
				if markErr := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); markErr != nil {
					logger.Logger.Warn("Failed to mark skipped message as processed",
						zap.String("message_id", msg.MessageID),
						zap.Error(markErr),
					)
				}
				return err
			}

			// 其他错误：取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to handle report status: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         "notification.sms",
		ConsumerTag:   "report_status_consumer",
		PrefetchCount: 20,
		Handler:       handler,
	})
}

// StartAllConsumers 启动所有消费者并阻塞直到 ctx 取消
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"invitation_dispatch", StartInvitationDispatchConsumer},
		{"report_status", StartReportStatusConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()

	logger.Logger.Info("All consumers started")
}
