package mq

import (
	"fmt"

	"go.uber.org/zap"

	"CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
)

type MessageHandler func([]byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 阻塞消费指定队列，handler 返回错误时 Nack 重新入队
// SkipMessageError 例外：Ack 后跳过，避免毒消息打转
func Consume(opts ConsumeOptions) error {
	conn := Connection()
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack = false
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	for msg := range msgs {
		if err := opts.Handler(msg.Body); err != nil {
			if errors.IsSkipMessageError(err) {
				logger.Logger.Info("Skipping message",
					zap.String("queue", opts.Queue),
					zap.Error(err),
				)
				msg.Ack(false)
				continue
			}

			logger.Logger.Error("Failed to process message",
				zap.String("queue", opts.Queue),
				zap.String("consumer_tag", opts.ConsumerTag),
				zap.Error(err),
			)
			if m := metrics.GetMetrics(); m != nil {
				m.RecordMQConsumeError(opts.Queue)
			}

			msg.Nack(false, true) // requeue = true
			continue
		}

		msg.Ack(false)
	}

	return nil
}
