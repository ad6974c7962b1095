package mq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
)

// 单例 channel + 读写锁，读多写少，断线后下次发布时重建

var (
	publisherCh *amqp.Channel
	pubMutex    sync.RWMutex
)

func getPublisherChannel() (*amqp.Channel, error) {
	// 先读锁检查
	pubMutex.RLock()
	if publisherCh != nil && !publisherCh.IsClosed() {
		ch := publisherCh
		pubMutex.RUnlock()
		return ch, nil
	}
	pubMutex.RUnlock()

	pubMutex.Lock()
	defer pubMutex.Unlock()

	if publisherCh != nil && !publisherCh.IsClosed() {
		return publisherCh, nil
	}

	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	publisherCh = ch

	go func() {
		closeChan := make(chan *amqp.Error, 1)
		closeChan = publisherCh.NotifyClose(closeChan)
		<-closeChan

		pubMutex.Lock()
		publisherCh = nil
		pubMutex.Unlock()

		logger.Logger.Warn("Publisher channel closed, will recreate on next publish",
			zap.String("component", "rabbitmq"),
		)
	}()

	logger.Logger.Info("Publisher channel created",
		zap.String("component", "rabbitmq"),
	)

	return publisherCh, nil
}

// PublishMessage 发送普通消息
func PublishMessage(exchange, routingKey string, body interface{}) error {
	ch, err := getPublisherChannel()
	if err != nil {
		recordPublish(exchange, routingKey, err)
		return err
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         bodyBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)

	recordPublish(exchange, routingKey, err)
	return err
}

// PublishDelayedMessage 发送延迟消息，依赖 x-delayed-message 插件
func PublishDelayedMessage(exchange, routingKey string, delay time.Duration, body interface{}) error {
	ch, err := getPublisherChannel()
	if err != nil {
		recordPublish(exchange, routingKey, err)
		return err
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bodyBytes,
			Headers: amqp.Table{
				"x-delay": delay.Milliseconds(),
			},
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)

	if err != nil {
		recordPublish(exchange, routingKey, err)
		return fmt.Errorf("failed to publish delayed message: %w", err)
	}
	recordPublish(exchange, routingKey, nil)
	return nil
}

func recordPublish(exchange, routingKey string, err error) {
	m := metrics.GetMetrics()
	if m == nil {
		return
	}
	m.RecordMQPublish(exchange, routingKey, err)
}
