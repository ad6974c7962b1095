package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"CivicLink/config"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()
		conn, connErr = amqp.Dial(url)
		if connErr != nil {
			return
		}

		// 拓扑声明用临时 channel，声明完即关
		var ch *amqp.Channel
		ch, connErr = conn.Channel()
		if connErr != nil {
			return
		}
		defer ch.Close()

		connErr = declareTopology(ch)
	})

	return connErr
}

// Connection 返回底层连接，publisher/consumer 共用
func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// declareTopology 声明交换机和队列
// invitation.topic 承载员工邀请投递，notification.topic 承载市民短信通知
func declareTopology(ch *amqp.Channel) error {
	exchanges := []string{"invitation.topic", "notification.topic"}
	for _, ex := range exchanges {
		if err := ch.ExchangeDeclare(ex, "topic", true, false, false, false, nil); err != nil {
			return err
		}
	}

	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{"invitation.dispatch", "invitation.topic", "invitation.dispatch"},
		{"notification.sms", "notification.topic", "notification.sms.*"},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}
