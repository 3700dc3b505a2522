package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"MindTrack/config"
	"MindTrack/pkg/logger"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

// Init 建立连接并声明业务交换机
func Init() error {
	connOnce.Do(func() {
		cfg := config.Cfg

		conn, connErr = amqp.Dial(cfg.GetRabbitMQURL())
		if connErr != nil {
			logger.Logger.Error("Failed to connect to RabbitMQ", zap.Error(connErr))
			return
		}

		if connErr = DeclareExchange(cfg.RabbitMQExchange); connErr != nil {
			logger.Logger.Error("Failed to declare exchange",
				zap.String("exchange", cfg.RabbitMQExchange),
				zap.Error(connErr),
			)
			return
		}

		logger.Logger.Info("RabbitMQ initialized successfully",
			zap.String("exchange", cfg.RabbitMQExchange),
		)
	})

	return connErr
}

func Connection() *amqp.Connection {
	return conn
}

// Ready 判断连接是否可用
func Ready() bool {
	return conn != nil && !conn.IsClosed()
}

// DeclareExchange 声明持久化的 topic 交换机
func DeclareExchange(exchange string) error {
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	return ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
}

// DeclareQueue 声明持久化队列并绑定到交换机
func DeclareQueue(queue, exchange, routingKey string) error {
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}
	return nil
}

func Close(ctx context.Context) error {
	pubMutex.Lock()
	if publisherCh != nil && !publisherCh.IsClosed() {
		_ = publisherCh.Close()
	}
	publisherCh = nil
	pubMutex.Unlock()

	if conn == nil || conn.IsClosed() {
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
