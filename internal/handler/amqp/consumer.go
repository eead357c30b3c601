package amqphandler

import (
	"context"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"notification-service/internal/usecase"
)

const (
	userCreatedQueue      = "user.created.queue"
	paymentCompletedQueue = "payment.completed.queue"
	paymentOverdueQueue   = "payment.overdue.queue"
)

// Consumer subscribes to the business-event queues and maps each event to one
// or two notifications. Each delivery is handled in its own goroutine; a
// malformed event is logged and dropped, never crashing the consumer.
type Consumer struct {
	conn   *amqp.Connection
	sender *usecase.SendNotificationUsecase
	logger *zap.Logger
}

func NewConsumer(conn *amqp.Connection, sender *usecase.SendNotificationUsecase, logger *zap.Logger) *Consumer {
	return &Consumer{conn: conn, sender: sender, logger: logger}
}

// Start declares the queues and begins consuming. It returns once all
// consumers are registered; delivery handling continues in the background
// until the connection closes.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.consume(ctx, userCreatedQueue, c.handleUserCreated); err != nil {
		return err
	}
	if err := c.consume(ctx, paymentCompletedQueue, c.handlePaymentCompleted); err != nil {
		return err
	}
	return c.consume(ctx, paymentOverdueQueue, c.handlePaymentOverdue)
}

func (c *Consumer) consume(ctx context.Context, queue string, handle func(context.Context, []byte)) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		queue,
		"",    // consumer tag
		true,  // auto-ack: a poison message must not wedge the queue
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	c.logger.Info("consuming business events", zap.String("queue", queue))

	go func() {
		for d := range deliveries {
			go handle(ctx, d.Body)
		}
		c.logger.Warn("event consumer stopped", zap.String("queue", queue))
	}()
	return nil
}
