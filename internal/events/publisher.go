package events

import (
	"encoding/json"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"notification-service/internal/domain"
)

const exchangeName = "notification.events"

// Publisher delivers domain events to downstream consumers (audit, analytics).
// Publication is best-effort, at-most-once: a failed publish is logged and
// dropped, and never rolls back the aggregate's persisted state.
type Publisher interface {
	Publish(event domain.DomainEvent)
}

type rabbitPublisher struct {
	conn   *amqp.Connection
	logger *zap.Logger
	mu     sync.Mutex
	ch     *amqp.Channel
}

func NewRabbitPublisher(conn *amqp.Connection, logger *zap.Logger) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}
	return &rabbitPublisher{conn: conn, logger: logger, ch: ch}, nil
}

func (p *rabbitPublisher) Publish(event domain.DomainEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal domain event",
			zap.String("event", event.EventName()),
			zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(
		exchangeName,
		event.EventName(), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   event.EventID(),
			Timestamp:   event.OccurredAt(),
			Body:        body,
		},
	)
	if err != nil {
		p.logger.Error("failed to publish domain event",
			zap.String("event", event.EventName()),
			zap.String("aggregateId", event.AggregateID()),
			zap.Error(err))
	}
}

// NopPublisher drops events; used when the broker is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(domain.DomainEvent) {}
