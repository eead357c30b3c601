package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DomainEvent is an immutable fact recorded when an aggregate changes state.
// Events are returned from the transition that produced them; the caller owns
// the slice and publishes after the aggregate is persisted.
type DomainEvent interface {
	EventID() string
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

type baseEvent struct {
	ID          string    `json:"eventId"`
	Name        string    `json:"eventName"`
	Aggregate   string    `json:"aggregateId"`
	OccurredAtT time.Time `json:"occurredAt"`
}

func newBaseEvent(name, aggregateID string) baseEvent {
	return baseEvent{
		ID:          ulid.Make().String(),
		Name:        name,
		Aggregate:   aggregateID,
		OccurredAtT: time.Now(),
	}
}

func (e baseEvent) EventID() string       { return e.ID }
func (e baseEvent) EventName() string     { return e.Name }
func (e baseEvent) AggregateID() string   { return e.Aggregate }
func (e baseEvent) OccurredAt() time.Time { return e.OccurredAtT }

type NotificationCreatedEvent struct {
	baseEvent
	UserID   string           `json:"userId"`
	Channel  Channel          `json:"channel"`
	Type     NotificationType `json:"type"`
	Priority Priority         `json:"priority"`
}

func NewNotificationCreatedEvent(n *Notification) NotificationCreatedEvent {
	return NotificationCreatedEvent{
		baseEvent: newBaseEvent("notification.created", n.ID),
		UserID:    n.UserID,
		Channel:   n.Channel,
		Type:      n.Type,
		Priority:  n.Priority,
	}
}

type NotificationSentEvent struct {
	baseEvent
	UserID       string  `json:"userId"`
	Channel      Channel `json:"channel"`
	ProviderName string  `json:"providerName"`
	ProviderID   string  `json:"providerId"`
}

func NewNotificationSentEvent(n *Notification) NotificationSentEvent {
	return NotificationSentEvent{
		baseEvent:    newBaseEvent("notification.sent", n.ID),
		UserID:       n.UserID,
		Channel:      n.Channel,
		ProviderName: n.ProviderName,
		ProviderID:   n.ProviderID,
	}
}

type NotificationFailedEvent struct {
	baseEvent
	UserID       string  `json:"userId"`
	Channel      Channel `json:"channel"`
	ErrorMessage string  `json:"errorMessage"`
	RetryCount   int     `json:"retryCount"`
}

func NewNotificationFailedEvent(n *Notification, errMsg string) NotificationFailedEvent {
	return NotificationFailedEvent{
		baseEvent:    newBaseEvent("notification.failed", n.ID),
		UserID:       n.UserID,
		Channel:      n.Channel,
		ErrorMessage: errMsg,
		RetryCount:   n.RetryCount,
	}
}

type NotificationDeliveredEvent struct {
	baseEvent
	UserID string `json:"userId"`
}

func NewNotificationDeliveredEvent(n *Notification) NotificationDeliveredEvent {
	return NotificationDeliveredEvent{
		baseEvent: newBaseEvent("notification.delivered", n.ID),
		UserID:    n.UserID,
	}
}

type NotificationReadEvent struct {
	baseEvent
	UserID string `json:"userId"`
}

func NewNotificationReadEvent(n *Notification) NotificationReadEvent {
	return NotificationReadEvent{
		baseEvent: newBaseEvent("notification.read", n.ID),
		UserID:    n.UserID,
	}
}

type TemplateCreatedEvent struct {
	baseEvent
	Code    string  `json:"code"`
	Channel Channel `json:"channel"`
}

func NewTemplateCreatedEvent(t *NotificationTemplate) TemplateCreatedEvent {
	return TemplateCreatedEvent{
		baseEvent: newBaseEvent("template.created", t.ID),
		Code:      t.Code,
		Channel:   t.Channel,
	}
}

type TemplateUpdatedEvent struct {
	baseEvent
	Code      string `json:"code"`
	UpdatedBy string `json:"updatedBy"`
}

func NewTemplateUpdatedEvent(t *NotificationTemplate) TemplateUpdatedEvent {
	return TemplateUpdatedEvent{
		baseEvent: newBaseEvent("template.updated", t.ID),
		Code:      t.Code,
		UpdatedBy: t.UpdatedBy,
	}
}
