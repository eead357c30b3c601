package domain

import (
	"time"

	"github.com/google/uuid"

	"notification-service/pkg/xerrors"
)

// Notification is the aggregate root for one message sent to one user over one
// channel. A given id is mutated by at most one logical operation at a time
// (create, one send, or one retry); the Version field lets the repository
// reject a stale concurrent write.
type Notification struct {
	ID        string
	UserID    string
	Channel   Channel
	Recipient string // phone, email, or userId depending on channel
	Type      NotificationType
	Subject   string // EMAIL only
	Message   string
	Status    Status
	Priority  Priority

	// Template metadata
	TemplateID     string
	TemplateParams map[string]string

	// Provider tracking
	ProviderName string // "LOCAL_SMS_GATEWAY", "SMTP_SERVER", ...
	ProviderID   string
	ErrorMessage string
	RetryCount   int

	// Timestamps
	ScheduledAt *time.Time
	SentAt      *time.Time
	DeliveredAt *time.Time
	ReadAt      *time.Time
	CreatedAt   time.Time
	CreatedBy   string

	Version int64
}

// NewNotification creates a PENDING notification and returns the created event
// alongside it.
func NewNotification(n Notification) (*Notification, DomainEvent) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Status = StatusPending
	n.RetryCount = 0
	n.CreatedAt = time.Now()
	return &n, NewNotificationCreatedEvent(&n)
}

// MarkAsSent transitions PENDING -> SENT. Valid only from PENDING; a SENT or
// FAILED notification is never silently re-sent.
func (n *Notification) MarkAsSent(providerName, providerID string) (DomainEvent, error) {
	if n.Status != StatusPending {
		return nil, xerrors.ErrInvalidTransition
	}
	n.Status = StatusSent
	n.ProviderName = providerName
	n.ProviderID = providerID
	now := time.Now()
	n.SentAt = &now
	return NewNotificationSentEvent(n), nil
}

// MarkAsFailed transitions PENDING -> FAILED and records the delivery error.
func (n *Notification) MarkAsFailed(errMsg string) (DomainEvent, error) {
	if n.Status != StatusPending {
		return nil, xerrors.ErrInvalidTransition
	}
	n.Status = StatusFailed
	n.ErrorMessage = errMsg
	return NewNotificationFailedEvent(n, errMsg), nil
}

// MarkAsDelivered advances SENT -> DELIVERED, driven by provider callbacks.
func (n *Notification) MarkAsDelivered() (DomainEvent, error) {
	if n.Status != StatusSent {
		return nil, xerrors.ErrInvalidTransition
	}
	n.Status = StatusDelivered
	now := time.Now()
	n.DeliveredAt = &now
	return NewNotificationDeliveredEvent(n), nil
}

// MarkAsRead advances SENT or DELIVERED -> READ.
func (n *Notification) MarkAsRead() (DomainEvent, error) {
	if n.Status != StatusSent && n.Status != StatusDelivered {
		return nil, xerrors.ErrInvalidTransition
	}
	n.Status = StatusRead
	now := time.Now()
	n.ReadAt = &now
	return NewNotificationReadEvent(n), nil
}

// IncrementRetry transitions FAILED -> PENDING and bumps the retry counter.
// It does not attempt delivery; a separate dispatch is required.
func (n *Notification) IncrementRetry() error {
	if n.Status != StatusFailed {
		return xerrors.ErrInvalidTransition
	}
	n.RetryCount++
	n.Status = StatusPending
	return nil
}

// CanRetry reports whether the notification is FAILED with retry budget left
// under the given policy.
func (n *Notification) CanRetry(policy RetryPolicy) bool {
	if n.Status != StatusFailed {
		return false
	}
	return n.RetryCount < policy.MaxRetries(n.Priority)
}

func (n *Notification) IsPending() bool {
	return n.Status == StatusPending
}

// IsUrgent is true for URGENT priority or a type flagged urgent by policy.
func (n *Notification) IsUrgent() bool {
	return n.Priority == PriorityUrgent || n.Type.IsUrgent()
}
