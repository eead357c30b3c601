package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/internal/events"
	"notification-service/internal/repository"
	"notification-service/pkg/transport"
	"notification-service/pkg/xerrors"
)

// Timeouts bound each suspension point of a dispatch: the template read, the
// transport call, and the persistence write. No in-process lock is held across
// any of them.
type Timeouts struct {
	Template  time.Duration
	Transport time.Duration
	Persist   time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Template:  3 * time.Second,
		Transport: 10 * time.Second,
		Persist:   5 * time.Second,
	}
}

// SendNotificationUsecase is the dispatch engine: it resolves message content,
// invokes the channel transport, records the outcome on the aggregate,
// persists it, and publishes the resulting domain events.
//
// A transport failure is never an error from Send. Delivery outcomes are data:
// the aggregate comes back FAILED with the error message recorded. Only
// validation problems (missing template, invalid state) surface as errors.
type SendNotificationUsecase struct {
	notifications repository.NotificationRepository
	templates     repository.TemplateRepository
	transports    transport.Registry
	publisher     events.Publisher
	timeouts      Timeouts
	logger        *zap.Logger
}

func NewSendNotificationUsecase(
	notifications repository.NotificationRepository,
	templates repository.TemplateRepository,
	transports transport.Registry,
	publisher events.Publisher,
	timeouts Timeouts,
	logger *zap.Logger,
) *SendNotificationUsecase {
	return &SendNotificationUsecase{
		notifications: notifications,
		templates:     templates,
		transports:    transports,
		publisher:     publisher,
		timeouts:      timeouts,
		logger:        logger,
	}
}

// Create builds a PENDING notification, persists it, publishes the created
// event, and dispatches exactly one send attempt.
func (uc *SendNotificationUsecase) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	created, createdEvent := domain.NewNotification(n)

	pctx, cancel := context.WithTimeout(ctx, uc.timeouts.Persist)
	defer cancel()
	persisted, err := uc.notifications.Create(pctx, created)
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(createdEvent)

	return uc.Send(ctx, persisted)
}

// Send performs one delivery attempt for an already persisted notification:
// exactly one transport call, exactly one persistence write, then best-effort
// event publication.
func (uc *SendNotificationUsecase) Send(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	uc.logger.Info("dispatching notification",
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("channel", string(n.Channel)))

	if err := uc.prepare(ctx, n); err != nil {
		return nil, err
	}

	var pending []domain.DomainEvent

	providerID, sendErr := uc.attemptDelivery(ctx, n)
	if sendErr != nil {
		uc.logger.Warn("notification delivery failed",
			zap.String("id", n.ID),
			zap.String("channel", string(n.Channel)),
			zap.Error(sendErr))
		event, err := n.MarkAsFailed(sendErr.Error())
		if err != nil {
			return nil, err
		}
		pending = append(pending, event)
	} else {
		t, _ := uc.transports.For(n.Channel)
		event, err := n.MarkAsSent(t.ProviderName(), providerID)
		if err != nil {
			return nil, err
		}
		pending = append(pending, event)
	}

	pctx, cancel := context.WithTimeout(ctx, uc.timeouts.Persist)
	defer cancel()
	saved, err := uc.notifications.Save(pctx, n)
	if err != nil {
		return nil, err
	}

	for _, event := range pending {
		uc.publisher.Publish(event)
	}
	return saved, nil
}

// prepare resolves template content when the notification references a
// template and carries no message of its own.
func (uc *SendNotificationUsecase) prepare(ctx context.Context, n *domain.Notification) error {
	if n.TemplateID == "" || n.Message != "" {
		return nil
	}

	tctx, cancel := context.WithTimeout(ctx, uc.timeouts.Template)
	defer cancel()

	tmpl, err := uc.templates.FindByCode(tctx, n.TemplateID)
	if err != nil {
		return err
	}

	rendered := tmpl.Render(n.TemplateParams)
	if unresolved := domain.UnresolvedPlaceholders(rendered); len(unresolved) > 0 {
		uc.logger.Warn("template rendered with unresolved placeholders",
			zap.String("template", tmpl.Code),
			zap.Strings("placeholders", unresolved))
	}

	n.Message = rendered
	if n.Subject == "" && tmpl.Subject != "" {
		n.Subject = tmpl.Subject
	}
	return nil
}

func (uc *SendNotificationUsecase) attemptDelivery(ctx context.Context, n *domain.Notification) (string, error) {
	t, ok := uc.transports.For(n.Channel)
	if !ok {
		return "", xerrors.ErrInvalidChannel
	}

	sctx, cancel := context.WithTimeout(ctx, uc.timeouts.Transport)
	defer cancel()
	return t.Send(sctx, n)
}
