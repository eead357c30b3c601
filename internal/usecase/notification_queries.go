package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/internal/events"
	"notification-service/internal/repository"
	"notification-service/pkg/xerrors"
)

// NotificationQueryUsecase covers the read side plus the provider-callback
// transitions (delivered, read).
type NotificationQueryUsecase struct {
	notifications repository.NotificationRepository
	publisher     events.Publisher
	logger        *zap.Logger
}

func NewNotificationQueryUsecase(
	notifications repository.NotificationRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *NotificationQueryUsecase {
	return &NotificationQueryUsecase{
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

func (uc *NotificationQueryUsecase) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := uc.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

func (uc *NotificationQueryUsecase) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.notifications.FindByUserID(ctx, userID, limit, offset)
}

func (uc *NotificationQueryUsecase) FindByStatus(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.notifications.FindByStatus(ctx, status, limit, offset)
}

func (uc *NotificationQueryUsecase) FindUnreadByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return uc.notifications.FindUnreadByUserID(ctx, userID)
}

// MarkAsDelivered advances SENT -> DELIVERED on a provider callback.
func (uc *NotificationQueryUsecase) MarkAsDelivered(ctx context.Context, id string) (*domain.Notification, error) {
	return uc.transition(ctx, id, (*domain.Notification).MarkAsDelivered)
}

// MarkAsRead advances SENT or DELIVERED -> READ.
func (uc *NotificationQueryUsecase) MarkAsRead(ctx context.Context, id string) (*domain.Notification, error) {
	return uc.transition(ctx, id, (*domain.Notification).MarkAsRead)
}

func (uc *NotificationQueryUsecase) transition(
	ctx context.Context,
	id string,
	apply func(*domain.Notification) (domain.DomainEvent, error),
) (*domain.Notification, error) {
	n, err := uc.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := apply(n)
	if err != nil {
		return nil, err
	}

	saved, err := uc.notifications.Save(ctx, n)
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(event)
	return saved, nil
}
