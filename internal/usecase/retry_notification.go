package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/internal/repository"
	"notification-service/pkg/xerrors"
)

// RetryNotificationUsecase re-dispatches a failed notification, subject to the
// priority-scoped retry budget.
type RetryNotificationUsecase struct {
	notifications repository.NotificationRepository
	sender        *SendNotificationUsecase
	policy        domain.RetryPolicy
	logger        *zap.Logger
}

func NewRetryNotificationUsecase(
	notifications repository.NotificationRepository,
	sender *SendNotificationUsecase,
	policy domain.RetryPolicy,
	logger *zap.Logger,
) *RetryNotificationUsecase {
	return &RetryNotificationUsecase{
		notifications: notifications,
		sender:        sender,
		policy:        policy,
		logger:        logger,
	}
}

// Retry loads the notification and, when its retry budget allows, transitions
// FAILED -> PENDING and delegates one send attempt to the dispatch engine.
//
// Calling Retry on a notification that is not FAILED is a no-op returning the
// current state. The retry counter is incremented in memory only; the dispatch
// engine's single persistence write stores it, and the version guard rejects a
// concurrent retry that raced this one.
func (uc *RetryNotificationUsecase) Retry(ctx context.Context, notificationID string) (*domain.Notification, error) {
	n, err := uc.notifications.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotificationNotFound
		}
		return nil, err
	}

	if n.Status != domain.StatusFailed {
		uc.logger.Info("retry requested for non-failed notification, returning current state",
			zap.String("id", notificationID),
			zap.String("status", string(n.Status)))
		return n, nil
	}

	if !n.CanRetry(uc.policy) {
		uc.logger.Warn("notification retry budget exhausted",
			zap.String("id", notificationID),
			zap.Int("retryCount", n.RetryCount),
			zap.String("priority", string(n.Priority)))
		return nil, xerrors.ErrRetryExhausted
	}

	if err := n.IncrementRetry(); err != nil {
		return nil, err
	}

	uc.logger.Info("retrying notification",
		zap.String("id", notificationID),
		zap.Int("attempt", n.RetryCount))

	return uc.sender.Send(ctx, n)
}
