package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/internal/repository"
	"notification-service/pkg/xerrors"
)

// PreferenceUsecase manages per-user channel preferences and resolves the
// eligible channels for a (user, type) pair at send time.
type PreferenceUsecase struct {
	preferences repository.PreferenceRepository
	logger      *zap.Logger
}

func NewPreferenceUsecase(preferences repository.PreferenceRepository, logger *zap.Logger) *PreferenceUsecase {
	return &PreferenceUsecase{preferences: preferences, logger: logger}
}

func (uc *PreferenceUsecase) Upsert(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error) {
	p.UpdatedAt = time.Now()
	return uc.preferences.Upsert(ctx, &p)
}

func (uc *PreferenceUsecase) FindByUserID(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	return uc.preferences.FindByUserID(ctx, userID)
}

// ResolveChannels returns the ordered deliverable channels for a user and
// notification type. A user without stored preferences resolves to [IN_APP],
// the same fallback the preference itself guarantees.
func (uc *PreferenceUsecase) ResolveChannels(ctx context.Context, userID string, t domain.NotificationType) ([]domain.Channel, error) {
	p, err := uc.preferences.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrPreferenceNotFound) {
			return []domain.Channel{domain.ChannelInApp}, nil
		}
		return nil, err
	}
	return p.PreferredChannels(t), nil
}

// ResolvePrimary returns the single preferred channel for a user and type.
func (uc *PreferenceUsecase) ResolvePrimary(ctx context.Context, userID string, t domain.NotificationType) (domain.Channel, error) {
	p, err := uc.preferences.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrPreferenceNotFound) {
			return domain.ChannelInApp, nil
		}
		return "", err
	}
	return p.PrimaryChannel(t), nil
}
