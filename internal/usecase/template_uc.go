package usecase

import (
	"context"

	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/internal/events"
	"notification-service/internal/repository"
)

// TemplateUsecase manages the template store: creation, lifecycle, and
// in-place content edits.
type TemplateUsecase struct {
	templates repository.TemplateRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewTemplateUsecase(
	templates repository.TemplateRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *TemplateUsecase {
	return &TemplateUsecase{
		templates: templates,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new DRAFT template.
func (uc *TemplateUsecase) Create(ctx context.Context, t domain.NotificationTemplate) (*domain.NotificationTemplate, error) {
	created, event := domain.NewTemplate(t)

	saved, err := uc.templates.Create(ctx, created)
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(event)
	return saved, nil
}

func (uc *TemplateUsecase) FindByCode(ctx context.Context, code string) (*domain.NotificationTemplate, error) {
	return uc.templates.FindByCode(ctx, code)
}

func (uc *TemplateUsecase) FindByChannel(ctx context.Context, channel domain.Channel) ([]*domain.NotificationTemplate, error) {
	return uc.templates.FindByChannel(ctx, channel)
}

func (uc *TemplateUsecase) FindActive(ctx context.Context) ([]*domain.NotificationTemplate, error) {
	return uc.templates.FindActive(ctx)
}

// UpdateContent performs a versionless in-place edit of the template body and
// publishes the update event.
func (uc *TemplateUsecase) UpdateContent(ctx context.Context, code, template string, variables []string, updatedBy string) (*domain.NotificationTemplate, error) {
	t, err := uc.templates.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	event := t.UpdateContent(template, variables, updatedBy)

	saved, err := uc.templates.Save(ctx, t)
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(event)
	return saved, nil
}

func (uc *TemplateUsecase) Activate(ctx context.Context, code string) (*domain.NotificationTemplate, error) {
	t, err := uc.templates.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	t.Activate()
	return uc.templates.Save(ctx, t)
}

func (uc *TemplateUsecase) Deactivate(ctx context.Context, code string) (*domain.NotificationTemplate, error) {
	t, err := uc.templates.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	t.Deactivate()
	return uc.templates.Save(ctx, t)
}
