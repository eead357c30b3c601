package amqphandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"notification-service/internal/domain"
)

type userCreatedEvent struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phoneNumber"`
	Username          string `json:"username"`
	TemporaryPassword string `json:"temporaryPassword"`
}

// handleUserCreated sends access credentials to a new user: email with the
// templated credentials message, plus an SMS pointer when a phone is on file.
func (c *Consumer) handleUserCreated(ctx context.Context, body []byte) {
	var event userCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error("malformed user.created event", zap.Error(err))
		return
	}

	c.logger.Info("received user.created event", zap.String("userId", event.UserID))

	_, err := c.sender.Create(ctx, domain.Notification{
		UserID:     event.UserID,
		Channel:    domain.ChannelEmail,
		Recipient:  event.Email,
		Type:       domain.TypeUserCredentials,
		Subject:    "Bienvenido a Sistema JASS - Credenciales de Acceso",
		Priority:   domain.PriorityHigh,
		TemplateID: "USER_CREDENTIALS_TEMPLATE",
		TemplateParams: map[string]string{
			"username":          event.Username,
			"temporaryPassword": event.TemporaryPassword,
			"systemName":        "Sistema JASS",
		},
		CreatedBy: "SYSTEM",
	})
	if err != nil {
		c.logger.Error("failed to send credentials notification",
			zap.String("userId", event.UserID),
			zap.Error(err))
	}

	if event.PhoneNumber != "" {
		_, err := c.sender.Create(ctx, domain.Notification{
			UserID:    event.UserID,
			Channel:   domain.ChannelSMS,
			Recipient: event.PhoneNumber,
			Type:      domain.TypeUserCredentials,
			Message:   "Tu usuario es: " + event.Username + ". Revisa tu email para la contraseña temporal.",
			Priority:  domain.PriorityHigh,
			CreatedBy: "SYSTEM",
		})
		if err != nil {
			c.logger.Error("failed to send credentials sms",
				zap.String("userId", event.UserID),
				zap.Error(err))
		}
	}
}
