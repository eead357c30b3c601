package amqphandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"notification-service/internal/domain"
)

type paymentCompletedEvent struct {
	UserID        string  `json:"userId"`
	Email         string  `json:"email"`
	PhoneNumber   string  `json:"phoneNumber"`
	ReceiptNumber string  `json:"receiptNumber"`
	Amount        float64 `json:"amount"`
	PaymentDate   string  `json:"paymentDate"`
}

type paymentOverdueEvent struct {
	UserID      string  `json:"userId"`
	PhoneNumber string  `json:"phoneNumber"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"dueDate"`
}

// handlePaymentCompleted sends the generated receipt by email and a short
// payment confirmation by SMS when a phone is on file.
func (c *Consumer) handlePaymentCompleted(ctx context.Context, body []byte) {
	var event paymentCompletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error("malformed payment.completed event", zap.Error(err))
		return
	}

	c.logger.Info("received payment.completed event",
		zap.String("userId", event.UserID),
		zap.String("receipt", event.ReceiptNumber))

	_, err := c.sender.Create(ctx, domain.Notification{
		UserID:     event.UserID,
		Channel:    domain.ChannelEmail,
		Recipient:  event.Email,
		Type:       domain.TypeReceiptGenerated,
		Subject:    "Recibo de Pago Generado - " + event.ReceiptNumber,
		Priority:   domain.PriorityNormal,
		TemplateID: "RECEIPT_GENERATED_TEMPLATE",
		TemplateParams: map[string]string{
			"receiptNumber": event.ReceiptNumber,
			"amount":        fmt.Sprintf("%.2f", event.Amount),
			"paymentDate":   event.PaymentDate,
			"currency":      "PEN",
		},
		CreatedBy: "SYSTEM",
	})
	if err != nil {
		c.logger.Error("failed to send receipt notification",
			zap.String("userId", event.UserID),
			zap.Error(err))
	}

	if event.PhoneNumber != "" {
		_, err := c.sender.Create(ctx, domain.Notification{
			UserID:    event.UserID,
			Channel:   domain.ChannelSMS,
			Recipient: event.PhoneNumber,
			Type:      domain.TypePaymentReceived,
			Message:   fmt.Sprintf("Pago recibido: S/ %.2f. Recibo: %s. Gracias!", event.Amount, event.ReceiptNumber),
			Priority:  domain.PriorityHigh,
			CreatedBy: "SYSTEM",
		})
		if err != nil {
			c.logger.Error("failed to send payment confirmation sms",
				zap.String("userId", event.UserID),
				zap.Error(err))
		}
	}
}

// handlePaymentOverdue sends an urgent SMS; rural users rarely have email.
func (c *Consumer) handlePaymentOverdue(ctx context.Context, body []byte) {
	var event paymentOverdueEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error("malformed payment.overdue event", zap.Error(err))
		return
	}

	c.logger.Info("received payment.overdue event", zap.String("userId", event.UserID))

	_, err := c.sender.Create(ctx, domain.Notification{
		UserID:    event.UserID,
		Channel:   domain.ChannelSMS,
		Recipient: event.PhoneNumber,
		Type:      domain.TypePaymentOverdue,
		Message:   fmt.Sprintf("URGENTE: Pago vencido desde %s. Monto: S/ %.2f. Evita corte de servicio.", event.DueDate, event.Amount),
		Priority:  domain.PriorityUrgent,
		CreatedBy: "SYSTEM",
	})
	if err != nil {
		c.logger.Error("failed to send overdue notification",
			zap.String("userId", event.UserID),
			zap.Error(err))
	}
}
