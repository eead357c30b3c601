package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"notification-service/internal/domain"
)

// WhatsAppClient talks to the self-hosted WhatsApp gateway (own number, no
// cloud provider).
type WhatsAppClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewWhatsAppClient(baseURL string, timeout time.Duration, logger *zap.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "whatsapp-gateway",
			Timeout: 30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *WhatsAppClient) Channel() domain.Channel { return domain.ChannelWhatsApp }

func (c *WhatsAppClient) ProviderName() string { return "OWN_WHATSAPP_NUMBER" }

func (c *WhatsAppClient) Send(ctx context.Context, n *domain.Notification) (string, error) {
	id, err := c.breaker.Execute(func() (interface{}, error) {
		return postGatewayMessage(ctx, c.http, c.baseURL+"/send", n.Recipient, n.Message)
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}
