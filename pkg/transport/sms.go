package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"notification-service/internal/domain"
)

// SMSClient talks to the local SMS gateway over HTTP. Calls run behind a
// circuit breaker so a dead gateway fails fast instead of tying up dispatch
// goroutines until the timeout.
type SMSClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewSMSClient(baseURL string, timeout time.Duration, logger *zap.Logger) *SMSClient {
	return &SMSClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "sms-gateway",
			Timeout: 30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *SMSClient) Channel() domain.Channel { return domain.ChannelSMS }

func (c *SMSClient) ProviderName() string { return "LOCAL_SMS_GATEWAY" }

func (c *SMSClient) Send(ctx context.Context, n *domain.Notification) (string, error) {
	id, err := c.breaker.Execute(func() (interface{}, error) {
		return postGatewayMessage(ctx, c.http, c.baseURL+"/send", n.Recipient, n.Message)
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}

// postGatewayMessage posts {to, message} to a local gateway and returns the
// messageId from the response. Shared by the SMS and WhatsApp clients, whose
// gateways expose the same shape.
func postGatewayMessage(ctx context.Context, client *http.Client, url, to, message string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"message": message,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned %d: %s", resp.StatusCode, body)
	}

	var result struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("gateway rejected message: %s", result.Error)
	}
	return result.MessageID, nil
}
