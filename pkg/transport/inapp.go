package transport

import (
	"context"

	"notification-service/internal/domain"
	"notification-service/pkg/ws"
)

// inAppProviderID is the sentinel reported for the in-app channel, which is
// satisfied by persistence alone.
const inAppProviderID = "IN_APP"

// InAppClient never fails: the aggregate row is the delivery. A websocket push
// to live connections is a best-effort extra.
type InAppClient struct {
	manager *ws.Manager
}

func NewInAppClient(manager *ws.Manager) *InAppClient {
	return &InAppClient{manager: manager}
}

func (c *InAppClient) Channel() domain.Channel { return domain.ChannelInApp }

func (c *InAppClient) ProviderName() string { return "IN_APP" }

func (c *InAppClient) Send(_ context.Context, n *domain.Notification) (string, error) {
	if c.manager != nil {
		c.manager.Send(n.UserID, ws.Push{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Type:           string(n.Type),
			Subject:        n.Subject,
			Message:        n.Message,
			Priority:       string(n.Priority),
		})
	}
	return inAppProviderID, nil
}
