// Package transport holds one client per delivery channel. Each client
// satisfies the same narrow contract: send one message, return the provider's
// message id or an error. Delivery outcomes are data for the dispatch engine;
// nothing here retries or buffers.
package transport

import (
	"context"

	"notification-service/internal/domain"
)

// Transport sends one notification over its channel.
type Transport interface {
	Channel() domain.Channel
	ProviderName() string
	Send(ctx context.Context, n *domain.Notification) (providerID string, err error)
}

// Registry maps each channel to its transport.
type Registry map[domain.Channel]Transport

func NewRegistry(transports ...Transport) Registry {
	reg := make(Registry, len(transports))
	for _, t := range transports {
		reg[t.Channel()] = t
	}
	return reg
}

func (r Registry) For(c domain.Channel) (Transport, bool) {
	t, ok := r[c]
	return t, ok
}
