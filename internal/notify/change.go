// Package notify carries change notifications between stores bound to the
// same key. A Transport is either in-process (Bus) or crosses process
// boundaries (Redis pub/sub, RabbitMQ fanout); stores treat them alike.
package notify

import (
	"context"
	"encoding/json"
)

// Change announces that Key now holds Value. A nil Value means the key was
// removed. Origin identifies the publishing store so it can ignore its own
// notifications.
type Change struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value,omitempty"`
	Origin string          `json:"origin"`
}

// Deleted reports whether the change removes the key.
func (c Change) Deleted() bool {
	return len(c.Value) == 0
}

type Handler func(Change)

// Transport publishes changes and delivers them to subscribers. Subscribe
// returns a function that removes the subscription.
type Transport interface {
	Publish(ctx context.Context, c Change) error
	Subscribe(ctx context.Context, h Handler) (cancel func(), err error)
}
