package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel used when none is configured.
const DefaultRedisChannel = "studyspot:changes"

// RedisTransport broadcasts changes over a Redis pub/sub channel. Every
// process subscribed to the channel receives every change, including its own.
type RedisTransport struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisTransport(client *redis.Client, channel string, logger *slog.Logger) *RedisTransport {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisTransport{client: client, channel: channel, logger: logger}
}

func (t *RedisTransport) Publish(ctx context.Context, c Change) error {
	body, err := json.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := t.client.Publish(ctx, t.channel, body).Err(); err != nil {
		return errors.Wrap(err, "redis publish")
	}
	return nil
}

// Subscribe blocks until Redis confirms the subscription, then delivers
// messages from a background goroutine until cancel is called.
func (t *RedisTransport) Subscribe(ctx context.Context, h Handler) (func(), error) {
	ps := t.client.Subscribe(ctx, t.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, errors.Wrap(err, "redis subscribe")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				t.logger.Error("notify: dropping undecodable redis message", "channel", t.channel, "error", err)
				continue
			}
			h(c)
		}
	}()

	return func() {
		_ = ps.Close()
		<-done
	}, nil
}
