package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisTransport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv, client := newTestRedis(t)

	tr := NewRedisTransport(client, "", nil)
	got := make(chan Change, 4)
	cancel, err := tr.Subscribe(ctx, func(c Change) { got <- c })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	// Garbage on the channel is dropped without stopping delivery.
	srv.Publish(DefaultRedisChannel, "not json")

	want := Change{Key: "studyspot_bookings", Value: json.RawMessage(`[]`), Origin: "tab-1"}
	if err := tr.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case c := <-got:
		if c.Key != want.Key || c.Origin != want.Origin || string(c.Value) != "[]" {
			t.Fatalf("expected %+v, got %+v", want, c)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change")
	}
}

func TestRedisTransportCancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, client := newTestRedis(t)

	tr := NewRedisTransport(client, "changes", nil)
	cancel, err := tr.Subscribe(ctx, func(Change) {})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	finished := make(chan struct{})
	go func() {
		cancel()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("cancel did not stop the delivery goroutine")
	}
}
