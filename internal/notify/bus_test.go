package notify

import (
	"context"
	"encoding/json"
	"testing"
)

func TestBus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delivers to every subscriber in order", func(t *testing.T) {
		bus := NewBus()
		var got []string
		for _, name := range []string{"a", "b", "c"} {
			name := name
			if _, err := bus.Subscribe(ctx, func(c Change) { got = append(got, name+":"+c.Key) }); err != nil {
				t.Fatalf("subscribe: %v", err)
			}
		}
		if err := bus.Publish(ctx, Change{Key: "k", Value: json.RawMessage(`1`)}); err != nil {
			t.Fatalf("publish: %v", err)
		}
		want := []string{"a:k", "b:k", "c:k"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("cancel removes only that subscription", func(t *testing.T) {
		bus := NewBus()
		var first, second int
		cancel, _ := bus.Subscribe(ctx, func(Change) { first++ })
		_, _ = bus.Subscribe(ctx, func(Change) { second++ })

		cancel()
		cancel()
		if bus.Len() != 1 {
			t.Fatalf("expected 1 subscription left, got %d", bus.Len())
		}
		_ = bus.Publish(ctx, Change{Key: "k"})
		if first != 0 || second != 1 {
			t.Fatalf("expected first=0 second=1, got first=%d second=%d", first, second)
		}
	})

	t.Run("handler may subscribe during delivery", func(t *testing.T) {
		bus := NewBus()
		_, _ = bus.Subscribe(ctx, func(Change) {
			_, _ = bus.Subscribe(ctx, func(Change) {})
		})
		_ = bus.Publish(ctx, Change{Key: "k"})
		if bus.Len() != 2 {
			t.Fatalf("expected 2 subscriptions, got %d", bus.Len())
		}
	})
}

func TestChangeDeleted(t *testing.T) {
	t.Parallel()
	if !(Change{Key: "k"}).Deleted() {
		t.Fatalf("change without value should be a deletion")
	}
	if (Change{Key: "k", Value: json.RawMessage(`null`)}).Deleted() {
		t.Fatalf("explicit null is a value, not a deletion")
	}

	body, err := json.Marshal(Change{Key: "k", Origin: "o"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Change
	if err := json.Unmarshal(body, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Deleted() {
		t.Fatalf("deletion must survive the wire, got %s", body)
	}
}
