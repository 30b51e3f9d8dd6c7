package storage

import (
	"context"
	"testing"
)

// testMedium runs the behaviour every Medium must share.
func testMedium(t *testing.T, m Medium) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, found, err := m.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found {
			t.Fatalf("expected missing key to be reported as not found")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := m.Set(ctx, "k1", `{"a":1}`); err != nil {
			t.Fatalf("set: %v", err)
		}
		raw, found, err := m.Get(ctx, "k1")
		if err != nil || !found {
			t.Fatalf("expected k1 to be found, got found=%v err=%v", found, err)
		}
		if raw != `{"a":1}` {
			t.Fatalf("expected stored value, got %q", raw)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := m.Set(ctx, "k2", `1`); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := m.Set(ctx, "k2", `2`); err != nil {
			t.Fatalf("set: %v", err)
		}
		raw, _, _ := m.Get(ctx, "k2")
		if raw != `2` {
			t.Fatalf("expected last write to win, got %q", raw)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := m.Set(ctx, "k3", `[]`); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := m.Remove(ctx, "k3"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, found, _ := m.Get(ctx, "k3"); found {
			t.Fatalf("expected k3 to be removed")
		}
		if err := m.Remove(ctx, "k3"); err != nil {
			t.Fatalf("removing a missing key should not fail: %v", err)
		}
	})
}
