package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemory(t *testing.T) {
	t.Parallel()
	testMedium(t, NewMemory())
}

func TestMemoryQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(WithQuota(16))

	if err := m.Set(ctx, "key", "0123456789"); err != nil {
		t.Fatalf("expected write within quota, got %v", err)
	}
	err := m.Set(ctx, "other", strings.Repeat("x", 10))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if _, found, _ := m.Get(ctx, "other"); found {
		t.Fatalf("rejected write must not be stored")
	}

	// Replacing a value only counts the difference.
	if err := m.Set(ctx, "key", "abcdefghijkl"); err != nil {
		t.Fatalf("expected replacement within quota, got %v", err)
	}
	if err := m.Remove(ctx, "key"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.Set(ctx, "other", strings.Repeat("x", 10)); err != nil {
		t.Fatalf("expected space to be released after remove, got %v", err)
	}
}
