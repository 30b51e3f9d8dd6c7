// Package storage provides the key/value media that persisted stores write
// through to. Values are opaque strings, normally JSON documents.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrQuotaExceeded is returned by media that enforce a size limit when a
// write would exceed it.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Medium is a durable key/value store shared by every consumer of the same
// backend. Get reports found=false for missing keys rather than an error.
type Medium interface {
	Get(ctx context.Context, key string) (raw string, found bool, err error)
	Set(ctx context.Context, key, raw string) error
	Remove(ctx context.Context, key string) error
}
