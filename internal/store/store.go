// Package store binds one key of a storage medium to an in-memory value.
//
// A Store reads its value once at construction, serves reads from memory,
// writes through to the medium and announces every write on its change
// transports. Stores bound to the same key pick up each other's writes:
// through the in-process Bus within a process, and through a cross-process
// transport (Redis, RabbitMQ) between processes. Consistency across
// processes is last-writer-wins per store.
//
// Storage and decoding failures never reach callers. They are logged, passed
// to the optional error handler, and the store falls back to its initial
// value or keeps the newest value it knows.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/iliyamo/studyspot-booking/internal/notify"
	"github.com/iliyamo/studyspot-booking/internal/storage"
)

// Store holds the value persisted under one key. T must round-trip through
// encoding/json.
type Store[T any] struct {
	key     string
	initial T
	medium  storage.Medium
	origin  string
	opts    options

	mu      sync.RWMutex
	value   T
	writing atomic.Int32

	subMu   sync.Mutex
	cancels []func()
}

// New loads key from medium and, unless WithSync(false) is given, subscribes
// to the configured transports. initial is used when the key is missing,
// holds null, or cannot be decoded.
func New[T any](ctx context.Context, key string, initial T, medium storage.Medium, funcs ...OptionFunc) *Store[T] {
	s := &Store[T]{
		key:     key,
		initial: initial,
		medium:  medium,
		origin:  uuid.NewString(),
		opts:    newOptions(funcs...),
	}
	s.value = s.read(ctx, "load")
	if s.opts.sync {
		s.subscribe(ctx)
	}
	return s
}

func (s *Store[T]) Key() string { return s.key }

// Get returns the cached value without touching the medium.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value.
func (s *Store[T]) Set(ctx context.Context, value T) {
	_, _ = s.Update(ctx, func(T) (T, error) { return value, nil })
}

// Update computes the next value from the current one while holding the
// store lock. When fn fails, nothing is written and the current value and
// fn's error are returned. Otherwise the new value is cached, persisted and
// published; persistence failures are recovered as ErrStorage and the new
// value is returned with a nil error.
func (s *Store[T]) Update(ctx context.Context, fn func(prev T) (T, error)) (T, error) {
	s.writing.Add(1)
	defer s.writing.Add(-1)

	s.mu.Lock()
	next, err := fn(s.value)
	if err != nil {
		cur := s.value
		s.mu.Unlock()
		return cur, err
	}
	s.value = next
	s.trace("store: setting value", "key", s.key)

	raw, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		s.fail(&Error{Kind: ErrStorage, Key: s.key, Op: "encode", Err: err})
		return next, nil
	}
	if err := s.medium.Set(ctx, s.key, string(raw)); err != nil {
		s.mu.Unlock()
		s.fail(&Error{Kind: ErrStorage, Key: s.key, Op: "write", Err: err})
		return next, nil
	}
	s.mu.Unlock()

	s.trace("store: saved value", "key", s.key, "bytes", len(raw))
	s.publish(ctx, notify.Change{Key: s.key, Value: raw, Origin: s.origin})
	return next, nil
}

// Refresh re-reads the medium into the cache. A missing key or an
// undecodable value leaves the cache untouched.
func (s *Store[T]) Refresh(ctx context.Context) {
	raw, found, err := s.medium.Get(ctx, s.key)
	if err != nil {
		s.fail(&Error{Kind: ErrStorage, Key: s.key, Op: "refresh", Err: err})
		return
	}
	if !found {
		s.trace("store: nothing to refresh", "key", s.key)
		return
	}
	value, err := s.decode([]byte(raw))
	if err != nil {
		s.fail(&Error{Kind: ErrParse, Key: s.key, Op: "refresh", Err: err})
		return
	}
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	s.trace("store: refreshed from storage", "key", s.key)
}

// Clear removes the key from the medium, resets the cache to the initial
// value and announces the deletion.
func (s *Store[T]) Clear(ctx context.Context) {
	s.writing.Add(1)
	defer s.writing.Add(-1)

	s.mu.Lock()
	if err := s.medium.Remove(ctx, s.key); err != nil {
		s.mu.Unlock()
		s.fail(&Error{Kind: ErrStorage, Key: s.key, Op: "clear", Err: err})
		return
	}
	s.value = s.initial
	s.mu.Unlock()

	s.trace("store: cleared", "key", s.key)
	s.publish(ctx, notify.Change{Key: s.key, Origin: s.origin})
}

// Close stops listening for external changes.
func (s *Store[T]) Close() {
	s.subMu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.subMu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if len(cancels) > 0 {
		s.trace("store: stopped listening for changes", "key", s.key)
	}
}

func (s *Store[T]) read(ctx context.Context, op string) T {
	raw, found, err := s.medium.Get(ctx, s.key)
	if err != nil {
		s.fail(&Error{Kind: ErrStorage, Key: s.key, Op: op, Err: err})
		return s.initial
	}
	if !found || raw == "null" {
		s.trace("store: no existing value, using initial value", "key", s.key)
		return s.initial
	}
	value, err := s.decode([]byte(raw))
	if err != nil {
		s.fail(&Error{Kind: ErrParse, Key: s.key, Op: op, Err: err})
		return s.initial
	}
	s.trace("store: loaded value", "key", s.key)
	return value
}

func (s *Store[T]) decode(raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, err
	}
	return v, nil
}

type source struct {
	name string
	t    notify.Transport
}

func (s *Store[T]) subscribe(ctx context.Context) {
	var sources []source
	if s.opts.bus != nil {
		sources = append(sources, source{"bus", s.opts.bus})
	}
	if s.opts.transport != nil {
		sources = append(sources, source{"transport", s.opts.transport})
	}

	for _, src := range sources {
		cancel, err := src.t.Subscribe(ctx, s.receive(src.name))
		if err != nil {
			s.opts.logger.Error("store: could not listen for changes", "key", s.key, "source", src.name, "error", err)
			continue
		}
		s.subMu.Lock()
		s.cancels = append(s.cancels, cancel)
		s.subMu.Unlock()
		s.trace("store: listening for changes", "key", s.key, "source", src.name)
	}
}

func (s *Store[T]) receive(from string) notify.Handler {
	return func(c notify.Change) {
		if c.Key != s.key || c.Origin == s.origin {
			return
		}
		if s.writing.Load() > 0 {
			s.trace("store: ignoring change received while writing", "key", s.key, "source", from)
			return
		}
		if c.Deleted() {
			s.mu.Lock()
			s.value = s.initial
			s.mu.Unlock()
			s.trace("store: value removed elsewhere", "key", s.key, "source", from)
			return
		}
		value, err := s.decode(c.Value)
		if err != nil {
			s.fail(&Error{Kind: ErrParse, Key: s.key, Op: "receive", Err: err})
			return
		}
		s.mu.Lock()
		s.value = value
		s.mu.Unlock()
		s.trace("store: value updated elsewhere", "key", s.key, "source", from)
	}
}

func (s *Store[T]) publish(ctx context.Context, c notify.Change) {
	if s.opts.bus != nil {
		_ = s.opts.bus.Publish(ctx, c)
	}
	if s.opts.transport != nil {
		if err := s.opts.transport.Publish(ctx, c); err != nil {
			s.opts.logger.Warn("store: could not broadcast change", "key", s.key, "error", err)
		}
	}
}

func (s *Store[T]) fail(err *Error) {
	s.opts.logger.Error("store: recovered from failure", "key", err.Key, "op", err.Op, "error", err)
	if s.opts.onError != nil {
		s.opts.onError(err)
	}
}

func (s *Store[T]) trace(msg string, args ...any) {
	level := slog.LevelDebug
	if s.opts.debug {
		level = slog.LevelInfo
	}
	s.opts.logger.Log(context.Background(), level, msg, args...)
}
