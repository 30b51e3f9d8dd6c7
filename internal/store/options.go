package store

import (
	"log/slog"

	"github.com/iliyamo/studyspot-booking/internal/notify"
)

type options struct {
	debug     bool
	sync      bool
	bus       *notify.Bus
	transport notify.Transport
	logger    *slog.Logger
	onError   func(error)
}

type OptionFunc func(*options)

func newOptions(funcs ...OptionFunc) options {
	opts := options{
		sync:   true,
		logger: slog.Default(),
	}
	for _, fn := range funcs {
		fn(&opts)
	}
	return opts
}

// WithDebug logs every operation at info level instead of debug.
func WithDebug(debug bool) OptionFunc {
	return func(o *options) {
		o.debug = debug
	}
}

// WithSync controls whether the store listens for external changes. It is
// enabled by default. Writes are published either way.
func WithSync(sync bool) OptionFunc {
	return func(o *options) {
		o.sync = sync
	}
}

// WithBus attaches the in-process change bus shared by stores of the same
// process.
func WithBus(bus *notify.Bus) OptionFunc {
	return func(o *options) {
		o.bus = bus
	}
}

// WithTransport attaches a transport that reaches stores in other processes.
func WithTransport(t notify.Transport) OptionFunc {
	return func(o *options) {
		o.transport = t
	}
}

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler is called with every *Error the store recovers from, in
// addition to logging it.
func WithErrorHandler(fn func(error)) OptionFunc {
	return func(o *options) {
		o.onError = fn
	}
}
