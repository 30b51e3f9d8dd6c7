// Package booking keeps the list of study space bookings in a persistent
// store and enforces the one-booking-per-slot rule for each user.
package booking

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"

	"github.com/iliyamo/studyspot-booking/internal/clock"
	"github.com/iliyamo/studyspot-booking/internal/metrics"
	"github.com/iliyamo/studyspot-booking/internal/model"
	"github.com/iliyamo/studyspot-booking/internal/queue"
	"github.com/iliyamo/studyspot-booking/internal/store"
)

// StorageKey is the key the booking list is persisted under.
const StorageKey = "studyspot_bookings"

// EventPublisher forwards booking events to downstream consumers.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// NewBooking is the input to AddBooking. Space fields are copied into the
// booking as given.
type NewBooking struct {
	SpaceID    int
	SpaceName  string
	SpaceImage string
	Location   string
	Price      float64
	UserID     string
	UserName   string
	Date       string
	TimeSlot   string
}

func (n NewBooking) validate() error {
	if n.UserID == "" {
		return &ValidationError{Fields: []string{"userId"}, Message: "please log in to book a space"}
	}
	var missing []string
	if n.SpaceID == 0 {
		missing = append(missing, "spaceId")
	}
	if n.Date == "" {
		missing = append(missing, "date")
	}
	if n.TimeSlot == "" {
		missing = append(missing, "timeSlot")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "please fill in all required booking information"}
	}
	return nil
}

type Registry struct {
	store     *store.Store[[]model.Booking]
	clock     clock.Clock
	newID     func() string
	publisher EventPublisher
	logger    *slog.Logger
}

type Option func(*Registry)

func WithClock(c clock.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithIDGenerator replaces the default "booking-<xid>" id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// WithEventPublisher publishes a BookingEvent after every confirmed or
// cancelled booking. Publish failures are logged and otherwise ignored.
func WithEventPublisher(p EventPublisher) Option {
	return func(r *Registry) { r.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry wraps a store holding the booking list.
func NewRegistry(s *store.Store[[]model.Booking], opts ...Option) *Registry {
	r := &Registry{
		store:  s,
		clock:  clock.NewSystem(),
		newID:  func() string { return "booking-" + xid.New().String() },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddBooking validates in, rejects it when the user already holds an active
// booking for the same space, date and time slot, and otherwise appends a
// confirmed booking.
func (r *Registry) AddBooking(ctx context.Context, in NewBooking) (*model.Booking, error) {
	if err := in.validate(); err != nil {
		metrics.BookingsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return nil, err
	}

	b := model.Booking{
		ID:         r.newID(),
		SpaceID:    in.SpaceID,
		SpaceName:  in.SpaceName,
		SpaceImage: in.SpaceImage,
		Location:   in.Location,
		Price:      in.Price,
		UserID:     in.UserID,
		UserName:   in.UserName,
		Date:       in.Date,
		TimeSlot:   in.TimeSlot,
		CreatedAt:  r.clock.Now().UTC(),
		Status:     model.BookingConfirmed,
	}

	_, err := r.store.Update(ctx, func(prev []model.Booking) ([]model.Booking, error) {
		for _, existing := range prev {
			if existing.Active() && existing.SameSlot(b) {
				return nil, ErrDuplicateBooking
			}
		}
		next := make([]model.Booking, len(prev), len(prev)+1)
		copy(next, prev)
		return append(next, b), nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateBooking) {
			metrics.BookingsRejected.WithLabelValues(metrics.ReasonDuplicate).Inc()
			r.logger.Info("booking: duplicate rejected",
				"user_id", in.UserID, "space_id", in.SpaceID, "date", in.Date, "time_slot", in.TimeSlot)
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	r.logger.Info("booking: confirmed", "booking_id", b.ID, "user_id", b.UserID, "space_id", b.SpaceID)
	r.emit(ctx, queue.EventBookingConfirmed, b)
	return &b, nil
}

// CancelBooking removes the booking with the given id. It reports whether a
// booking was removed.
func (r *Registry) CancelBooking(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	var removed model.Booking
	found := false
	_, err := r.store.Update(ctx, func(prev []model.Booking) ([]model.Booking, error) {
		i := slices.IndexFunc(prev, func(b model.Booking) bool { return b.ID == id })
		if i < 0 {
			return nil, errNotFound
		}
		removed, found = prev[i], true
		next := make([]model.Booking, 0, len(prev)-1)
		next = append(next, prev[:i]...)
		return append(next, prev[i+1:]...), nil
	})
	if err != nil || !found {
		return false
	}

	metrics.BookingsCancelled.Inc()
	r.logger.Info("booking: cancelled", "booking_id", id, "user_id", removed.UserID)
	removed.Status = model.BookingCancelled
	r.emit(ctx, queue.EventBookingCancelled, removed)
	return true
}

// errNotFound aborts a cancel update without writing.
var errNotFound = errors.New("booking not found")

// BookingsByUser returns the user's active bookings, newest first. Bookings
// created at the same instant keep their stored order.
func (r *Registry) BookingsByUser(userID string) []model.Booking {
	out := []model.Booking{}
	if userID == "" {
		return out
	}
	for _, b := range r.store.Get() {
		if b.UserID == userID && b.Active() {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Booking) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Bookings returns a copy of every stored booking in insertion order.
func (r *Registry) Bookings() []model.Booking {
	return slices.Clone(r.store.Get())
}

func (r *Registry) Total() int { return len(r.store.Get()) }

func (r *Registry) Get(id string) (model.Booking, bool) {
	for _, b := range r.store.Get() {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

func (r *Registry) emit(ctx context.Context, typ string, b model.Booking) {
	if r.publisher == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		UserID:     b.UserID,
		UserName:   b.UserName,
		SpaceID:    b.SpaceID,
		SpaceName:  b.SpaceName,
		Location:   b.Location,
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
		Price:      b.Price,
		OccurredAt: r.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := r.publisher.PublishBookingEvent(ctx, ev); err != nil {
		r.logger.Warn("booking: could not publish event", "type", typ, "booking_id", b.ID, "error", err)
	}
}
