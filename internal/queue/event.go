// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in BookingEvent.Type.
const (
    EventBookingConfirmed = "booking.confirmed"
    EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published when a booking is confirmed or cancelled. It
// carries enough of the booking for downstream consumers to log or notify
// without reading the booking store.
type BookingEvent struct {
    Type       string  `json:"type"`
    BookingID  string  `json:"booking_id"`
    UserID     string  `json:"user_id"`
    UserName   string  `json:"user_name"`
    SpaceID    int     `json:"space_id"`
    SpaceName  string  `json:"space_name"`
    Location   string  `json:"location"`
    Date       string  `json:"date"`
    TimeSlot   string  `json:"time_slot"`
    Price      float64 `json:"price"`
    OccurredAt string  `json:"occurred_at"`
}
