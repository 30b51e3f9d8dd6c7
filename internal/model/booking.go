package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
    BookingConfirmed BookingStatus = "confirmed"
    BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
    return s == BookingConfirmed || s == BookingCancelled
}

// Booking records a user's reservation of one time slot in a study space.
// Space fields are copied from the catalog when the booking is created and
// are not kept in sync with it afterwards.
//
// Fields:
//  ID         – generated identifier ("booking-<xid>").
//  SpaceID    – catalog id of the booked space.
//  SpaceName  – space name at booking time.
//  SpaceImage – space main image at booking time.
//  Location   – space location at booking time.
//  Price      – price per session at booking time.
//  UserID     – owner of the booking.
//  UserName   – owner display name.
//  Date       – calendar date (YYYY-MM-DD).
//  TimeSlot   – one of the space's offered slots.
//  CreatedAt  – creation timestamp.
//  Status     – confirmed or cancelled.
type Booking struct {
    ID         string        `json:"id"`
    SpaceID    int           `json:"spaceId"`
    SpaceName  string        `json:"spaceName"`
    SpaceImage string        `json:"spaceImage"`
    Location   string        `json:"location"`
    Price      float64       `json:"price"`
    UserID     string        `json:"userId"`
    UserName   string        `json:"userName"`
    Date       string        `json:"date"`
    TimeSlot   string        `json:"timeSlot"`
    CreatedAt  time.Time     `json:"createdAt"`
    Status     BookingStatus `json:"status"`
}

// Active reports whether the booking still holds its slot.
func (b Booking) Active() bool {
    return b.Status != BookingCancelled
}

// SameSlot reports whether b and o are for the same space, date, time slot
// and user.
func (b Booking) SameSlot(o Booking) bool {
    return b.SpaceID == o.SpaceID &&
        b.Date == o.Date &&
        b.TimeSlot == o.TimeSlot &&
        b.UserID == o.UserID
}
