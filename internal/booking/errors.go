package booking

import "github.com/pkg/errors"

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid booking")
	// ErrDuplicateBooking is returned when the user already holds the same
	// space, date and time slot.
	ErrDuplicateBooking = errors.New("you already have a booking for this space, date, and time slot")
)

// ValidationError reports missing booking input. Message is meant to be
// shown to the user as is.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
