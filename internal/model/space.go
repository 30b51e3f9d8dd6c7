package model

// OperatingHours holds the human readable opening hours of a space.
type OperatingHours struct {
    Weekdays string `json:"weekdays" yaml:"weekdays"`
    Weekends string `json:"weekends" yaml:"weekends"`
}

// Space is a read-only catalog entry. Bookings copy a subset of its fields
// at creation time.
type Space struct {
    ID             int            `json:"id" yaml:"id"`
    Name           string         `json:"name" yaml:"name"`
    Location       string         `json:"location" yaml:"location"`
    Description    string         `json:"description" yaml:"description"`
    Price          float64        `json:"price" yaml:"price"`
    Rating         float64        `json:"rating" yaml:"rating"`
    Reviews        int            `json:"reviews" yaml:"reviews"`
    Capacity       int            `json:"capacity" yaml:"capacity"`
    Amenities      []string       `json:"amenities" yaml:"amenities"`
    OperatingHours OperatingHours `json:"operating_hours" yaml:"operating_hours"`
    MainImage      string         `json:"main_image" yaml:"main_image"`
    Images         []string       `json:"images" yaml:"images"`
    TimeSlots      []string       `json:"time_slots" yaml:"time_slots"`
}

// OffersSlot reports whether slot is one of the space's time slots.
func (s Space) OffersSlot(slot string) bool {
    for _, ts := range s.TimeSlots {
        if ts == slot {
            return true
        }
    }
    return false
}
