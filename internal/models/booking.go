package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking reserves one car for one renter over an inclusive day range.
// Owner is a snapshot of the car's owner taken at creation time; it is
// never re-derived even if the car changes hands later.
type Booking struct {
	ID         string        `json:"_id"`
	Car        string        `json:"car"`
	User       string        `json:"user"`
	Owner      string        `json:"owner"`
	PickupDate time.Time     `json:"pickupDate"`
	ReturnDate time.Time     `json:"returnDate"`
	Status     BookingStatus `json:"status"`
	Price      float64       `json:"price"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Occupies reports whether the booking blocks other renters from the car.
// Pending and confirmed bookings both hold the slot; cancelled never does.
func (b *Booking) Occupies() bool {
	return b.Status != StatusCancelled
}
