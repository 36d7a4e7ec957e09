package service

import "github.com/ashu917/Car-rental/internal/models"

// StatusNotification is everything the mailer needs to tell a renter
// about a booking status change.
type StatusNotification struct {
	ToEmail    string
	Status     models.BookingStatus
	CarName    string
	PickupDate string
	ReturnDate string
	Price      float64
}

// EmailSender abstracts email sending operations for testability.
type EmailSender interface {
	SendBookingStatusEmail(n StatusNotification) error
}
