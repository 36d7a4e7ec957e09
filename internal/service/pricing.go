package service

import (
	"github.com/ashu917/Car-rental/internal/apperror"
	"github.com/ashu917/Car-rental/internal/models"
)

// RentalPrice computes the total for renting at pricePerDay over the
// inclusive day count of the range. Pickup and return on the same day is
// one billable day; 2024-01-01 to 2024-01-03 at 100/day is 300. The
// result is always server-computed, never taken from a client.
func RentalPrice(pricePerDay float64, rng models.DateRange) (float64, error) {
	days := rng.Days()
	if days <= 0 {
		return 0, apperror.Validation("return date must be after pickup date")
	}
	if pricePerDay < 0 {
		return 0, apperror.Validation("price per day must not be negative")
	}
	return pricePerDay * float64(days), nil
}
