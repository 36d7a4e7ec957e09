package store

import (
	"errors"

	"github.com/ashu917/Car-rental/internal/models"
)

// Sentinel errors surfaced by Store implementations.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDayConflict means a day claim collided with another non-cancelled
	// booking for the same car. The whole write is rolled back.
	ErrDayConflict = errors.New("booking days conflict")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store defines the interface for database operations.
type Store interface {
	// User related methods
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	// Car related methods
	SaveCar(car *models.Car) error
	GetCarByID(id string) (*models.Car, error)
	ListAvailableCarsByLocation(location string) ([]*models.Car, error)
	ListCarsByOwner(ownerID string) ([]*models.Car, error)
	SetCarBooked(id string, booked bool) error

	// Booking related methods. CreateBooking and UpdateBookingDates claim
	// one row per rented day in a single transaction; a colliding claim
	// rolls everything back with ErrDayConflict.
	CreateBooking(booking *models.Booking, dayKeys []string) error
	GetBookingByID(id string) (*models.Booking, error)
	UpdateBookingStatus(booking *models.Booking) error
	UpdateBookingDates(booking *models.Booking, dayKeys []string) error
	ListBookingsByRenter(userID string) ([]*models.Booking, error)
	ListBookingsByOwner(ownerID string) ([]*models.Booking, error)
	CountOverlapping(carID, startDay, endDay, excludeBookingID string) (int, error)
	OccupiedCars(carIDs []string, startDay, endDay string) (map[string]bool, error)

	Close() error
}
