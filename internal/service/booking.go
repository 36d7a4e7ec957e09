package service

import (
	"context"
	"errors"
	"time"

	"github.com/ashu917/Car-rental/internal/apperror"
	"github.com/ashu917/Car-rental/internal/logger"
	"github.com/ashu917/Car-rental/internal/metrics"
	"github.com/ashu917/Car-rental/internal/models"
	"github.com/ashu917/Car-rental/internal/store"
	"github.com/google/uuid"
)

// BookingService owns the booking lifecycle: it is the only code that
// creates bookings, moves them between statuses, and mutates a car's
// IsBooked flag. Caller identity is always an explicit parameter.
type BookingService struct {
	logger  *logger.Logger
	store   store.Store
	mailer  EmailSender // nil disables notifications
	metrics *metrics.Metrics
	loc     *time.Location
}

func NewBookingService(log *logger.Logger, st store.Store, mailer EmailSender, m *metrics.Metrics, loc *time.Location) *BookingService {
	return &BookingService{
		logger:  log,
		store:   st,
		mailer:  mailer,
		metrics: m,
		loc:     loc,
	}
}

// Create validates and persists a new pending booking for the renter.
// A pending booking occupies the car's days immediately but does not set
// the car's IsBooked flag; only confirmation does that.
func (s *BookingService) Create(ctx context.Context, renterID, carID string, pickup, returnDate time.Time) (*models.Booking, error) {
	if renterID == "" || carID == "" {
		return nil, apperror.Validation("car, pickupDate and returnDate are required")
	}
	rng, err := models.NewDateRange(pickup, returnDate, s.loc)
	if err != nil {
		return nil, apperror.Validation("invalid date range: %v", err)
	}

	if err := s.checkAvailability(carID, rng, ""); err != nil {
		return nil, err
	}

	car, err := s.store.GetCarByID(carID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("car not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load car", err)
	}
	if !car.IsAvailable {
		return nil, apperror.Conflict("car is not available")
	}

	price, err := RentalPrice(car.PricePerDay, rng)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:         uuid.New().String(),
		Car:        car.ID,
		User:       renterID,
		Owner:      car.Owner, // ownership snapshot, never re-derived
		PickupDate: rng.Start,
		ReturnDate: rng.End,
		Status:     models.StatusPending,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateBooking(booking, rng.DayKeys()); err != nil {
		if errors.Is(err, store.ErrDayConflict) {
			// lost the race against a concurrent create for the same days
			s.metrics.BookingConflicts.Inc()
			return nil, apperror.Conflict("car is not available for the selected dates")
		}
		return nil, apperror.Internal("failed to create booking", err)
	}

	s.metrics.BookingsCreated.Inc()
	s.logger.Info("Booking created",
		logger.Action("create"),
		logger.Booking(booking.ID),
		logger.Car(car.ID),
		logger.User(renterID),
		logger.Days(rng.Days()),
		logger.Price(price))
	return booking, nil
}

// ChangeStatus moves a booking between lifecycle states. Only the car's
// owner may call it. Confirming marks the car booked, cancelling releases
// it; the renter is notified best-effort.
func (s *BookingService) ChangeStatus(ctx context.Context, ownerID, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	if bookingID == "" {
		return nil, apperror.Validation("bookingId is required")
	}
	if !models.ValidStatus(status) {
		return nil, apperror.Validation("invalid status %q", status)
	}

	booking, err := s.store.GetBookingByID(bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking.Owner != ownerID {
		return nil, apperror.Unauthorized("you are not authorized to access this resource")
	}
	if booking.Status == models.StatusCancelled && status != models.StatusCancelled {
		return nil, apperror.Validation("cancelled bookings cannot change status")
	}

	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateBookingStatus(booking); err != nil {
		return nil, apperror.Internal("failed to update booking status", err)
	}

	switch status {
	case models.StatusConfirmed:
		if err := s.store.SetCarBooked(booking.Car, true); err != nil {
			return nil, apperror.Internal("failed to mark car as booked", err)
		}
	case models.StatusCancelled:
		if err := s.store.SetCarBooked(booking.Car, false); err != nil {
			return nil, apperror.Internal("failed to release car", err)
		}
	}

	s.metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	s.logger.Info("Booking status updated",
		logger.Action("change_status"),
		logger.Booking(booking.ID),
		logger.Owner(ownerID),
		logger.Status(string(status)))

	s.notifyRenter(booking)
	return booking, nil
}

// CancelOwn lets the renter cancel their own booking. Cancelling an
// already-cancelled booking succeeds without touching anything.
func (s *BookingService) CancelOwn(ctx context.Context, renterID, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, apperror.Validation("bookingId is required")
	}

	booking, err := s.store.GetBookingByID(bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking.User != renterID {
		return nil, apperror.Unauthorized("not authorized to cancel this booking")
	}
	if booking.Status == models.StatusCancelled {
		return booking, nil
	}

	booking.Status = models.StatusCancelled
	booking.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateBookingStatus(booking); err != nil {
		return nil, apperror.Internal("failed to cancel booking", err)
	}
	if err := s.store.SetCarBooked(booking.Car, false); err != nil {
		return nil, apperror.Internal("failed to release car", err)
	}

	s.metrics.StatusChanges.WithLabelValues(string(models.StatusCancelled)).Inc()
	s.logger.Info("Booking cancelled by renter",
		logger.Action("cancel"),
		logger.Booking(booking.ID),
		logger.User(renterID))
	return booking, nil
}

// UpdateOwnDates moves the renter's booking to a new date range,
// re-checking availability (ignoring the booking itself) and recomputing
// the price. Status and the car's IsBooked flag are untouched.
func (s *BookingService) UpdateOwnDates(ctx context.Context, renterID, bookingID string, pickup, returnDate time.Time) (*models.Booking, error) {
	if bookingID == "" {
		return nil, apperror.Validation("bookingId, pickupDate and returnDate are required")
	}

	booking, err := s.store.GetBookingByID(bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("booking not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load booking", err)
	}
	if booking.User != renterID {
		return nil, apperror.Unauthorized("not authorized to update this booking")
	}
	if booking.Status == models.StatusCancelled {
		return nil, apperror.Validation("cancelled bookings cannot be updated")
	}

	rng, err := models.NewDateRange(pickup, returnDate, s.loc)
	if err != nil {
		return nil, apperror.Validation("invalid date range: %v", err)
	}
	if err := s.checkAvailability(booking.Car, rng, booking.ID); err != nil {
		return nil, err
	}

	car, err := s.store.GetCarByID(booking.Car)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("car not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load car", err)
	}
	price, err := RentalPrice(car.PricePerDay, rng)
	if err != nil {
		return nil, err
	}

	booking.PickupDate = rng.Start
	booking.ReturnDate = rng.End
	booking.Price = price
	booking.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateBookingDates(booking, rng.DayKeys()); err != nil {
		if errors.Is(err, store.ErrDayConflict) {
			s.metrics.BookingConflicts.Inc()
			return nil, apperror.Conflict("car is not available for the selected dates")
		}
		return nil, apperror.Internal("failed to update booking dates", err)
	}

	s.logger.Info("Booking dates updated",
		logger.Action("update_dates"),
		logger.Booking(booking.ID),
		logger.User(renterID),
		logger.Days(rng.Days()),
		logger.Price(price))
	return booking, nil
}

// ListForRenter returns the renter's bookings, newest first.
func (s *BookingService) ListForRenter(ctx context.Context, renterID string) ([]*models.Booking, error) {
	bookings, err := s.store.ListBookingsByRenter(renterID)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

// ListForOwner returns bookings on the owner's cars, newest first.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID string) ([]*models.Booking, error) {
	bookings, err := s.store.ListBookingsByOwner(ownerID)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

// checkAvailability is the single overlap predicate behind search,
// create, and date updates. A store failure is never reported as
// "available".
func (s *BookingService) checkAvailability(carID string, rng models.DateRange, excludeBookingID string) error {
	count, err := s.store.CountOverlapping(carID, rng.StartKey(), rng.EndKey(), excludeBookingID)
	if err != nil {
		return apperror.Internal("failed to check availability", err)
	}
	if count > 0 {
		s.metrics.BookingConflicts.Inc()
		return apperror.Conflict("car is not available for the selected dates")
	}
	return nil
}

// notifyRenter emails the renter about a status change. Failures are
// logged and swallowed; a sent mail never decides the request outcome.
func (s *BookingService) notifyRenter(booking *models.Booking) {
	if s.mailer == nil {
		return
	}

	renter, err := s.store.GetUserByID(booking.User)
	if err != nil || renter.Email == "" {
		s.logger.Warn("Skipping booking notification, renter email unavailable",
			logger.Booking(booking.ID), logger.Error(err))
		return
	}
	carName := "Your car booking"
	if car, err := s.store.GetCarByID(booking.Car); err == nil {
		carName = car.DisplayName()
	}

	n := StatusNotification{
		ToEmail:    renter.Email,
		Status:     booking.Status,
		CarName:    carName,
		PickupDate: booking.PickupDate.Format("Monday, January 2, 2006"),
		ReturnDate: booking.ReturnDate.Format("Monday, January 2, 2006"),
		Price:      booking.Price,
	}
	if err := s.mailer.SendBookingStatusEmail(n); err != nil {
		s.metrics.EmailFailures.Inc()
		s.logger.Error("Failed to send booking status email",
			logger.Booking(booking.ID),
			logger.Email(renter.Email),
			logger.Error(err))
		return
	}
	s.metrics.EmailsSent.Inc()
	s.logger.Info("Booking status email sent",
		logger.Booking(booking.ID),
		logger.Email(renter.Email),
		logger.Status(string(booking.Status)))
}
