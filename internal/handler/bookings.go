package handler

import (
	"net/http"

	"github.com/ashu917/Car-rental/internal/models"
)

type availabilityRequest struct {
	Location   string `json:"location"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

func (a *API) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	pickup, err := a.parseDate(req.PickupDate)
	if err != nil {
		a.writeError(w, err)
		return
	}
	ret, err := a.parseDate(req.ReturnDate)
	if err != nil {
		a.writeError(w, err)
		return
	}

	cars, err := a.fleet.Search(r.Context(), req.Location, pickup, ret)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success":       true,
		"availableCars": cars,
	})
}

type createBookingRequest struct {
	Car        string `json:"car"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

func (a *API) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	pickup, err := a.parseDate(req.PickupDate)
	if err != nil {
		a.writeError(w, err)
		return
	}
	ret, err := a.parseDate(req.ReturnDate)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if _, err := a.bookings.Create(r.Context(), currentUser(r).ID, req.Car, pickup, ret); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Booking created successfully",
	})
}

type changeStatusRequest struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

func (a *API) changeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	_, err := a.bookings.ChangeStatus(r.Context(), currentUser(r).ID, req.BookingID, models.BookingStatus(req.Status))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Booking status updated successfully",
	})
}

type cancelBookingRequest struct {
	BookingID string `json:"bookingId"`
}

func (a *API) cancelBooking(w http.ResponseWriter, r *http.Request) {
	var req cancelBookingRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}

	if _, err := a.bookings.CancelOwn(r.Context(), currentUser(r).ID, req.BookingID); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Booking cancelled successfully",
	})
}

type updateDatesRequest struct {
	BookingID  string `json:"bookingId"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

func (a *API) updateBookingDates(w http.ResponseWriter, r *http.Request) {
	var req updateDatesRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	pickup, err := a.parseDate(req.PickupDate)
	if err != nil {
		a.writeError(w, err)
		return
	}
	ret, err := a.parseDate(req.ReturnDate)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if _, err := a.bookings.UpdateOwnDates(r.Context(), currentUser(r).ID, req.BookingID, pickup, ret); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Booking updated successfully",
	})
}

func (a *API) userBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := a.bookings.ListForRenter(r.Context(), currentUser(r).ID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"bookings": bookings,
	})
}

func (a *API) ownerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := a.bookings.ListForOwner(r.Context(), currentUser(r).ID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"bookings": bookings,
	})
}
