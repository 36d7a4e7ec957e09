package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/ashu917/Car-rental/internal/apperror"
	"github.com/ashu917/Car-rental/internal/models"
	"github.com/ashu917/Car-rental/internal/store"
	"github.com/google/uuid"
)

// Car listing endpoints are deliberately thin: the booking engine is the
// interesting part, listings are plain persistence.

type addCarRequest struct {
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	Category        string  `json:"category"`
	SeatingCapacity int     `json:"seating_capacity"`
	FuelType        string  `json:"fuel_type"`
	Transmission    string  `json:"transmission"`
	PricePerDay     float64 `json:"pricePerDay"`
	Location        string  `json:"location"`
	Description     string  `json:"description"`
}

func (a *API) addCar(w http.ResponseWriter, r *http.Request) {
	var req addCarRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if req.Brand == "" || req.Model == "" || req.Location == "" {
		a.writeError(w, apperror.Validation("brand, model and location are required"))
		return
	}
	if req.PricePerDay < 0 {
		a.writeError(w, apperror.Validation("pricePerDay must not be negative"))
		return
	}

	now := time.Now().UTC()
	car := &models.Car{
		ID:              uuid.New().String(),
		Owner:           currentUser(r).ID,
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		Category:        req.Category,
		SeatingCapacity: req.SeatingCapacity,
		FuelType:        req.FuelType,
		Transmission:    req.Transmission,
		PricePerDay:     req.PricePerDay,
		Location:        req.Location,
		Description:     req.Description,
		IsAvailable:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := a.store.SaveCar(car); err != nil {
		a.writeError(w, apperror.Internal("failed to save car", err))
		return
	}
	a.writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Car added successfully",
		"car":     car,
	})
}

func (a *API) ownerCars(w http.ResponseWriter, r *http.Request) {
	cars, err := a.store.ListCarsByOwner(currentUser(r).ID)
	if err != nil {
		a.writeError(w, apperror.Internal("failed to list cars", err))
		return
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"cars":    cars,
	})
}

type toggleCarRequest struct {
	CarID string `json:"carId"`
}

// toggleCar flips the owner-controlled IsAvailable listing flag. It never
// touches IsBooked; that belongs to the booking service alone.
func (a *API) toggleCar(w http.ResponseWriter, r *http.Request) {
	var req toggleCarRequest
	if err := a.decode(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if req.CarID == "" {
		a.writeError(w, apperror.Validation("carId is required"))
		return
	}

	car, err := a.store.GetCarByID(req.CarID)
	if errors.Is(err, store.ErrNotFound) {
		a.writeError(w, apperror.NotFound("car not found"))
		return
	}
	if err != nil {
		a.writeError(w, apperror.Internal("failed to load car", err))
		return
	}
	if car.Owner != currentUser(r).ID {
		a.writeError(w, apperror.Unauthorized("you are not authorized to access this resource"))
		return
	}

	car.IsAvailable = !car.IsAvailable
	car.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveCar(car); err != nil {
		a.writeError(w, apperror.Internal("failed to save car", err))
		return
	}
	a.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Car availability updated",
		"car":     car,
	})
}
