package service

import (
	"context"
	"time"

	"github.com/ashu917/Car-rental/internal/apperror"
	"github.com/ashu917/Car-rental/internal/logger"
	"github.com/ashu917/Car-rental/internal/metrics"
	"github.com/ashu917/Car-rental/internal/models"
	"github.com/ashu917/Car-rental/internal/store"
)

// FleetService answers "which cars can I rent here on these dates".
type FleetService struct {
	logger  *logger.Logger
	store   store.Store
	metrics *metrics.Metrics
	loc     *time.Location
}

func NewFleetService(log *logger.Logger, st store.Store, m *metrics.Metrics, loc *time.Location) *FleetService {
	return &FleetService{logger: log, store: st, metrics: m, loc: loc}
}

// Search lists cars at the location that are listed as available and have
// no overlapping non-cancelled booking in the range. The overlap check
// runs as one batched query over all candidates, not one per car.
func (s *FleetService) Search(ctx context.Context, location string, pickup, returnDate time.Time) ([]*models.Car, error) {
	if location == "" {
		return nil, apperror.Validation("location, pickupDate and returnDate are required")
	}
	rng, err := models.NewDateRange(pickup, returnDate, s.loc)
	if err != nil {
		return nil, apperror.Validation("invalid date range: %v", err)
	}

	cars, err := s.store.ListAvailableCarsByLocation(location)
	if err != nil {
		return nil, apperror.Internal("failed to list cars", err)
	}

	ids := make([]string, len(cars))
	for i, car := range cars {
		ids[i] = car.ID
	}
	occupied, err := s.store.OccupiedCars(ids, rng.StartKey(), rng.EndKey())
	if err != nil {
		return nil, apperror.Internal("failed to check availability", err)
	}

	available := make([]*models.Car, 0, len(cars))
	for _, car := range cars {
		if occupied[car.ID] {
			continue
		}
		car.IsAvailable = true
		available = append(available, car)
	}

	s.metrics.SearchRequests.Inc()
	s.logger.Info("Availability search",
		logger.Action("search"),
		logger.Location(location),
		logger.Days(rng.Days()),
		logger.Count(len(available)))
	return available, nil
}
