package models

import "time"

// Car is a rentable vehicle. IsAvailable is the owner-controlled listing
// toggle; IsBooked is maintained by the booking service and reflects a
// confirmed booking holding the car.
type Car struct {
	ID              string    `json:"_id"`
	Owner           string    `json:"owner"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Category        string    `json:"category"`
	SeatingCapacity int       `json:"seating_capacity"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	PricePerDay     float64   `json:"pricePerDay"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	IsAvailable     bool      `json:"isAvailable"`
	IsBooked        bool      `json:"isBooked"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DisplayName is the human-readable name used in notifications.
func (c *Car) DisplayName() string {
	return c.Brand + " " + c.Model
}
