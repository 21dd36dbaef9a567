package domain

import "strings"

// Car statuses. Status is persisted as free text; these are the values the
// application itself writes.
const (
	CarStatusAvailable   = "available"
	CarStatusRented      = "rented"
	CarStatusMaintenance = "maintenance"
)

// Car is a vehicle in the rental fleet.
type Car struct {
	ID               int64  `json:"id"`
	Brand            string `json:"brand"`
	Model            string `json:"model"`
	Year             int    `json:"year"`
	PlateNumber      string `json:"plate_number"`
	RentalRatePerDay Money  `json:"rental_rate_per_day"`
	LateRatePerDay   Money  `json:"late_rate_per_day"`
	Status           string `json:"status"`
	Audit
}

// Validate checks the required car fields and reports the first violation.
func (c *Car) Validate() error {
	if strings.TrimSpace(c.Brand) == "" {
		return NewValidationError("brand", "Brand is required.")
	}
	if strings.TrimSpace(c.Model) == "" {
		return NewValidationError("model", "Model is required.")
	}
	if c.Year <= 0 {
		return NewValidationError("year", "Year must be greater than 0.")
	}
	return nil
}

// Normalize fills the status with its default and lower-cases it.
func (c *Car) Normalize() {
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	if c.Status == "" {
		c.Status = CarStatusAvailable
	}
}

// SameIdentity reports whether two cars share brand, model and year, ignoring
// letter case. This is the duplication key for the fleet.
func (c *Car) SameIdentity(other *Car) bool {
	return strings.EqualFold(c.Brand, other.Brand) &&
		strings.EqualFold(c.Model, other.Model) &&
		c.Year == other.Year
}
