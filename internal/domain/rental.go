package domain

import "time"

// Rental books one car for one user over a date range at an agreed fee.
// UserName, CarBrand and CarModel are read-only values joined in on reads.
type Rental struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CarID     int64     `json:"car_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalFee  Money     `json:"total_fee"`
	UserName  string    `json:"user_name,omitempty"`
	CarBrand  string    `json:"car_brand,omitempty"`
	CarModel  string    `json:"car_model,omitempty"`
	Audit
}

// Validate checks the rental fields and reports the first violation.
func (r *Rental) Validate() error {
	if r.UserID <= 0 {
		return NewValidationError("user_id", "User ID must be greater than zero.")
	}
	if r.CarID <= 0 {
		return NewValidationError("car_id", "Car ID must be greater than zero.")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return NewValidationError("start_date", "Start date and end date are required.")
	}
	if r.StartDate.After(r.EndDate) {
		return NewValidationError("start_date", "Start date cannot be later than end date.")
	}
	if r.TotalFee <= 0 {
		return NewValidationError("total_fee", "Total fee must be greater than zero.")
	}
	return nil
}

// Overlaps reports whether the inclusive date ranges of r and other intersect.
func (r *Rental) Overlaps(other *Rental) bool {
	return !r.StartDate.After(other.EndDate) && !other.StartDate.After(r.EndDate)
}
