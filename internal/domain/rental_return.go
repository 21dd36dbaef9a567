package domain

import "time"

// RentalReturn closes a rental. The Rental* and user/car fields are
// read-only values joined in from the rental on reads.
type RentalReturn struct {
	ID              int64     `json:"id"`
	RentalID        int64     `json:"rental_id"`
	ReturnDate      time.Time `json:"return_date"`
	LateFee         Money     `json:"late_fee"`
	TotalFee        Money     `json:"total_fee"`
	UserID          int64     `json:"user_id,omitempty"`
	UserName        string    `json:"user_name,omitempty"`
	CarBrand        string    `json:"car_brand,omitempty"`
	CarModel        string    `json:"car_model,omitempty"`
	RentalStartDate time.Time `json:"rental_start_date"`
	RentalEndDate   time.Time `json:"rental_end_date"`
	RentalTotalFee  Money     `json:"rental_total_fee,omitempty"`
	Audit
}

// Validate checks the return fields and reports the first violation.
// A zero TotalFee is accepted here; callers that require a supplied total
// use ValidateSupplied.
func (rr *RentalReturn) Validate() error {
	if rr.RentalID <= 0 {
		return NewValidationError("rental_id", "Rental ID must be greater than zero.")
	}
	if rr.ReturnDate.IsZero() {
		return NewValidationError("return_date", "Return date is required.")
	}
	if rr.LateFee < 0 {
		return NewValidationError("late_fee", "Late fee cannot be negative.")
	}
	if rr.TotalFee < 0 {
		return NewValidationError("total_fee", "Total fee must be greater than zero.")
	}
	return nil
}

// ValidateSupplied runs Validate and additionally requires a positive total.
func (rr *RentalReturn) ValidateSupplied() error {
	if err := rr.Validate(); err != nil {
		return err
	}
	if rr.TotalFee <= 0 {
		return NewValidationError("total_fee", "Total fee must be greater than zero.")
	}
	return nil
}

// FeesSupplied reports whether the caller priced the return. An unpriced
// return has both fees at zero and is priced from the rental and car.
func (rr *RentalReturn) FeesSupplied() bool {
	return rr.TotalFee != 0 || rr.LateFee != 0
}
