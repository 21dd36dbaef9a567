package domain

import (
	"testing"
	"time"
)

func TestRentalReturnValidate(t *testing.T) {
	base := func() RentalReturn {
		return RentalReturn{RentalID: 7, ReturnDate: day("2024-01-06"), LateFee: 5000, TotalFee: 55000}
	}

	tests := []struct {
		name     string
		mutate   func(rr *RentalReturn)
		supplied bool
		message  string
	}{
		{name: "valid supplied", mutate: func(rr *RentalReturn) {}, supplied: true},
		{name: "no rental", mutate: func(rr *RentalReturn) { rr.RentalID = 0 }, message: "Rental ID must be greater than zero."},
		{name: "no date", mutate: func(rr *RentalReturn) { rr.ReturnDate = time.Time{} }, message: "Return date is required."},
		{name: "negative late fee", mutate: func(rr *RentalReturn) { rr.LateFee = -1 }, message: "Late fee cannot be negative."},
		{name: "negative total", mutate: func(rr *RentalReturn) { rr.TotalFee = -1 }, message: "Total fee must be greater than zero."},
		{name: "unpriced is valid", mutate: func(rr *RentalReturn) { rr.LateFee = 0; rr.TotalFee = 0 }},
		{
			name:     "supplied late fee without total",
			mutate:   func(rr *RentalReturn) { rr.TotalFee = 0 },
			supplied: true,
			message:  "Total fee must be greater than zero.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := base()
			tt.mutate(&rr)

			var err error
			if tt.supplied {
				err = rr.ValidateSupplied()
			} else {
				err = rr.Validate()
			}

			if tt.message == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.message {
				t.Fatalf("Expected %q, got %v", tt.message, err)
			}
		})
	}
}

func TestRentalReturnFeesSupplied(t *testing.T) {
	if (&RentalReturn{}).FeesSupplied() {
		t.Error("Zero fees must count as unpriced")
	}
	if !(&RentalReturn{LateFee: 1}).FeesSupplied() {
		t.Error("A late fee alone counts as supplied")
	}
	if !(&RentalReturn{TotalFee: 1}).FeesSupplied() {
		t.Error("A total fee counts as supplied")
	}
}
