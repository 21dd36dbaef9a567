package domain

import (
	"testing"
	"time"
)

func TestLateDays(t *testing.T) {
	end := day("2024-01-05")

	tests := []struct {
		name     string
		returned time.Time
		want     int64
	}{
		{"early", day("2024-01-03"), 0},
		{"on time", day("2024-01-05"), 0},
		{"same day late evening", day("2024-01-05").Add(23 * time.Hour), 0},
		{"one day late", day("2024-01-06"), 1},
		{"one day late morning", day("2024-01-06").Add(2 * time.Hour), 1},
		{"across month", day("2024-02-04"), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LateDays(end, tt.returned); got != tt.want {
				t.Errorf("LateDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuoteReturn(t *testing.T) {
	rental := &Rental{ID: 3, EndDate: day("2024-01-05"), TotalFee: 50000}
	car := &Car{LateRatePerDay: 2500}

	q := QuoteReturn(rental, car, day("2024-01-07"))
	if q.LateDays != 2 {
		t.Errorf("Expected 2 late days, got %d", q.LateDays)
	}
	if q.LateFee != 5000 {
		t.Errorf("Expected late fee 50.00, got %s", q.LateFee)
	}
	if q.TotalFee != 55000 {
		t.Errorf("Expected total 550.00, got %s", q.TotalFee)
	}
	if q.BaseFee != rental.TotalFee || q.RentalID != 3 {
		t.Error("Expected quote to echo the rental's base fee and id")
	}

	onTime := QuoteReturn(rental, car, day("2024-01-05"))
	if onTime.LateFee != 0 || onTime.TotalFee != rental.TotalFee {
		t.Errorf("On-time return must not be charged a late fee, got %+v", onTime)
	}
}
