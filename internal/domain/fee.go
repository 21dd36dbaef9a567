package domain

import "time"

// FeeQuote is the priced outcome of returning a rental on a given day.
type FeeQuote struct {
	RentalID   int64     `json:"rental_id"`
	ReturnDate time.Time `json:"return_date"`
	LateDays   int64     `json:"late_days"`
	BaseFee    Money     `json:"base_fee"`
	LateFee    Money     `json:"late_fee"`
	TotalFee   Money     `json:"total_fee"`
}

// LateDays counts whole calendar days between the agreed end date and the
// actual return date. Early and on-time returns yield zero.
func LateDays(endDate, returnDate time.Time) int64 {
	end := truncateToDay(endDate)
	ret := truncateToDay(returnDate)
	if !ret.After(end) {
		return 0
	}
	return int64(ret.Sub(end).Hours() / 24)
}

// QuoteReturn prices a return: lateFee = lateDays * lateRatePerDay and
// totalFee = rental.TotalFee + lateFee.
func QuoteReturn(rental *Rental, car *Car, returnDate time.Time) FeeQuote {
	days := LateDays(rental.EndDate, returnDate)
	lateFee := car.LateRatePerDay.Mul(days)
	return FeeQuote{
		RentalID:   rental.ID,
		ReturnDate: returnDate,
		LateDays:   days,
		BaseFee:    rental.TotalFee,
		LateFee:    lateFee,
		TotalFee:   rental.TotalFee + lateFee,
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
