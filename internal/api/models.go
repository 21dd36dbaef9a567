package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
)

// Date is a calendar date in a request body. It accepts "2006-01-02" or a
// full RFC 3339 timestamp and marshals as "2006-01-02".
type Date struct {
	time.Time
}

// ParseDate parses a date-only or RFC 3339 string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the date zero.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResponse is returned by a successful login or token refresh.
type LoginResponse struct {
	User *domain.User `json:"user,omitempty"`

	// AccessToken authorizes API calls until ExpiresAt.
	AccessToken string `json:"access_token"`

	// RefreshToken obtains a new token pair.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 expiry of the access token.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CarRequest is the body of car create and update calls.
type CarRequest struct {
	ID               int64        `json:"id"`
	Brand            string       `json:"brand"               validate:"max=100"`
	Model            string       `json:"model"               validate:"max=100"`
	Year             int          `json:"year"`
	PlateNumber      string       `json:"plate_number"        validate:"max=20"`
	RentalRatePerDay domain.Money `json:"rental_rate_per_day"`
	LateRatePerDay   domain.Money `json:"late_rate_per_day"`
	Status           string       `json:"status"              validate:"max=20"`
}

func (r *CarRequest) toDomain() *domain.Car {
	return &domain.Car{
		ID:               r.ID,
		Brand:            strings.TrimSpace(r.Brand),
		Model:            strings.TrimSpace(r.Model),
		Year:             r.Year,
		PlateNumber:      strings.TrimSpace(r.PlateNumber),
		RentalRatePerDay: r.RentalRatePerDay,
		LateRatePerDay:   r.LateRatePerDay,
		Status:           r.Status,
	}
}

// UserRequest is the body of registration and profile update calls.
type UserRequest struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"                   validate:"max=100"`
	Email                string  `json:"email"                  validate:"max=255"`
	Address              *string `json:"address"`
	PhoneNumber          *string `json:"phone_number"           validate:"omitempty,max=20"`
	DrivingLicenseNumber *string `json:"driving_license_number" validate:"omitempty,max=50"`
	Password             string  `json:"password"               validate:"max=128"`
	UserType             string  `json:"user_type"              validate:"max=20"`
}

func (r *UserRequest) toDomain() *domain.User {
	return &domain.User{
		ID:                   r.ID,
		Name:                 strings.TrimSpace(r.Name),
		Email:                strings.TrimSpace(r.Email),
		Address:              r.Address,
		PhoneNumber:          trimmed(r.PhoneNumber),
		DrivingLicenseNumber: trimmed(r.DrivingLicenseNumber),
		Password:             r.Password,
		UserType:             r.UserType,
	}
}

// RentalRequest is the body of rental create and update calls.
type RentalRequest struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	CarID     int64        `json:"car_id"`
	StartDate Date         `json:"start_date"`
	EndDate   Date         `json:"end_date"`
	TotalFee  domain.Money `json:"total_fee"`
}

func (r *RentalRequest) toDomain() *domain.Rental {
	return &domain.Rental{
		ID:        r.ID,
		UserID:    r.UserID,
		CarID:     r.CarID,
		StartDate: r.StartDate.Time,
		EndDate:   r.EndDate.Time,
		TotalFee:  r.TotalFee,
	}
}

// RentalReturnRequest is the body of rental return create and update calls.
// Leaving both fees at zero lets the server price the return.
type RentalReturnRequest struct {
	ID         int64        `json:"id"`
	RentalID   int64        `json:"rental_id"`
	ReturnDate Date         `json:"return_date"`
	LateFee    domain.Money `json:"late_fee"`
	TotalFee   domain.Money `json:"total_fee"`
}

func (r *RentalReturnRequest) toDomain() *domain.RentalReturn {
	return &domain.RentalReturn{
		ID:         r.ID,
		RentalID:   r.RentalID,
		ReturnDate: r.ReturnDate.Time,
		LateFee:    r.LateFee,
		TotalFee:   r.TotalFee,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
