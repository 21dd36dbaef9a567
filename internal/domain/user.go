package domain

import (
	"regexp"
	"strings"
)

// User types.
const (
	UserTypeAdmin    = "admin"
	UserTypeCustomer = "customer"
)

// Validation limits for user fields.
const (
	MinPasswordLength       = 8
	MinDrivingLicenseLength = 15
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// User is a staff member or customer of the rental business.
type User struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Address              *string `json:"address,omitempty"`
	PhoneNumber          *string `json:"phone_number,omitempty"`
	DrivingLicenseNumber *string `json:"driving_license_number,omitempty"`
	Password             string  `json:"-"` // Plaintext, only present on the way in
	HashedPassword       string  `json:"-"` // Never exposed
	UserType             string  `json:"user_type"`
	Audit
}

// ValidateCreate validates a new user; a password is mandatory.
func (u *User) ValidateCreate() error {
	return u.validate(true)
}

// ValidateUpdate validates a full-record update; the password is optional and
// only checked when a new one is supplied.
func (u *User) ValidateUpdate() error {
	return u.validate(false)
}

func (u *User) validate(requirePassword bool) error {
	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "Name is required.")
	}
	if strings.TrimSpace(u.Email) == "" || !emailPattern.MatchString(u.Email) {
		return NewValidationError("email", "Valid email is required.")
	}
	if requirePassword || u.Password != "" {
		if strings.TrimSpace(u.Password) == "" || len(u.Password) < MinPasswordLength {
			return NewValidationError("password", "Password must be at least 8 characters long.")
		}
	}
	if !IsValidUserType(u.UserType) {
		return NewValidationError("user_type", "UserType must be either 'admin' or 'customer'.")
	}
	if present(u.PhoneNumber) && !phonePattern.MatchString(*u.PhoneNumber) {
		return NewValidationError("phone_number", "PhoneNumber must be a valid phone number.")
	}
	if present(u.DrivingLicenseNumber) && len(*u.DrivingLicenseNumber) < MinDrivingLicenseLength {
		return NewValidationError("driving_license_number",
			"DrivingLicenseNumber must be at least 15 characters long.")
	}
	return nil
}

// Normalize lower-cases the user type and drops blank optional fields.
func (u *User) Normalize() {
	u.UserType = strings.ToLower(strings.TrimSpace(u.UserType))
	u.Address = blankToNil(u.Address)
	u.PhoneNumber = blankToNil(u.PhoneNumber)
	u.DrivingLicenseNumber = blankToNil(u.DrivingLicenseNumber)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.UserType, UserTypeAdmin)
}

// Sanitized returns a copy with both password fields cleared.
func (u *User) Sanitized() *User {
	c := *u
	c.Password = ""
	c.HashedPassword = ""
	return &c
}

// IsValidUserType reports whether t names a known user type, ignoring case.
func IsValidUserType(t string) bool {
	t = strings.TrimSpace(t)
	return strings.EqualFold(t, UserTypeAdmin) || strings.EqualFold(t, UserTypeCustomer)
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func blankToNil(s *string) *string {
	if !present(s) {
		return nil
	}
	return s
}
