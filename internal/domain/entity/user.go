package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and must never leave the service layer.
// EmailVerifiedAt is nil until the user proves control of their email
// address through the OTP flow; it is set exactly once.
type User struct {
	ID              string
	Name            string
	Email           string
	Password        string
	Image           string
	Location        string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the user completed email verification.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}
