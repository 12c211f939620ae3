package entity

import "time"

// OTPCode is a one-time passcode bound to a user and an expiry.
// A user may have several live codes at once (one per sign-up retry);
// the most recently created non-expired match is authoritative and is
// deleted on consumption so it cannot be replayed.
type OTPCode struct {
	ID        string
	UserID    string
	Code      string // 6-digit numeric string
	ExpiresAt time.Time
	CreatedAt time.Time
}
