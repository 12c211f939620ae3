package repository

import (
	"context"
	"errors"
	"time"

	"github.com/plateful/plateful/internal/domain/entity"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user with the given email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines user-related persistence operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// CreateWithOTP inserts the user and their first verification code in
	// one transaction; neither row exists if either insert fails.
	CreateWithOTP(ctx context.Context, u *entity.User, otp *entity.OTPCode) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetVerified(ctx context.Context, id string, at time.Time) error
	Update(ctx context.Context, u *entity.User) error
}
