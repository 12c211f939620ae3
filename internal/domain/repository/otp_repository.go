package repository

import (
	"context"
	"time"

	"github.com/plateful/plateful/internal/domain/entity"
)

// OTPRepository defines persistence for one-time passcodes.
type OTPRepository interface {
	Create(ctx context.Context, o *entity.OTPCode) error
	// GetLatestValid returns the most recently created code for the user
	// that matches exactly and has not expired, or ErrNotFound.
	GetLatestValid(ctx context.Context, userID, code string, now time.Time) (*entity.OTPCode, error)
	Delete(ctx context.Context, id string) error
}
