package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
)

type OTPRepository struct {
	db DB
}

func NewOTPRepository(db DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(ctx context.Context, o *entity.OTPCode) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO otp_codes (user_id, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, o.UserID, o.Code, o.ExpiresAt)

	return row.Scan(&o.ID, &o.CreatedAt)
}

// GetLatestValid resolves duplicates from sign-up retries: when several
// live codes match, the newest wins.
func (r *OTPRepository) GetLatestValid(ctx context.Context, userID, code string, now time.Time) (*entity.OTPCode, error) {
	o := &entity.OTPCode{}
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, code, expires_at, created_at
		FROM otp_codes
		WHERE user_id = $1 AND code = $2 AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, code, now)

	if err := row.Scan(&o.ID, &o.UserID, &o.Code, &o.ExpiresAt, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.OTPRepository = (*OTPRepository)(nil)
