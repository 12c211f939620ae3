package repository

import (
	"context"

	"github.com/plateful/plateful/internal/domain/entity"
)

// RecipeRepository defines recipe persistence operations.
type RecipeRepository interface {
	Create(ctx context.Context, r *entity.Recipe) error
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Recipe, error)
}
