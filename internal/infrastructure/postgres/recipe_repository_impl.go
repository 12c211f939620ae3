package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
)

type RecipeRepository struct {
	db DB
}

func NewRecipeRepository(db DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

const recipeColumns = `id, title, description, price, COALESCE(location, ''), COALESCE(contact, ''),
	ingredients, instructions, prep_time, cook_time, servings, COALESCE(image_url, ''), author_id, created_at, updated_at`

func scanRecipe(row pgx.Row) (*entity.Recipe, error) {
	rec := &entity.Recipe{}
	var ingredients []byte
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Price, &rec.Location, &rec.Contact,
		&ingredients, &rec.Instructions, &rec.PrepTime, &rec.CookTime, &rec.Servings,
		&rec.ImageURL, &rec.AuthorID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &rec.Ingredients); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (r *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe) error {
	ingredients, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO recipes (title, description, price, location, contact, ingredients,
			instructions, prep_time, cook_time, servings, image_url, author_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING id, created_at, updated_at
	`, rec.Title, rec.Description, rec.Price, rec.Location, rec.Contact, ingredients,
		rec.Instructions, rec.PrepTime, rec.CookTime, rec.Servings, rec.ImageURL, rec.AuthorID)

	return row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	return scanRecipe(r.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id))
}

func (r *RecipeRepository) List(ctx context.Context, limit, offset int) ([]*entity.Recipe, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+recipeColumns+` FROM recipes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Recipe, 0, limit)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
