package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/plateful/plateful/config"
	"github.com/plateful/plateful/internal/domain/entity"
	"github.com/plateful/plateful/internal/domain/repository"
	pginfra "github.com/plateful/plateful/internal/infrastructure/postgres"
	"github.com/plateful/plateful/pkg/helpers"
)

// seed creates a verified demo account and a few sample recipes for
// local development. Safe to run more than once.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	recipes := pginfra.NewRecipeRepository(pool)

	hash, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}

	now := time.Now().UTC()
	demo := &entity.User{
		Name:            "Demo Cook",
		Email:           "demo@plateful.dev",
		Password:        hash,
		Location:        "Portland, OR",
		EmailVerifiedAt: &now,
	}
	if err := users.Create(ctx, demo); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Info("demo user already exists, reusing")
			existing, err := users.GetByEmail(ctx, demo.Email)
			if err != nil {
				log.Fatalf("failed to load demo user: %v", err)
			}
			demo = existing
		} else {
			log.Fatalf("failed to create demo user: %v", err)
		}
	} else {
		logger.WithField("email", demo.Email).Info("created demo user")
	}

	existing, err := recipes.List(ctx, 1, 0)
	if err != nil {
		log.Fatalf("failed to check recipes: %v", err)
	}
	if len(existing) > 0 {
		logger.Info("recipes already seeded, nothing to do")
		return
	}

	samples := []*entity.Recipe{
		{
			Title:       "Weeknight Chicken Adobo",
			Description: "Filipino braised chicken in soy, vinegar, and garlic. Tangy, savory, and better the next day.",
			Price:       12.50,
			Location:    "Portland, OR",
			Contact:     demo.Email,
			Ingredients: []entity.Ingredient{
				{Quantity: "2lb", Item: "chicken thighs"},
				{Quantity: "1/2cup", Item: "soy sauce"},
				{Quantity: "1/2cup", Item: "cane vinegar"},
				{Quantity: "8", Item: "garlic cloves"},
				{Quantity: "3", Item: "bay leaves"},
			},
			Instructions: []string{
				"Marinate chicken in soy sauce and garlic for 30 minutes.",
				"Sear chicken skin side down until browned.",
				"Add vinegar, bay leaves, and peppercorns; simmer 35 minutes.",
				"Reduce sauce and serve over rice.",
			},
			PrepTime: 15,
			CookTime: 45,
			Servings: 4,
			AuthorID: demo.ID,
		},
		{
			Title:       "Sunday Shakshuka",
			Description: "Eggs poached in a spiced tomato and pepper sauce. Bring bread.",
			Price:       9.00,
			Location:    "Portland, OR",
			Contact:     demo.Email,
			Ingredients: []entity.Ingredient{
				{Quantity: "6", Item: "eggs"},
				{Quantity: "28oz", Item: "crushed tomatoes"},
				{Quantity: "2", Item: "red bell peppers"},
				{Quantity: "1tbsp", Item: "smoked paprika"},
			},
			Instructions: []string{
				"Soften onions and peppers in olive oil.",
				"Add spices and tomatoes; simmer 15 minutes.",
				"Crack eggs into wells and cover until just set.",
			},
			PrepTime: 10,
			CookTime: 25,
			Servings: 3,
			AuthorID: demo.ID,
		},
		{
			Title:       "Miso Butter Ramen",
			Description: "Quick weeknight ramen with a rich miso butter broth and soft eggs.",
			Price:       11.00,
			Location:    "Portland, OR",
			Contact:     demo.Email,
			Ingredients: []entity.Ingredient{
				{Quantity: "2", Item: "portions fresh ramen noodles"},
				{Quantity: "3tbsp", Item: "white miso"},
				{Quantity: "2tbsp", Item: "butter"},
				{Quantity: "4cups", Item: "chicken stock"},
			},
			Instructions: []string{
				"Whisk miso into warm stock.",
				"Cook noodles separately and drain.",
				"Mount broth with butter, assemble bowls, top with scallions.",
			},
			PrepTime: 10,
			CookTime: 15,
			Servings: 2,
			AuthorID: demo.ID,
		},
	}

	for _, r := range samples {
		if err := recipes.Create(ctx, r); err != nil {
			log.Fatalf("failed to seed recipe %q: %v", r.Title, err)
		}
		logger.WithField("title", r.Title).Info("seeded recipe")
	}
	logger.Info("seed complete")
}
