package entity

import "time"

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Quantity string `json:"quantity"`
	Item     string `json:"item"`
}

// Recipe is a home-cooked dish offered on the marketplace.
type Recipe struct {
	ID           string
	Title        string
	Description  string
	Price        float64
	Location     string
	Contact      string
	Ingredients  []Ingredient
	Instructions []string
	PrepTime     int // minutes
	CookTime     int // minutes
	Servings     int
	ImageURL     string
	AuthorID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
