package models

import "time"

// Recipe represents a single recipe from the catalog.
// Ingredients is empty until the relation linker runs; after linking it
// holds ingredient entity ids in relation-file order, duplicates kept.
type Recipe struct {
	RecipeID    string   `json:"recipe_id" db:"recipe_id"`
	Title       string   `json:"title,omitempty" db:"title"`
	Source      string   `json:"source,omitempty" db:"source"`
	Cuisine     string   `json:"cuisine,omitempty" db:"cuisine"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// RecipeRow is the persisted form of a Recipe.
type RecipeRow struct {
	RecipeID    string     `json:"recipe_id" db:"recipe_id"`
	Title       string     `json:"title" db:"title"`
	Source      string     `json:"source" db:"source"`
	Cuisine     string     `json:"cuisine" db:"cuisine"`
	Fingerprint string     `json:"fingerprint" db:"fingerprint"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// RecipeListResponse is the response for listing recipes
type RecipeListResponse struct {
	Items      []RecipeRow `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// RecipeDetail is a recipe together with its linked ingredient ids.
type RecipeDetail struct {
	RecipeRow
	Ingredients []string `json:"ingredients"`
}
