package models

import "time"

// SimilarRecipes maps a recipe title to the titles of recipes whose
// ingredient sets cleared the similarity threshold, valued by the size
// of the shared-ingredient set. Entries are symmetric: if a appears
// under b then b appears under a with the same count.
type SimilarRecipes map[string]map[string]int

// SimilarRecipeRow is a persisted similar pair. Pairs are stored once
// per unordered pair; the API materializes both directions.
type SimilarRecipeRow struct {
	ID          string    `json:"id" db:"id"`
	RecipeA     string    `json:"recipe_a" db:"recipe_a"`
	RecipeB     string    `json:"recipe_b" db:"recipe_b"`
	TitleA      string    `json:"title_a" db:"title_a"`
	TitleB      string    `json:"title_b" db:"title_b"`
	Score       float64   `json:"score" db:"score"`
	SharedCount int       `json:"shared_count" db:"shared_count"`
	Threshold   float64   `json:"threshold" db:"threshold"`
	ComputedAt  time.Time `json:"computed_at" db:"computed_at"`
}

// ComputeSimilarityRequest is the request to run a similarity pass.
type ComputeSimilarityRequest struct {
	Threshold float64 `json:"threshold" validate:"omitempty,gt=0,lte=1"`
}

// ComputeSimilarityResponse summarizes a similarity pass.
type ComputeSimilarityResponse struct {
	RecipeCount int     `json:"recipe_count"`
	PairCount   int     `json:"pair_count"`
	Threshold   float64 `json:"threshold"`
}
