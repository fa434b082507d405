package models

import "time"

// Relation is a raw (recipe id, ingredient entity id) pair from the
// relation file. Relations are consumed by the linker and land in the
// recipe_ingredients join table; they are never persisted as objects.
type Relation struct {
	RecipeID string `json:"recipe_id"`
	EntityID string `json:"entity_id"`
}

// RecipeIngredientRow is a persisted join row. Position preserves
// relation-file order so linked ingredient lists round-trip intact,
// duplicates included.
type RecipeIngredientRow struct {
	RecipeID  string    `json:"recipe_id" db:"recipe_id"`
	EntityID  string    `json:"entity_id" db:"entity_id"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
