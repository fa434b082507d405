package models

import (
	"time"
)

// Ingredient represents an ingredient entity. EntityID is assumed
// globally unique across the ingredient and compound-ingredient sources;
// the merge package repairs violations of that assumption.
type Ingredient struct {
	EntityID     string   `json:"entity_id" db:"entity_id"`
	OriginalName string   `json:"original_name,omitempty" db:"original_name"`
	AliasedName  string   `json:"aliased_name,omitempty" db:"aliased_name"`
	Category     string   `json:"category,omitempty" db:"category"`
	Synonyms     []string `json:"synonyms,omitempty"`
}

// CompoundIngredient is an ingredient composed of other ingredients
// (e.g. a sauce). Constituents reference Ingredient entities by id; the
// relation is non-owning.
type CompoundIngredient struct {
	Ingredient
	Constituents []string `json:"constituents,omitempty"`
}

// IngredientRow is the persisted form of an Ingredient. Synonyms and
// constituents are stored as JSONB.
type IngredientRow struct {
	EntityID     string     `json:"entity_id"`
	OriginalName string     `json:"original_name"`
	AliasedName  string     `json:"aliased_name"`
	Category     string     `json:"category"`
	Synonyms     []string   `json:"synonyms"`
	Constituents []string   `json:"constituents"`
	IsCompound   bool       `json:"is_compound"`
	Fingerprint  string     `json:"fingerprint"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// IngredientListResponse is the response for listing ingredients
type IngredientListResponse struct {
	Items      []IngredientRow `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}
