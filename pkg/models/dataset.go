package models

import "time"

// DatasetFile points the loader at one source file.
type DatasetFile struct {
	Path   string `json:"path" validate:"required"`
	Format string `json:"format" validate:"required,oneof=json csv"`
}

// LoadDatasetRequest names the four catalog source files. Any file left
// empty falls back to the configured default path.
type LoadDatasetRequest struct {
	Recipes             *DatasetFile `json:"recipes,omitempty"`
	Ingredients         *DatasetFile `json:"ingredients,omitempty"`
	CompoundIngredients *DatasetFile `json:"compound_ingredients,omitempty"`
	Relations           *DatasetFile `json:"relations,omitempty"`
}

// DatasetSummary reports what a dataset load produced.
type DatasetSummary struct {
	RecipeCount             int       `json:"recipe_count"`
	IngredientCount         int       `json:"ingredient_count"`
	CompoundIngredientCount int       `json:"compound_ingredient_count"`
	MergedIngredientCount   int       `json:"merged_ingredient_count"`
	RelationCount           int       `json:"relation_count"`
	LinkedRecipeCount       int       `json:"linked_recipe_count"`
	LoadedAt                time.Time `json:"loaded_at"`
}
