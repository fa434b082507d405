package loader

import (
	"fmt"

	"github.com/flavorgraph/basil/pkg/models"
)

// Fixed field-rename tables for the four catalog sources. Source keys
// match the column headers of the reference dataset files.

var RecipeFields = []FieldMap{
	{Target: "recipe_id", Source: "Recipe ID"},
	{Target: "title", Source: "Title"},
	{Target: "source", Source: "Source"},
	{Target: "cuisine", Source: "Cuisine"},
}

var IngredientFields = []FieldMap{
	{Target: "entity_id", Source: "Entity ID"},
	{Target: "category", Source: "Category"},
	{Target: "synonyms", Source: "Ingredient Synonyms"},
	{Target: "aliased_name", Source: "Aliased Ingredient Name"},
}

var CompoundIngredientFields = []FieldMap{
	{Target: "entity_id", Source: "entity_id"},
	{Target: "category", Source: "Category"},
	{Target: "synonyms", Source: "Compound Ingredient Synonyms"},
	{Target: "aliased_name", Source: "Compound Ingredient Name"},
	// "Contituent" is how the column is spelled in the source data.
	{Target: "constituents", Source: "Contituent Ingredients"},
}

var RelationFields = []FieldMap{
	{Target: "recipe_id", Source: "Recipe ID"},
	{Target: "entity_id", Source: "Entity ID"},
}

// Target-field schemas the mappings must stay in sync with.
var (
	recipeTargets = map[string]bool{
		"recipe_id": true, "title": true, "source": true, "cuisine": true,
	}
	ingredientTargets = map[string]bool{
		"entity_id": true, "original_name": true, "aliased_name": true,
		"category": true, "synonyms": true,
	}
	compoundIngredientTargets = map[string]bool{
		"entity_id": true, "original_name": true, "aliased_name": true,
		"category": true, "synonyms": true, "constituents": true,
	}
	relationTargets = map[string]bool{
		"recipe_id": true, "entity_id": true,
	}
)

// ValidateMappings checks every declared field mapping against its entity
// schema: targets must be known fields, and targets and sources must be
// unique within a mapping. Called once at startup; a failure here is a
// programming error, not a data error.
func ValidateMappings() error {
	checks := []struct {
		name    string
		mapping []FieldMap
		targets map[string]bool
	}{
		{"recipe", RecipeFields, recipeTargets},
		{"ingredient", IngredientFields, ingredientTargets},
		{"compound_ingredient", CompoundIngredientFields, compoundIngredientTargets},
		{"relation", RelationFields, relationTargets},
	}

	for _, check := range checks {
		if err := validateMapping(check.name, check.mapping, check.targets); err != nil {
			return err
		}
	}
	return nil
}

func validateMapping(name string, mapping []FieldMap, targets map[string]bool) error {
	seenTargets := make(map[string]bool, len(mapping))
	seenSources := make(map[string]bool, len(mapping))

	for _, fm := range mapping {
		if fm.Target == "" || fm.Source == "" {
			return fmt.Errorf("%s mapping: empty target or source in %+v", name, fm)
		}
		if !targets[fm.Target] {
			return fmt.Errorf("%s mapping: unknown target field %q", name, fm.Target)
		}
		if seenTargets[fm.Target] {
			return fmt.Errorf("%s mapping: duplicate target field %q", name, fm.Target)
		}
		if seenSources[fm.Source] {
			return fmt.Errorf("%s mapping: duplicate source key %q", name, fm.Source)
		}
		seenTargets[fm.Target] = true
		seenSources[fm.Source] = true
	}
	return nil
}

// Typed constructors. These replace dynamic field-dict instantiation: a
// record produced with the matching mapping above converts to its entity
// without any string-keyed reflection.

func RecipeFromRecord(rec Record) models.Recipe {
	return models.Recipe{
		RecipeID: rec.String("recipe_id"),
		Title:    rec.String("title"),
		Source:   rec.String("source"),
		Cuisine:  rec.String("cuisine"),
	}
}

func IngredientFromRecord(rec Record) models.Ingredient {
	return models.Ingredient{
		EntityID:     rec.String("entity_id"),
		OriginalName: rec.String("original_name"),
		AliasedName:  rec.String("aliased_name"),
		Category:     rec.String("category"),
		Synonyms:     rec.StringSlice("synonyms"),
	}
}

func CompoundIngredientFromRecord(rec Record) models.CompoundIngredient {
	return models.CompoundIngredient{
		Ingredient:   IngredientFromRecord(rec),
		Constituents: rec.StringSlice("constituents"),
	}
}

func RelationFromRecord(rec Record) models.Relation {
	return models.Relation{
		RecipeID: rec.String("recipe_id"),
		EntityID: rec.String("entity_id"),
	}
}
