// Package linker attaches ingredient relations to recipes.
package linker

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// Linker groups recipe-to-ingredient relations and assigns them to the
// matching recipes.
type Linker struct {
	logger ectologger.Logger
}

func New(logger ectologger.Logger) *Linker {
	return &Linker{logger: logger}
}

// Link returns the recipes with their Ingredients field populated from
// the relation list. Relations are grouped per recipe in first-seen
// order; duplicate relations are kept as-is. Relations referencing a
// recipe id not present in the recipe list are dropped. Recipes with no
// relations keep a nil Ingredients slice.
func (l *Linker) Link(ctx context.Context, recipes []models.Recipe, relations []models.Relation) []models.Recipe {
	ctx, span := tracing.StartSpan(ctx, "linker.Linker.Link")
	defer span.End()

	grouped := GroupByRecipe(relations)

	linked := make([]models.Recipe, len(recipes))
	matched := 0
	for i, recipe := range recipes {
		linked[i] = recipe
		if entityIDs, ok := grouped[recipe.RecipeID]; ok {
			linked[i].Ingredients = entityIDs
			matched++
		}
	}

	l.logger.WithContext(ctx).WithFields(map[string]any{
		"recipe_count":   len(recipes),
		"relation_count": len(relations),
		"linked_count":   matched,
	}).Debug("Linked recipes with ingredient relations")

	return linked
}

// GroupByRecipe collects entity ids per recipe id, preserving the order
// relations appear in and keeping duplicates.
func GroupByRecipe(relations []models.Relation) map[string][]string {
	grouped := make(map[string][]string)
	for _, rel := range relations {
		grouped[rel.RecipeID] = append(grouped[rel.RecipeID], rel.EntityID)
	}
	return grouped
}
