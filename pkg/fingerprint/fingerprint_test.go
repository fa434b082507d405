package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flavorgraph/basil/pkg/models"
)

func TestGenerate_DeterministicAcrossKeyOrder(t *testing.T) {
	a := Generate(map[string]any{"x": 1, "y": "two", "z": []any{"a", "b"}})
	b := Generate(map[string]any{"z": []any{"a", "b"}, "y": "two", "x": 1})
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestGenerate_SensitiveToValues(t *testing.T) {
	a := Generate(map[string]any{"x": 1})
	b := Generate(map[string]any{"x": 2})
	assert.NotEqual(t, a, b)
}

func TestForRecipe(t *testing.T) {
	recipe := models.Recipe{
		RecipeID:    "r1",
		Title:       "Paella",
		Cuisine:     "Spanish",
		Ingredients: []string{"e1", "e2"},
	}

	fp := ForRecipe(recipe)
	assert.Equal(t, fp, ForRecipe(recipe))

	recipe.Ingredients = []string{"e1"}
	assert.True(t, HasChanged(fp, ForRecipe(recipe)))
}

func TestForIngredient_ConstituentsMatter(t *testing.T) {
	ingredient := models.Ingredient{EntityID: "e1", AliasedName: "tomato"}

	plain := ForIngredient(ingredient, nil)
	compound := ForIngredient(ingredient, []string{"e2"})
	assert.NotEqual(t, plain, compound)
}
