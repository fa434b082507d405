package processor

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/basil/pkg/events"
	"github.com/flavorgraph/basil/pkg/loader"
	"github.com/flavorgraph/basil/pkg/models"
)

func testProcessor() *Processor {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return &Processor{
		logger:  logger,
		emitter: events.NewEmitter(nil, logger),
	}
}

func TestCollapseIngredients_MergesDuplicateIdentities(t *testing.T) {
	list := []models.Ingredient{
		{EntityID: "e1", AliasedName: "tomato", Category: "Vegetable"},
		{EntityID: "e2", AliasedName: "salt"},
		{EntityID: "e1", AliasedName: "roma tomato"},
	}

	out, merged, err := testProcessor().collapseIngredients(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, 1, merged)
	require.Len(t, out, 2)
	assert.Equal(t, "e1", out[0].EntityID)
	assert.Equal(t, "roma tomato", out[0].AliasedName)
	assert.Equal(t, "Vegetable", out[0].Category)
	assert.Equal(t, "salt", out[1].AliasedName)
}

func TestCollapseCompounds_MergesDuplicateIdentities(t *testing.T) {
	list := []models.CompoundIngredient{
		{Ingredient: models.Ingredient{EntityID: "c1", AliasedName: "sofrito"}, Constituents: []string{"e1"}},
		{Ingredient: models.Ingredient{EntityID: "c1", Category: "Sauce"}},
	}

	out, merged, err := testProcessor().collapseCompounds(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, 1, merged)
	require.Len(t, out, 1)
	assert.Equal(t, "sofrito", out[0].AliasedName)
	assert.Equal(t, "Sauce", out[0].Category)
	assert.Equal(t, []string{"e1"}, out[0].Constituents)
}

func TestMapRecord_PartialFieldsAllowed(t *testing.T) {
	raw := map[string]any{
		"Recipe ID": "r1",
		"Title":     "Paella",
	}

	rec := mapRecord(raw, loader.RecipeFields)
	recipe := loader.RecipeFromRecord(rec)

	assert.Equal(t, "r1", recipe.RecipeID)
	assert.Equal(t, "Paella", recipe.Title)
	assert.Empty(t, recipe.Cuisine)
}
