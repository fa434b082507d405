package linker

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/basil/pkg/models"
)

func testLinker() *Linker {
	return New(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func TestLink_AssignsGroupedRelations(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Title: "Paella"},
		{RecipeID: "r2", Title: "Ramen"},
	}
	relations := []models.Relation{
		{RecipeID: "r1", EntityID: "e1"},
		{RecipeID: "r1", EntityID: "e2"},
		{RecipeID: "r3", EntityID: "e9"},
	}

	linked := testLinker().Link(context.Background(), recipes, relations)
	require.Len(t, linked, 2)

	assert.Equal(t, []string{"e1", "e2"}, linked[0].Ingredients)
	assert.Nil(t, linked[1].Ingredients)
}

func TestLink_DropsRelationsForUnknownRecipes(t *testing.T) {
	recipes := []models.Recipe{{RecipeID: "r1"}}
	relations := []models.Relation{{RecipeID: "r3", EntityID: "e9"}}

	linked := testLinker().Link(context.Background(), recipes, relations)
	require.Len(t, linked, 1)
	assert.Equal(t, "r1", linked[0].RecipeID)
	assert.Nil(t, linked[0].Ingredients)
}

func TestLink_KeepsDuplicatesAndOrder(t *testing.T) {
	recipes := []models.Recipe{{RecipeID: "r1"}}
	relations := []models.Relation{
		{RecipeID: "r1", EntityID: "e2"},
		{RecipeID: "r1", EntityID: "e1"},
		{RecipeID: "r1", EntityID: "e2"},
	}

	linked := testLinker().Link(context.Background(), recipes, relations)
	assert.Equal(t, []string{"e2", "e1", "e2"}, linked[0].Ingredients)
}

func TestLink_DoesNotMutateInput(t *testing.T) {
	recipes := []models.Recipe{{RecipeID: "r1"}}
	relations := []models.Relation{{RecipeID: "r1", EntityID: "e1"}}

	_ = testLinker().Link(context.Background(), recipes, relations)
	assert.Nil(t, recipes[0].Ingredients)
}

func TestGroupByRecipe(t *testing.T) {
	relations := []models.Relation{
		{RecipeID: "r1", EntityID: "e1"},
		{RecipeID: "r2", EntityID: "e3"},
		{RecipeID: "r1", EntityID: "e2"},
	}

	grouped := GroupByRecipe(relations)
	assert.Equal(t, map[string][]string{
		"r1": {"e1", "e2"},
		"r2": {"e3"},
	}, grouped)
}
