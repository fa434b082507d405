package similarity

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/basil/pkg/models"
)

func testEngine(config Config) *Engine {
	return NewEngine(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), config)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected float64
	}{
		{"identical sets", []string{"e1", "e2"}, []string{"e1", "e2"}, 1.0},
		{"disjoint sets", []string{"e1"}, []string{"e2"}, 0.0},
		{"half overlap", []string{"e1", "e2", "e3"}, []string{"e2", "e3", "e4"}, 0.5},
		{"both empty", nil, nil, 0.0},
		{"one empty", []string{"e1"}, nil, 0.0},
		{"duplicates collapse", []string{"e1", "e1", "e2"}, []string{"e1", "e2"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestJaccard_Symmetric(t *testing.T) {
	a := []string{"e1", "e2", "e3"}
	b := []string{"e2", "e4"}
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func TestJaccard_SelfIsOne(t *testing.T) {
	a := []string{"e1", "e2", "e3"}
	assert.Equal(t, 1.0, Jaccard(a, a))
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, 0.5, DefaultConfig().Threshold)
}

func TestFindSimilarPairs_AppliesThreshold(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Title: "Paella", Ingredients: []string{"e1", "e2", "e3"}},
		{RecipeID: "r2", Title: "Arroz", Ingredients: []string{"e1", "e2", "e4"}},
		{RecipeID: "r3", Title: "Ramen", Ingredients: []string{"e9"}},
	}

	pairs := testEngine(DefaultConfig()).FindSimilarPairs(context.Background(), recipes)
	require.Len(t, pairs, 1)

	assert.Equal(t, "r1", pairs[0].RecipeA)
	assert.Equal(t, "r2", pairs[0].RecipeB)
	assert.InDelta(t, 0.5, pairs[0].Score, 1e-9)
	assert.Equal(t, 2, pairs[0].SharedCount)
}

func TestFindSimilarPairs_ScoreJustBelowThresholdExcluded(t *testing.T) {
	// Jaccard is 1/3 here, below the 0.5 default.
	recipes := []models.Recipe{
		{RecipeID: "r1", Title: "A", Ingredients: []string{"e1", "e2"}},
		{RecipeID: "r2", Title: "B", Ingredients: []string{"e2", "e3"}},
	}

	pairs := testEngine(DefaultConfig()).FindSimilarPairs(context.Background(), recipes)
	assert.Empty(t, pairs)

	pairs = testEngine(Config{Threshold: 0.3}).FindSimilarPairs(context.Background(), recipes)
	assert.Len(t, pairs, 1)
}

func TestFindSimilar_SymmetricResult(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Title: "Paella", Ingredients: []string{"e1", "e2"}},
		{RecipeID: "r2", Title: "Arroz", Ingredients: []string{"e1", "e2"}},
		{RecipeID: "r3", Title: "Ramen", Ingredients: []string{"e9"}},
	}

	result := testEngine(DefaultConfig()).FindSimilar(context.Background(), recipes)

	require.Contains(t, result, "Paella")
	require.Contains(t, result, "Arroz")
	assert.NotContains(t, result, "Ramen")

	assert.Equal(t, 2, result["Paella"]["Arroz"])
	assert.Equal(t, 2, result["Arroz"]["Paella"])
}

func TestFindSimilar_RecipesWithoutIngredientsNeverMatch(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Title: "A"},
		{RecipeID: "r2", Title: "B"},
	}

	result := testEngine(DefaultConfig()).FindSimilar(context.Background(), recipes)
	assert.Empty(t, result)
}
