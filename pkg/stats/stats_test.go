package stats

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalyzer(config Config) *Analyzer {
	return NewAnalyzer(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), config)
}

func TestDetectUncommonIngredients(t *testing.T) {
	rows := []Row{
		{Title: "A", Ingredients: "salt, saffron"},
		{Title: "B", Ingredients: "salt, pepper"},
		{Title: "C", Ingredients: "salt"},
	}

	uncommon := testAnalyzer(DefaultConfig()).DetectUncommonIngredients(context.Background(), rows, 2)
	assert.Equal(t, []string{"pepper", "saffron"}, uncommon)
}

func TestDetectUncommonIngredients_DefaultThreshold(t *testing.T) {
	rows := []Row{
		{Title: "A", Ingredients: "salt"},
		{Title: "B", Ingredients: "salt"},
		{Title: "C", Ingredients: "salt"},
		{Title: "D", Ingredients: "salt"},
		{Title: "E", Ingredients: "salt, pepper"},
	}

	// Threshold <= 0 falls back to the configured default of 5.
	uncommon := testAnalyzer(DefaultConfig()).DetectUncommonIngredients(context.Background(), rows, 0)
	assert.Equal(t, []string{"pepper"}, uncommon)
}

func TestDetectUncommonIngredients_NormalizesNames(t *testing.T) {
	rows := []Row{
		{Title: "A", Ingredients: " Salt ,  Sea-Salt"},
		{Title: "B", Ingredients: "salt, sea salt"},
	}

	uncommon := testAnalyzer(DefaultConfig()).DetectUncommonIngredients(context.Background(), rows, 2)
	assert.Empty(t, uncommon)
}

func TestFilterUncommonIngredients(t *testing.T) {
	rows := []Row{
		{Title: "A", Ingredients: "salt, saffron"},
		{Title: "B", Ingredients: "salt, pepper"},
	}

	kept := FilterUncommonIngredients(rows, []string{"Saffron"})
	require.Len(t, kept, 1)
	assert.Equal(t, "A", kept[0].Title)
}

func TestFilterRecipesByIngredients(t *testing.T) {
	rows := []Row{
		{Title: "A", Ingredients: "salt, saffron"},
		{Title: "B", Ingredients: "salt, pepper"},
	}

	kept := FilterRecipesByIngredients(rows, []string{"saffron"})
	require.Len(t, kept, 1)
	assert.Equal(t, "B", kept[0].Title)
}

func TestFilter_EmptyNamesKeepsEverythingOut(t *testing.T) {
	rows := []Row{{Title: "A", Ingredients: "salt"}}

	assert.Empty(t, FilterUncommonIngredients(rows, nil))
	assert.Len(t, FilterRecipesByIngredients(rows, nil), 1)
}

func TestDetectCommonAndPopularIngredients(t *testing.T) {
	rows := []Row{
		{Title: "A", Cuisine: "Spanish", Ingredients: "salt, saffron, rice"},
		{Title: "B", Cuisine: "Spanish", Ingredients: "salt, rice"},
		{Title: "C", Cuisine: "Japanese", Ingredients: "salt, rice, nori"},
		{Title: "D", Cuisine: "Japanese", Ingredients: "salt, miso"},
	}

	result := testAnalyzer(DefaultConfig()).DetectCommonAndPopularIngredients(context.Background(), rows)

	require.Contains(t, result.PopularByCuisine, "Spanish")
	require.Contains(t, result.PopularByCuisine, "Japanese")

	spanish := result.PopularByCuisine["Spanish"]
	require.NotEmpty(t, spanish)
	assert.Equal(t, IngredientCount{Name: "rice", Count: 2}, spanish[0])
	assert.Equal(t, IngredientCount{Name: "salt", Count: 2}, spanish[1])

	// salt and rice appear in both cuisines; saffron, nori and miso do not.
	require.Len(t, result.Common, 2)
	assert.Equal(t, IngredientCount{Name: "salt", Count: 4}, result.Common[0])
	assert.Equal(t, IngredientCount{Name: "rice", Count: 3}, result.Common[1])
}

func TestDetectCommonAndPopularIngredients_TopNApplied(t *testing.T) {
	rows := []Row{
		{Title: "A", Cuisine: "X", Ingredients: "a, b, c"},
		{Title: "B", Cuisine: "X", Ingredients: "a, b"},
	}

	result := testAnalyzer(Config{UncommonThreshold: 5, PopularTopN: 2}).
		DetectCommonAndPopularIngredients(context.Background(), rows)

	require.Len(t, result.PopularByCuisine["X"], 2)
	assert.Equal(t, "a", result.PopularByCuisine["X"][0].Name)
	assert.Equal(t, "b", result.PopularByCuisine["X"][1].Name)
	assert.Len(t, result.Common, 2)
}

func TestSplitIngredients(t *testing.T) {
	assert.Equal(t, []string{"salt", "black pepper"}, SplitIngredients(" Salt , Black  Pepper "))
	assert.Empty(t, SplitIngredients(""))
	assert.Empty(t, SplitIngredients(" , ,"))
}
