package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/basil/pkg/errors"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecords_JSONWithMapping(t *testing.T) {
	path := writeFile(t, "recipes.json", `[
		{"Recipe ID": "r1", "Title": "Paella", "Source": "web", "Cuisine": "Spanish"},
		{"Recipe ID": "r2", "Title": "Ramen", "Source": "book", "Cuisine": "Japanese"}
	]`)

	l := New(testLogger(), path, FormatJSON, RecipeFields)
	records, err := l.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "r1", records[0].String("recipe_id"))
	assert.Equal(t, "Paella", records[0].String("title"))
	assert.Equal(t, "Japanese", records[1].String("cuisine"))
}

func TestLoadRecords_MissingKeyAbortsWholeLoad(t *testing.T) {
	path := writeFile(t, "recipes.json", `[
		{"Recipe ID": "r1", "Title": "Paella", "Source": "web", "Cuisine": "Spanish"},
		{"Recipe ID": "r2", "Title": "Ramen", "Source": "book"}
	]`)

	l := New(testLogger(), path, FormatJSON, RecipeFields)
	records, err := l.LoadRecords(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMissingKey(err))
	assert.Nil(t, records)
}

func TestLoadRecords_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "recipes.xml", `<recipes/>`)

	l := New(testLogger(), path, Format("xml"), RecipeFields)
	_, err := l.LoadRecords(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestLoadRecords_CSV(t *testing.T) {
	path := writeFile(t, "recipes.csv", "Recipe ID,Title,Source,Cuisine\nr1,Paella,web,Spanish\nr2,Ramen,book,Japanese\n")

	l := New(testLogger(), path, FormatCSV, RecipeFields)
	records, err := l.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ramen", records[1].String("title"))
}

func TestLoadRecords_RawRestrictedToKeys(t *testing.T) {
	path := writeFile(t, "relations.json", `[
		{"Recipe ID": "r1", "Entity ID": "e1", "Extra": "ignored"}
	]`)

	l := NewRaw(testLogger(), path, FormatJSON, []string{"Recipe ID", "Entity ID"})
	records, err := l.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "r1", records[0].String("Recipe ID"))
	assert.Equal(t, "e1", records[0].String("Entity ID"))
	_, hasExtra := records[0]["Extra"]
	assert.False(t, hasExtra)
}

func TestLoadRecords_RawWholeRecord(t *testing.T) {
	path := writeFile(t, "relations.json", `[{"Recipe ID": "r1", "Entity ID": "e1"}]`)

	l := NewRaw(testLogger(), path, FormatJSON, nil)
	records, err := l.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "e1", records[0].String("Entity ID"))
}

func TestLoadEntities_Ingredients(t *testing.T) {
	path := writeFile(t, "ingredients.json", `[
		{"Entity ID": "e7", "Category": "Spice", "Ingredient Synonyms": ["saffron", "azafran"], "Aliased Ingredient Name": "saffron"}
	]`)

	l := New(testLogger(), path, FormatJSON, IngredientFields)
	ingredients, err := LoadEntities(context.Background(), l, IngredientFromRecord)
	require.NoError(t, err)
	require.Len(t, ingredients, 1)

	assert.Equal(t, "e7", ingredients[0].EntityID)
	assert.Equal(t, "Spice", ingredients[0].Category)
	assert.Equal(t, []string{"saffron", "azafran"}, ingredients[0].Synonyms)
}

func TestLoadEntities_CompoundIngredientConstituents(t *testing.T) {
	path := writeFile(t, "compound.json", `[
		{"entity_id": "c1", "Category": "Sauce", "Compound Ingredient Synonyms": "sofrito", "Compound Ingredient Name": "sofrito", "Contituent Ingredients": ["e1", "e2"]}
	]`)

	l := New(testLogger(), path, FormatJSON, CompoundIngredientFields)
	compounds, err := LoadEntities(context.Background(), l, CompoundIngredientFromRecord)
	require.NoError(t, err)
	require.Len(t, compounds, 1)
	assert.Equal(t, []string{"e1", "e2"}, compounds[0].Constituents)
}

func TestValidateMappings(t *testing.T) {
	assert.NoError(t, ValidateMappings())
}

func TestValidateMapping_RejectsUnknownTarget(t *testing.T) {
	bad := []FieldMap{{Target: "nope", Source: "Nope"}}
	err := validateMapping("recipe", bad, recipeTargets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target field")
}

func TestValidateMapping_RejectsDuplicates(t *testing.T) {
	bad := []FieldMap{
		{Target: "recipe_id", Source: "Recipe ID"},
		{Target: "recipe_id", Source: "ID"},
	}
	err := validateMapping("recipe", bad, recipeTargets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate target field")
}
