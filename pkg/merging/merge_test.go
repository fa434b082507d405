package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/basil/pkg/errors"
	"github.com/flavorgraph/basil/pkg/models"
)

func TestMerge_SecondRecordWinsNonEmpty(t *testing.T) {
	a := models.Ingredient{
		EntityID:    "e1",
		AliasedName: "tomato",
		Category:    "Vegetable",
		Synonyms:    []string{"tomato"},
	}
	b := models.Ingredient{
		EntityID:    "e1",
		AliasedName: "roma tomato",
	}

	merged, err := Merge(a, b)
	require.NoError(t, err)

	assert.Equal(t, "roma tomato", merged.AliasedName)
	assert.Equal(t, "Vegetable", merged.Category)
	assert.Equal(t, []string{"tomato"}, merged.Synonyms)
}

func TestMerge_NotCommutative(t *testing.T) {
	a := models.Ingredient{EntityID: "e1", AliasedName: "tomato"}
	b := models.Ingredient{EntityID: "e1", AliasedName: "roma tomato"}

	ab, err := Merge(a, b)
	require.NoError(t, err)
	ba, err := Merge(b, a)
	require.NoError(t, err)

	assert.Equal(t, "roma tomato", ab.AliasedName)
	assert.Equal(t, "roma tomato", ba.AliasedName)

	a.Category = "Vegetable"
	b.Category = "Fruit"
	ab, err = Merge(a, b)
	require.NoError(t, err)
	ba, err = Merge(b, a)
	require.NoError(t, err)

	assert.Equal(t, "Fruit", ab.Category)
	assert.Equal(t, "Vegetable", ba.Category)
	assert.NotEqual(t, ab, ba)
}

func TestMerge_IdentityMismatch(t *testing.T) {
	a := models.Ingredient{EntityID: "e1"}
	b := models.Ingredient{EntityID: "e2"}

	_, err := Merge(a, b)
	require.Error(t, err)
	assert.True(t, errors.IsIdentityMismatch(err))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := models.Ingredient{EntityID: "e1", AliasedName: "tomato"}
	b := models.Ingredient{EntityID: "e1", AliasedName: "roma tomato"}

	_, err := Merge(a, b)
	require.NoError(t, err)

	assert.Equal(t, "tomato", a.AliasedName)
	assert.Equal(t, "roma tomato", b.AliasedName)
}

func TestMergeCompound_ConstituentsFollowSameRule(t *testing.T) {
	a := models.CompoundIngredient{
		Ingredient:   models.Ingredient{EntityID: "c1", AliasedName: "sofrito"},
		Constituents: []string{"e1", "e2"},
	}
	b := models.CompoundIngredient{
		Ingredient: models.Ingredient{EntityID: "c1", Category: "Sauce"},
	}

	merged, err := MergeCompound(a, b)
	require.NoError(t, err)

	assert.Equal(t, "sofrito", merged.AliasedName)
	assert.Equal(t, "Sauce", merged.Category)
	assert.Equal(t, []string{"e1", "e2"}, merged.Constituents)

	b.Constituents = []string{"e3"}
	merged, err = MergeCompound(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"e3"}, merged.Constituents)
}

func TestMergeLists(t *testing.T) {
	list1 := []models.Ingredient{
		{EntityID: "1", AliasedName: "x"},
	}
	list2 := []models.Ingredient{
		{EntityID: "1", AliasedName: "y"},
		{EntityID: "2", AliasedName: "z"},
	}

	merged, err := MergeLists(list1, list2)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, "1", merged[0].EntityID)
	assert.Equal(t, "y", merged[0].AliasedName)
	assert.Equal(t, "2", merged[1].EntityID)
	assert.Equal(t, "z", merged[1].AliasedName)
}

func TestMergeLists_UnmatchedItemsKept(t *testing.T) {
	list1 := []models.Ingredient{
		{EntityID: "1", AliasedName: "x"},
		{EntityID: "3", AliasedName: "w"},
	}
	list2 := []models.Ingredient{
		{EntityID: "2", AliasedName: "z"},
	}

	merged, err := MergeLists(list1, list2)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	assert.Equal(t, "x", merged[0].AliasedName)
	assert.Equal(t, "w", merged[1].AliasedName)
	assert.Equal(t, "z", merged[2].AliasedName)
}

func TestMergeLists_EmptyInputs(t *testing.T) {
	merged, err := MergeLists(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, merged)

	only := []models.Ingredient{{EntityID: "1"}}
	merged, err = MergeLists(only, nil)
	require.NoError(t, err)
	assert.Equal(t, only, merged)

	merged, err = MergeLists(nil, only)
	require.NoError(t, err)
	assert.Equal(t, only, merged)
}

func TestMergeCompoundLists(t *testing.T) {
	list1 := []models.CompoundIngredient{
		{Ingredient: models.Ingredient{EntityID: "c1", AliasedName: "sofrito"}},
	}
	list2 := []models.CompoundIngredient{
		{Ingredient: models.Ingredient{EntityID: "c1", Category: "Sauce"}, Constituents: []string{"e1"}},
		{Ingredient: models.Ingredient{EntityID: "c2", AliasedName: "pesto"}},
	}

	merged, err := MergeCompoundLists(list1, list2)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, "sofrito", merged[0].AliasedName)
	assert.Equal(t, "Sauce", merged[0].Category)
	assert.Equal(t, []string{"e1"}, merged[0].Constituents)
	assert.Equal(t, "pesto", merged[1].AliasedName)
}
