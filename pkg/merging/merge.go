// Package merging repairs duplicate ingredient identities. Two records
// sharing an entity id are combined field by field, with the second
// record winning wherever it carries a value.
package merging

import (
	"github.com/flavorgraph/basil/pkg/errors"
	"github.com/flavorgraph/basil/pkg/models"
)

// Merge combines two ingredient records with the same identity. For each
// field, b wins when non-empty, otherwise a's value is kept. Inputs are
// not mutated. Merging records with different entity ids returns an
// IdentityMismatchError; the order of arguments matters, so Merge(a, b)
// and Merge(b, a) generally differ.
func Merge(a, b models.Ingredient) (models.Ingredient, error) {
	if a.EntityID != b.EntityID {
		return models.Ingredient{}, errors.NewIdentityMismatchError(a.EntityID, b.EntityID)
	}

	return models.Ingredient{
		EntityID:     a.EntityID,
		OriginalName: pick(a.OriginalName, b.OriginalName),
		AliasedName:  pick(a.AliasedName, b.AliasedName),
		Category:     pick(a.Category, b.Category),
		Synonyms:     pickSlice(a.Synonyms, b.Synonyms),
	}, nil
}

// MergeCompound applies the same rule to compound ingredients, including
// their constituent lists.
func MergeCompound(a, b models.CompoundIngredient) (models.CompoundIngredient, error) {
	base, err := Merge(a.Ingredient, b.Ingredient)
	if err != nil {
		return models.CompoundIngredient{}, err
	}

	return models.CompoundIngredient{
		Ingredient:   base,
		Constituents: pickSlice(a.Constituents, b.Constituents),
	}, nil
}

// MergeLists merges two ingredient lists by identity. Each item of list1
// is merged with its first identity match in list2, or appended as-is
// when list2 has no counterpart. Items of list2 that matched nothing are
// appended unmerged at the end. Order within each list is preserved.
func MergeLists(list1, list2 []models.Ingredient) ([]models.Ingredient, error) {
	merged := make([]models.Ingredient, 0, len(list1)+len(list2))
	consumed := make([]bool, len(list2))

	for _, a := range list1 {
		matched := false
		for j, b := range list2 {
			if consumed[j] || a.EntityID != b.EntityID {
				continue
			}
			result, err := Merge(a, b)
			if err != nil {
				return nil, err
			}
			merged = append(merged, result)
			consumed[j] = true
			matched = true
			break
		}
		if !matched {
			merged = append(merged, a)
		}
	}

	for j, b := range list2 {
		if !consumed[j] {
			merged = append(merged, b)
		}
	}

	return merged, nil
}

// MergeCompoundLists is MergeLists over compound ingredients.
func MergeCompoundLists(list1, list2 []models.CompoundIngredient) ([]models.CompoundIngredient, error) {
	merged := make([]models.CompoundIngredient, 0, len(list1)+len(list2))
	consumed := make([]bool, len(list2))

	for _, a := range list1 {
		matched := false
		for j, b := range list2 {
			if consumed[j] || a.EntityID != b.EntityID {
				continue
			}
			result, err := MergeCompound(a, b)
			if err != nil {
				return nil, err
			}
			merged = append(merged, result)
			consumed[j] = true
			matched = true
			break
		}
		if !matched {
			merged = append(merged, a)
		}
	}

	for j, b := range list2 {
		if !consumed[j] {
			merged = append(merged, b)
		}
	}

	return merged, nil
}

func pick(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

func pickSlice(a, b []string) []string {
	if len(b) > 0 {
		return b
	}
	return a
}
