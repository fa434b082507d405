// Package fingerprint produces deterministic content hashes for catalog
// records so upserts can skip rows whose data has not changed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/flavorgraph/basil/pkg/models"
)

// Generate creates a deterministic fingerprint for record data.
// The fingerprint is a SHA256 hash of the canonicalized JSON.
func Generate(data map[string]any) string {
	hash := sha256.Sum256([]byte(canonicalize(data)))
	return hex.EncodeToString(hash[:])
}

// ForRecipe fingerprints a recipe's source fields and its linked
// ingredient ids.
func ForRecipe(recipe models.Recipe) string {
	return Generate(map[string]any{
		"recipe_id":   recipe.RecipeID,
		"title":       recipe.Title,
		"source":      recipe.Source,
		"cuisine":     recipe.Cuisine,
		"ingredients": toAnySlice(recipe.Ingredients),
	})
}

// ForIngredient fingerprints an ingredient's source fields. Compound
// constituents are passed separately so plain ingredients hash the same
// whether or not the caller wraps them.
func ForIngredient(ingredient models.Ingredient, constituents []string) string {
	return Generate(map[string]any{
		"entity_id":     ingredient.EntityID,
		"original_name": ingredient.OriginalName,
		"aliased_name":  ingredient.AliasedName,
		"category":      ingredient.Category,
		"synonyms":      toAnySlice(ingredient.Synonyms),
		"constituents":  toAnySlice(constituents),
	})
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}

// canonicalize creates a deterministic string representation by sorting
// map keys and recursively processing nested structures.
func canonicalize(data any) string {
	switch v := data.(type) {
	case map[string]any:
		return canonicalizeMap(v)
	case []any:
		return canonicalizeArray(v)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func canonicalizeMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result strings.Builder
	result.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			result.WriteString(",")
		}
		keyJSON, _ := json.Marshal(k)
		result.Write(keyJSON)
		result.WriteString(":")
		result.WriteString(canonicalize(m[k]))
	}
	result.WriteString("}")
	return result.String()
}

func canonicalizeArray(arr []any) string {
	var result strings.Builder
	result.WriteString("[")
	for i, v := range arr {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(canonicalize(v))
	}
	result.WriteString("]")
	return result.String()
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
