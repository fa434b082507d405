// Package similarity scores recipes by the overlap of their ingredient
// sets and finds the pairs that clear a configurable threshold.
package similarity

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// Config contains configuration for the similarity engine
type Config struct {
	Threshold float64 // Minimum Jaccard score for a pair to count (default: 0.5)
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.5,
	}
}

// Engine computes pairwise recipe similarity
type Engine struct {
	logger ectologger.Logger
	config Config
}

// NewEngine creates a new similarity engine
func NewEngine(logger ectologger.Logger, config Config) *Engine {
	return &Engine{
		logger: logger,
		config: config,
	}
}

// Threshold returns the configured minimum score.
func (e *Engine) Threshold() float64 {
	return e.config.Threshold
}

// Pair is one unordered recipe pair that cleared the threshold.
type Pair struct {
	RecipeA     string
	RecipeB     string
	TitleA      string
	TitleB      string
	Score       float64
	SharedCount int
}

// FindSimilarPairs compares every unordered pair of recipes and returns
// the pairs whose ingredient-set Jaccard score meets the threshold.
// Pair order follows the input recipe order.
func (e *Engine) FindSimilarPairs(ctx context.Context, recipes []models.Recipe) []Pair {
	ctx, span := tracing.StartSpan(ctx, "similarity.Engine.FindSimilarPairs")
	defer span.End()

	sets := make([]map[string]bool, len(recipes))
	for i, recipe := range recipes {
		sets[i] = toSet(recipe.Ingredients)
	}

	pairs := make([]Pair, 0)
	for i := 0; i < len(recipes); i++ {
		for j := i + 1; j < len(recipes); j++ {
			score := jaccardSets(sets[i], sets[j])
			if score < e.config.Threshold {
				continue
			}
			pairs = append(pairs, Pair{
				RecipeA:     recipes[i].RecipeID,
				RecipeB:     recipes[j].RecipeID,
				TitleA:      recipes[i].Title,
				TitleB:      recipes[j].Title,
				Score:       score,
				SharedCount: sharedCount(sets[i], sets[j]),
			})
		}
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"recipe_count": len(recipes),
		"pair_count":   len(pairs),
		"threshold":    e.config.Threshold,
	}).Debug("Computed recipe similarity")

	return pairs
}

// FindSimilar returns the similar pairs as a symmetric map keyed by
// recipe title, valued by the shared-ingredient count.
func (e *Engine) FindSimilar(ctx context.Context, recipes []models.Recipe) models.SimilarRecipes {
	pairs := e.FindSimilarPairs(ctx, recipes)

	result := make(models.SimilarRecipes)
	for _, pair := range pairs {
		if result[pair.TitleA] == nil {
			result[pair.TitleA] = make(map[string]int)
		}
		if result[pair.TitleB] == nil {
			result[pair.TitleB] = make(map[string]int)
		}
		result[pair.TitleA][pair.TitleB] = pair.SharedCount
		result[pair.TitleB][pair.TitleA] = pair.SharedCount
	}
	return result
}

// Jaccard returns the Jaccard similarity of two ingredient-id lists,
// treating each as a set. Two empty sets score 0, not 1.
func Jaccard(a, b []string) float64 {
	return jaccardSets(toSet(a), toSet(b))
}

func jaccardSets(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	shared := sharedCount(a, b)
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

func sharedCount(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for id := range a {
		if b[id] {
			count++
		}
	}
	return count
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
