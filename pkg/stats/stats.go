// Package stats computes aggregate ingredient statistics over the
// recipe catalog: rarity detection, substring filters, and per-cuisine
// popularity rankings.
package stats

import (
	"context"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/flavorgraph/basil/pkg/normalizers"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// Row is one recipe as the statistics functions see it: a title, a
// cuisine label, and the recipe's ingredient names as a comma-delimited
// string.
type Row struct {
	Title       string `json:"title"`
	Cuisine     string `json:"cuisine"`
	Ingredients string `json:"ingredients"`
}

// IngredientCount pairs an ingredient name with its occurrence count.
type IngredientCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Config contains configuration for the analyzer
type Config struct {
	UncommonThreshold int // Counts below this are uncommon (default: 5)
	PopularTopN       int // Ranking size for popular/common (default: 10)
}

// DefaultConfig returns default analyzer configuration
func DefaultConfig() Config {
	return Config{
		UncommonThreshold: 5,
		PopularTopN:       10,
	}
}

// Analyzer runs the aggregate statistics
type Analyzer struct {
	logger ectologger.Logger
	config Config
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger ectologger.Logger, config Config) *Analyzer {
	return &Analyzer{
		logger: logger,
		config: config,
	}
}

// DetectUncommonIngredients counts every ingredient name across all
// rows and returns the names appearing fewer than threshold times,
// sorted alphabetically. A threshold <= 0 falls back to the configured
// default.
func (a *Analyzer) DetectUncommonIngredients(ctx context.Context, rows []Row, threshold int) []string {
	ctx, span := tracing.StartSpan(ctx, "stats.Analyzer.DetectUncommonIngredients")
	defer span.End()

	if threshold <= 0 {
		threshold = a.config.UncommonThreshold
	}

	counts := countIngredients(rows)

	uncommon := make([]string, 0)
	for name, count := range counts {
		if count < threshold {
			uncommon = append(uncommon, name)
		}
	}
	sort.Strings(uncommon)

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"row_count":      len(rows),
		"threshold":      threshold,
		"uncommon_count": len(uncommon),
	}).Debug("Detected uncommon ingredients")

	return uncommon
}

// PopularityResult holds the per-cuisine rankings and the ingredients
// shared by every cuisine.
type PopularityResult struct {
	PopularByCuisine map[string][]IngredientCount `json:"popular_by_cuisine"`
	Common           []IngredientCount            `json:"common"`
}

// DetectCommonAndPopularIngredients ranks the top-N ingredients of each
// cuisine, then ranks the ingredients that appear in every cuisine by
// overall frequency.
func (a *Analyzer) DetectCommonAndPopularIngredients(ctx context.Context, rows []Row) PopularityResult {
	ctx, span := tracing.StartSpan(ctx, "stats.Analyzer.DetectCommonAndPopularIngredients")
	defer span.End()

	byCuisine := make(map[string]map[string]int)
	overall := make(map[string]int)
	for _, row := range rows {
		counts, ok := byCuisine[row.Cuisine]
		if !ok {
			counts = make(map[string]int)
			byCuisine[row.Cuisine] = counts
		}
		for _, name := range SplitIngredients(row.Ingredients) {
			counts[name]++
			overall[name]++
		}
	}

	popular := make(map[string][]IngredientCount, len(byCuisine))
	for cuisine, counts := range byCuisine {
		popular[cuisine] = topCounts(counts, a.config.PopularTopN)
	}

	common := make([]IngredientCount, 0)
	for name, count := range overall {
		inAll := len(byCuisine) > 0
		for _, counts := range byCuisine {
			if counts[name] == 0 {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, IngredientCount{Name: name, Count: count})
		}
	}
	sortCounts(common)
	if len(common) > a.config.PopularTopN {
		common = common[:a.config.PopularTopN]
	}

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"row_count":     len(rows),
		"cuisine_count": len(byCuisine),
		"common_count":  len(common),
	}).Debug("Ranked popular and common ingredients")

	return PopularityResult{
		PopularByCuisine: popular,
		Common:           common,
	}
}

// FilterUncommonIngredients retains rows whose ingredient text contains
// any of the given names, case-insensitively.
func FilterUncommonIngredients(rows []Row, names []string) []Row {
	return filterRows(rows, names, true)
}

// FilterRecipesByIngredients excludes rows whose ingredient text
// contains any of the given names, case-insensitively.
func FilterRecipesByIngredients(rows []Row, names []string) []Row {
	return filterRows(rows, names, false)
}

func filterRows(rows []Row, names []string, keepMatches bool) []Row {
	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		text := strings.ToLower(row.Ingredients)
		matched := false
		for _, name := range lowered {
			if name != "" && strings.Contains(text, name) {
				matched = true
				break
			}
		}
		if matched == keepMatches {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SplitIngredients splits a comma-delimited ingredient column into
// normalized names, dropping empties.
func SplitIngredients(text string) []string {
	parts := strings.Split(text, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := normalizers.NormalizeIngredientName(part)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func countIngredients(rows []Row) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		for _, name := range SplitIngredients(row.Ingredients) {
			counts[name]++
		}
	}
	return counts
}

func topCounts(counts map[string]int, n int) []IngredientCount {
	ranked := make([]IngredientCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, IngredientCount{Name: name, Count: count})
	}
	sortCounts(ranked)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// sortCounts orders by count descending, name ascending on ties, so
// rankings are deterministic.
func sortCounts(counts []IngredientCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
}
