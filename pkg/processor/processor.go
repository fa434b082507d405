// Package processor runs the catalog pipeline: load the source files,
// repair duplicate ingredient identities, link relations, persist, and
// mirror the result to the graph database.
package processor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	ingredientrepo "github.com/flavorgraph/basil/internal/repositories/ingredient"
	reciperepo "github.com/flavorgraph/basil/internal/repositories/recipe"
	relationrepo "github.com/flavorgraph/basil/internal/repositories/relation"
	similarityrepo "github.com/flavorgraph/basil/internal/repositories/similarity"
	"github.com/flavorgraph/basil/config"
	"github.com/flavorgraph/basil/pkg/events"
	"github.com/flavorgraph/basil/pkg/graph"
	"github.com/flavorgraph/basil/pkg/kafka"
	"github.com/flavorgraph/basil/pkg/linker"
	"github.com/flavorgraph/basil/pkg/loader"
	"github.com/flavorgraph/basil/pkg/merging"
	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/similarity"
	"github.com/flavorgraph/basil/pkg/stats"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// Processor drives dataset loads and analysis passes
type Processor struct {
	logger         ectologger.Logger
	cfg            config.Config
	recipeRepo     *reciperepo.Repository
	ingredientRepo *ingredientrepo.Repository
	relationRepo   *relationrepo.Repository
	similarityRepo *similarityrepo.Repository
	catalog        *graph.CatalogService
	emitter        *events.Emitter
	linker         *linker.Linker
}

// NewProcessor creates a new processor. catalog may be nil when the
// graph database is disabled.
func NewProcessor(
	logger ectologger.Logger,
	cfg config.Config,
	recipeRepo *reciperepo.Repository,
	ingredientRepo *ingredientrepo.Repository,
	relationRepo *relationrepo.Repository,
	similarityRepo *similarityrepo.Repository,
	catalog *graph.CatalogService,
	emitter *events.Emitter,
) *Processor {
	return &Processor{
		logger:         logger,
		cfg:            cfg,
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		relationRepo:   relationRepo,
		similarityRepo: similarityRepo,
		catalog:        catalog,
		emitter:        emitter,
		linker:         linker.New(logger),
	}
}

// LoadDataset runs the full load pipeline for the four catalog source
// files. Files absent from the request fall back to the configured
// defaults. Upserts are fingerprint-guarded, so re-running a load with
// unchanged files is a no-op.
func (p *Processor) LoadDataset(ctx context.Context, req models.LoadDatasetRequest) (*models.DatasetSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.LoadDataset")
	defer span.End()

	log := p.logger.WithContext(ctx)

	recipes, err := loader.LoadEntities(ctx, p.recipeLoader(req.Recipes), loader.RecipeFromRecord)
	if err != nil {
		return nil, err
	}
	ingredients, err := loader.LoadEntities(ctx, p.ingredientLoader(req.Ingredients), loader.IngredientFromRecord)
	if err != nil {
		return nil, err
	}
	compounds, err := loader.LoadEntities(ctx, p.compoundLoader(req.CompoundIngredients), loader.CompoundIngredientFromRecord)
	if err != nil {
		return nil, err
	}
	relations, err := loader.LoadEntities(ctx, p.relationLoader(req.Relations), loader.RelationFromRecord)
	if err != nil {
		return nil, err
	}

	ingredients, mergedPlain, err := p.collapseIngredients(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	compounds, mergedCompound, err := p.collapseCompounds(ctx, compounds)
	if err != nil {
		return nil, err
	}

	linked := p.linker.Link(ctx, recipes, relations)

	linkedCount := 0
	for _, recipe := range linked {
		if _, err := p.recipeRepo.Upsert(ctx, recipe); err != nil {
			return nil, err
		}
		if err := p.relationRepo.ReplaceForRecipe(ctx, recipe.RecipeID, recipe.Ingredients); err != nil {
			return nil, err
		}
		if len(recipe.Ingredients) > 0 {
			linkedCount++
		}
	}
	for _, ingredient := range ingredients {
		if _, err := p.ingredientRepo.Upsert(ctx, ingredient, nil); err != nil {
			return nil, err
		}
	}
	for _, compound := range compounds {
		if _, err := p.ingredientRepo.Upsert(ctx, compound.Ingredient, compound.Constituents); err != nil {
			return nil, err
		}
	}

	if p.catalog != nil {
		if err := p.catalog.SyncCatalog(ctx, linked, ingredients, compounds); err != nil {
			// The relational catalog is the source of truth; a failed
			// mirror should not fail the load.
			log.WithError(err).Warn("Failed to mirror catalog to graph")
		}
	}

	summary := models.DatasetSummary{
		RecipeCount:             len(recipes),
		IngredientCount:         len(ingredients),
		CompoundIngredientCount: len(compounds),
		MergedIngredientCount:   mergedPlain + mergedCompound,
		RelationCount:           len(relations),
		LinkedRecipeCount:       linkedCount,
		LoadedAt:                time.Now().UTC(),
	}

	if err := p.emitter.EmitDatasetLoaded(ctx, summary); err != nil {
		log.WithError(err).Warn("Failed to emit dataset_loaded event")
	}

	log.WithFields(map[string]any{
		"recipe_count":     summary.RecipeCount,
		"ingredient_count": summary.IngredientCount,
		"relation_count":   summary.RelationCount,
		"merged_count":     summary.MergedIngredientCount,
	}).Info("Dataset load complete")

	return &summary, nil
}

// ComputeSimilarity reads the persisted catalog, runs the similarity
// engine, and replaces the stored pairs. A threshold <= 0 falls back to
// the configured default.
func (p *Processor) ComputeSimilarity(ctx context.Context, threshold float64) (*models.ComputeSimilarityResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ComputeSimilarity")
	defer span.End()

	if threshold <= 0 {
		threshold = p.cfg.SimilarityThreshold
	}

	recipes, err := p.LinkedRecipes(ctx)
	if err != nil {
		return nil, err
	}

	engine := similarity.NewEngine(p.logger, similarity.Config{Threshold: threshold})
	pairs := engine.FindSimilarPairs(ctx, recipes)

	if err := p.similarityRepo.ReplaceAll(ctx, pairs, threshold); err != nil {
		return nil, err
	}

	result := models.ComputeSimilarityResponse{
		RecipeCount: len(recipes),
		PairCount:   len(pairs),
		Threshold:   threshold,
	}

	if err := p.emitter.EmitSimilarityComputed(ctx, result); err != nil {
		p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit similarity_computed event")
	}

	return &result, nil
}

// LinkedRecipes reads the persisted catalog back into linked recipes.
func (p *Processor) LinkedRecipes(ctx context.Context) ([]models.Recipe, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.LinkedRecipes")
	defer span.End()

	rows, err := p.recipeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	joins, err := p.relationRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byRecipe := make(map[string][]string)
	for _, join := range joins {
		byRecipe[join.RecipeID] = append(byRecipe[join.RecipeID], join.EntityID)
	}

	recipes := make([]models.Recipe, len(rows))
	for i, row := range rows {
		recipes[i] = models.Recipe{
			RecipeID:    row.RecipeID,
			Title:       row.Title,
			Source:      row.Source,
			Cuisine:     row.Cuisine,
			Ingredients: byRecipe[row.RecipeID],
		}
	}
	return recipes, nil
}

// BuildNetwork builds the recipe-ingredient network from the persisted
// catalog, resolving ingredient labels to their aliased names. When a
// snapshot path is configured the network is written there as well.
func (p *Processor) BuildNetwork(ctx context.Context) (*graph.Network, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.BuildNetwork")
	defer span.End()

	recipes, err := p.LinkedRecipes(ctx)
	if err != nil {
		return nil, err
	}

	network := graph.BuildNetwork(recipes)

	idSet := make(map[string]bool)
	for _, recipe := range recipes {
		for _, entityID := range recipe.Ingredients {
			idSet[entityID] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	ingredients, err := p.ingredientRepo.GetByEntityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range ingredients {
		if row.AliasedName != "" {
			network.AddNode(graph.Node{ID: row.EntityID, Kind: graph.NodeIngredient, Label: row.AliasedName})
		}
	}

	if p.cfg.GraphSnapshotPath != "" {
		if err := network.Save(p.cfg.GraphSnapshotPath); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to write network snapshot")
		}
	}

	return network, nil
}

// StatsRows projects the persisted catalog into the rows the statistics
// functions consume: title, cuisine, and the recipe's ingredient names
// joined into one comma-delimited column.
func (p *Processor) StatsRows(ctx context.Context) ([]stats.Row, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.StatsRows")
	defer span.End()

	recipes, err := p.LinkedRecipes(ctx)
	if err != nil {
		return nil, err
	}

	idSet := make(map[string]bool)
	for _, recipe := range recipes {
		for _, entityID := range recipe.Ingredients {
			idSet[entityID] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	ingredients, err := p.ingredientRepo.GetByEntityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ingredients))
	for _, row := range ingredients {
		names[row.EntityID] = row.AliasedName
	}

	rows := make([]stats.Row, len(recipes))
	for i, recipe := range recipes {
		parts := make([]string, 0, len(recipe.Ingredients))
		for _, entityID := range recipe.Ingredients {
			if name := names[entityID]; name != "" {
				parts = append(parts, name)
			}
		}
		rows[i] = stats.Row{
			Title:       recipe.Title,
			Cuisine:     recipe.Cuisine,
			Ingredients: strings.Join(parts, ", "),
		}
	}
	return rows, nil
}

// HandleRecordMessage ingests one catalog record from the Kafka stream,
// mapping it through the same field tables the file loaders use.
func (p *Processor) HandleRecordMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleRecordMessage")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"record_type": msg.GetRecordType(),
		"key":         msg.Key,
	})

	var raw map[string]any
	if err := json.Unmarshal(msg.GetData(), &raw); err != nil {
		log.WithError(err).Error("Failed to parse record data")
		return err
	}

	switch msg.GetRecordType() {
	case kafka.RecordTypeRecipe:
		rec := mapRecord(raw, loader.RecipeFields)
		_, err := p.recipeRepo.Upsert(ctx, loader.RecipeFromRecord(rec))
		return err
	case kafka.RecordTypeIngredient:
		rec := mapRecord(raw, loader.IngredientFields)
		_, err := p.ingredientRepo.Upsert(ctx, loader.IngredientFromRecord(rec), nil)
		return err
	case kafka.RecordTypeCompoundIngredient:
		compound := loader.CompoundIngredientFromRecord(mapRecord(raw, loader.CompoundIngredientFields))
		_, err := p.ingredientRepo.Upsert(ctx, compound.Ingredient, compound.Constituents)
		return err
	case kafka.RecordTypeRelation:
		rel := loader.RelationFromRecord(mapRecord(raw, loader.RelationFields))
		existing, err := p.relationRepo.ListForRecipe(ctx, rel.RecipeID)
		if err != nil {
			return err
		}
		return p.relationRepo.ReplaceForRecipe(ctx, rel.RecipeID, append(existing, rel.EntityID))
	default:
		log.Warn("Unknown record type, skipping")
		return nil
	}
}

// collapseIngredients merges records sharing an entity id, later record
// winning per field, and emits an ingredient_merged event per collapse.
func (p *Processor) collapseIngredients(ctx context.Context, list []models.Ingredient) ([]models.Ingredient, int, error) {
	byID := make(map[string]int)
	out := make([]models.Ingredient, 0, len(list))
	merged := 0

	for _, item := range list {
		i, seen := byID[item.EntityID]
		if !seen {
			byID[item.EntityID] = len(out)
			out = append(out, item)
			continue
		}
		result, err := merging.Merge(out[i], item)
		if err != nil {
			return nil, 0, err
		}
		out[i] = result
		merged++
		if err := p.emitter.EmitIngredientMerged(ctx, item.EntityID, false); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit ingredient_merged event")
		}
	}
	return out, merged, nil
}

func (p *Processor) collapseCompounds(ctx context.Context, list []models.CompoundIngredient) ([]models.CompoundIngredient, int, error) {
	byID := make(map[string]int)
	out := make([]models.CompoundIngredient, 0, len(list))
	merged := 0

	for _, item := range list {
		i, seen := byID[item.EntityID]
		if !seen {
			byID[item.EntityID] = len(out)
			out = append(out, item)
			continue
		}
		result, err := merging.MergeCompound(out[i], item)
		if err != nil {
			return nil, 0, err
		}
		out[i] = result
		merged++
		if err := p.emitter.EmitIngredientMerged(ctx, item.EntityID, true); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit ingredient_merged event")
		}
	}
	return out, merged, nil
}

func (p *Processor) recipeLoader(file *models.DatasetFile) *loader.Loader {
	path, format := p.cfg.RecipesFilePath, p.cfg.RecipesFileFormat
	if file != nil {
		path, format = file.Path, file.Format
	}
	return loader.New(p.logger, path, loader.Format(format), loader.RecipeFields)
}

func (p *Processor) ingredientLoader(file *models.DatasetFile) *loader.Loader {
	path, format := p.cfg.IngredientsFilePath, p.cfg.IngredientsFileFormat
	if file != nil {
		path, format = file.Path, file.Format
	}
	return loader.New(p.logger, path, loader.Format(format), loader.IngredientFields)
}

func (p *Processor) compoundLoader(file *models.DatasetFile) *loader.Loader {
	path, format := p.cfg.CompoundIngredientsFilePath, p.cfg.CompoundIngredientsFormat
	if file != nil {
		path, format = file.Path, file.Format
	}
	return loader.New(p.logger, path, loader.Format(format), loader.CompoundIngredientFields)
}

func (p *Processor) relationLoader(file *models.DatasetFile) *loader.Loader {
	path, format := p.cfg.RelationsFilePath, p.cfg.RelationsFileFormat
	if file != nil {
		path, format = file.Path, file.Format
	}
	return loader.New(p.logger, path, loader.Format(format), loader.RelationFields)
}

// mapRecord applies a loader field table to a stream record. Stream
// records may carry partial fields, so missing keys are not an error.
func mapRecord(raw map[string]any, mapping []loader.FieldMap) loader.Record {
	rec := make(loader.Record, len(mapping))
	for _, fm := range mapping {
		if val, ok := raw[fm.Source]; ok {
			rec[fm.Target] = val
		}
	}
	return rec
}
