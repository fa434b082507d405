// Package recipe persists recipe rows.
package recipe

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/flavorgraph/basil/pkg/database"
	"github.com/flavorgraph/basil/pkg/fingerprint"
	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/tracing"
)

var columns = []string{"recipe_id", "title", "source", "cuisine", "fingerprint", "created_at", "updated_at", "deleted_at"}

// Repository handles recipe persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertResult describes what an upsert did
type UpsertResult struct {
	Row       *models.RecipeRow
	IsNew     bool
	IsChanged bool
}

// Upsert inserts or updates a recipe row. Rows whose fingerprint has not
// changed are skipped.
func (r *Repository) Upsert(ctx context.Context, recipe models.Recipe) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "recipe.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"recipe_id": recipe.RecipeID,
	})

	fp := fingerprint.ForRecipe(recipe)
	now := time.Now().UTC()

	query := `
		INSERT INTO recipes (recipe_id, title, source, cuisine, fingerprint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (recipe_id) DO UPDATE SET
			title = EXCLUDED.title,
			source = EXCLUDED.source,
			cuisine = EXCLUDED.cuisine,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		WHERE recipes.fingerprint IS DISTINCT FROM EXCLUDED.fingerprint
			OR recipes.deleted_at IS NOT NULL
		RETURNING recipe_id, title, source, cuisine, fingerprint, created_at, updated_at, deleted_at,
			(xmax = 0) AS inserted
	`

	var result struct {
		models.RecipeRow
		Inserted bool `db:"inserted"`
	}

	err := r.db.GetContext(ctx, &result, query,
		recipe.RecipeID, recipe.Title, recipe.Source, recipe.Cuisine, fp, now, now,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// Fingerprint matched an existing live row; nothing to do.
		return &UpsertResult{IsNew: false, IsChanged: false}, nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to upsert recipe")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert recipe")
	}

	return &UpsertResult{Row: &result.RecipeRow, IsNew: result.Inserted, IsChanged: true}, nil
}

// GetByRecipeID returns one live recipe row
func (r *Repository) GetByRecipeID(ctx context.Context, recipeID string) (*models.RecipeRow, error) {
	ctx, span := tracing.StartSpan(ctx, "recipe.Repository.GetByRecipeID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("recipes")
	sb.Where(
		sb.Equal("recipe_id", recipeID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var row models.RecipeRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "recipe %s not found", recipeID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"recipe_id": recipeID}).Error("Failed to get recipe")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get recipe")
	}
	return &row, nil
}

// List returns a page of live recipe rows ordered by recipe id
func (r *Repository) List(ctx context.Context, page, pageSize int) (*models.RecipeListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "recipe.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("recipes")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("recipe_id")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	var rows []models.RecipeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list recipes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list recipes")
	}

	count, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.RecipeListResponse{
		Items:      rows,
		TotalCount: count,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ListAll returns every live recipe row. Used by the analysis passes,
// which need the full catalog in memory.
func (r *Repository) ListAll(ctx context.Context) ([]models.RecipeRow, error) {
	ctx, span := tracing.StartSpan(ctx, "recipe.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("recipes")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("recipe_id")

	query, args := sb.Build()
	var rows []models.RecipeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list all recipes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list recipes")
	}
	return rows, nil
}

// Count returns the number of live recipe rows
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "recipe.Repository.Count")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("recipes")
	sb.Where(sb.IsNull("deleted_at"))

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count recipes")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count recipes")
	}
	return count, nil
}
