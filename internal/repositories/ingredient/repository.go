// Package ingredient persists ingredient rows, plain and compound.
package ingredient

import (
	"context"
	"database/sql"
	"encoding/json"
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

var columns = []string{"entity_id", "original_name", "aliased_name", "category", "synonyms", "constituents", "is_compound", "fingerprint", "created_at", "updated_at", "deleted_at"}

// Repository handles ingredient persistence
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
	Row       *models.IngredientRow
	IsNew     bool
	IsChanged bool
}

// Upsert inserts or updates an ingredient row. Pass nil constituents for
// plain ingredients. Rows whose fingerprint has not changed are skipped.
func (r *Repository) Upsert(ctx context.Context, ingredient models.Ingredient, constituents []string) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "ingredient.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"entity_id": ingredient.EntityID,
	})

	fp := fingerprint.ForIngredient(ingredient, constituents)
	now := time.Now().UTC()

	synonyms, err := json.Marshal(orEmpty(ingredient.Synonyms))
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid ingredient synonyms")
	}
	constituentsJSON, err := json.Marshal(orEmpty(constituents))
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid ingredient constituents")
	}

	query := `
		INSERT INTO ingredients (entity_id, original_name, aliased_name, category, synonyms, constituents, is_compound, fingerprint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (entity_id) DO UPDATE SET
			original_name = EXCLUDED.original_name,
			aliased_name = EXCLUDED.aliased_name,
			category = EXCLUDED.category,
			synonyms = EXCLUDED.synonyms,
			constituents = EXCLUDED.constituents,
			is_compound = EXCLUDED.is_compound,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		WHERE ingredients.fingerprint IS DISTINCT FROM EXCLUDED.fingerprint
			OR ingredients.deleted_at IS NOT NULL
		RETURNING entity_id, original_name, aliased_name, category, synonyms, constituents, is_compound, fingerprint, created_at, updated_at, deleted_at,
			(xmax = 0) AS inserted
	`

	var result struct {
		dao
		Inserted bool `db:"inserted"`
	}

	err = r.db.GetContext(ctx, &result, query,
		ingredient.EntityID, ingredient.OriginalName, ingredient.AliasedName, ingredient.Category,
		synonyms, constituentsJSON, len(constituents) > 0, fp, now, now,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &UpsertResult{IsNew: false, IsChanged: false}, nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to upsert ingredient")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert ingredient")
	}

	row := result.toRow()
	return &UpsertResult{Row: &row, IsNew: result.Inserted, IsChanged: true}, nil
}

// GetByEntityID returns one live ingredient row
func (r *Repository) GetByEntityID(ctx context.Context, entityID string) (*models.IngredientRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ingredient.Repository.GetByEntityID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("ingredients")
	sb.Where(
		sb.Equal("entity_id", entityID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var d dao
	err := r.db.GetContext(ctx, &d, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "ingredient %s not found", entityID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"entity_id": entityID}).Error("Failed to get ingredient")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ingredient")
	}
	row := d.toRow()
	return &row, nil
}

// GetByEntityIDs returns the live rows for the given ids, in id order.
func (r *Repository) GetByEntityIDs(ctx context.Context, entityIDs []string) ([]models.IngredientRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ingredient.Repository.GetByEntityIDs")
	defer span.End()

	if len(entityIDs) == 0 {
		return []models.IngredientRow{}, nil
	}

	ids := make([]any, len(entityIDs))
	for i, id := range entityIDs {
		ids[i] = id
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("ingredients")
	sb.Where(
		sb.In("entity_id", ids...),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("entity_id")

	query, args := sb.Build()
	var daos []dao
	if err := r.db.SelectContext(ctx, &daos, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get ingredients by ids")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ingredients")
	}
	return toRows(daos), nil
}

// List returns a page of live ingredient rows ordered by entity id
func (r *Repository) List(ctx context.Context, page, pageSize int) (*models.IngredientListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "ingredient.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("ingredients")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("entity_id")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	var daos []dao
	if err := r.db.SelectContext(ctx, &daos, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list ingredients")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list ingredients")
	}

	count, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.IngredientListResponse{
		Items:      toRows(daos),
		TotalCount: count,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Count returns the number of live ingredient rows
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "ingredient.Repository.Count")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("ingredients")
	sb.Where(sb.IsNull("deleted_at"))

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count ingredients")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count ingredients")
	}
	return count, nil
}

// orEmpty keeps JSONB columns as [] instead of null.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
