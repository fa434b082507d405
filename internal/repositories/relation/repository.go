// Package relation persists the recipe-to-ingredient join rows.
package relation

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/flavorgraph/basil/pkg/database"
	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// Repository handles recipe_ingredients persistence
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

// ReplaceForRecipe replaces a recipe's join rows with the given entity
// ids, positions following list order. Duplicate ids get distinct
// positions so the original relation order round-trips.
func (r *Repository) ReplaceForRecipe(ctx context.Context, recipeID string, entityIDs []string) error {
	ctx, span := tracing.StartSpan(ctx, "relation.Repository.ReplaceForRecipe")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"recipe_id":      recipeID,
		"relation_count": len(entityIDs),
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = $1", recipeID); err != nil {
		log.WithError(err).Error("Failed to clear recipe relations")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace recipe relations")
	}

	if len(entityIDs) > 0 {
		now := time.Now().UTC()
		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto("recipe_ingredients")
		ib.Cols("recipe_id", "entity_id", "position", "created_at")
		for position, entityID := range entityIDs {
			ib.Values(recipeID, entityID, position, now)
		}

		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.WithError(err).Error("Failed to insert recipe relations")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace recipe relations")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Error("Failed to commit recipe relations")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace recipe relations")
	}
	return nil
}

// ListForRecipe returns a recipe's ingredient ids in position order
func (r *Repository) ListForRecipe(ctx context.Context, recipeID string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "relation.Repository.ListForRecipe")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("entity_id")
	sb.From("recipe_ingredients")
	sb.Where(sb.Equal("recipe_id", recipeID))
	sb.OrderBy("position")

	query, args := sb.Build()
	var entityIDs []string
	if err := r.db.SelectContext(ctx, &entityIDs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"recipe_id": recipeID}).Error("Failed to list recipe relations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list recipe relations")
	}
	return entityIDs, nil
}

// ListAll returns every join row in (recipe_id, position) order
func (r *Repository) ListAll(ctx context.Context) ([]models.RecipeIngredientRow, error) {
	ctx, span := tracing.StartSpan(ctx, "relation.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("recipe_id", "entity_id", "position", "created_at")
	sb.From("recipe_ingredients")
	sb.OrderBy("recipe_id", "position")

	query, args := sb.Build()
	var rows []models.RecipeIngredientRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list relations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list relations")
	}
	return rows, nil
}

// Count returns the number of join rows
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "relation.Repository.Count")
	defer span.End()

	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM recipe_ingredients"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count relations")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count relations")
	}
	return count, nil
}
