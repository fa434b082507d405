// Package similarity persists computed similar-recipe pairs.
package similarity

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/flavorgraph/basil/pkg/database"
	"github.com/flavorgraph/basil/pkg/models"
	similaritypkg "github.com/flavorgraph/basil/pkg/similarity"
	"github.com/flavorgraph/basil/pkg/tracing"
)

var columns = []string{"id", "recipe_a", "recipe_b", "title_a", "title_b", "score", "shared_count", "threshold", "computed_at"}

// Repository handles similar-pair persistence
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

// ReplaceAll replaces the stored pairs with the results of a new
// similarity pass. Pairs are stored once per unordered pair.
func (r *Repository) ReplaceAll(ctx context.Context, pairs []similaritypkg.Pair, threshold float64) error {
	ctx, span := tracing.StartSpan(ctx, "similarity.Repository.ReplaceAll")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"pair_count": len(pairs),
		"threshold":  threshold,
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.ExecContext(ctx, "DELETE FROM similar_recipes"); err != nil {
		log.WithError(err).Error("Failed to clear similar pairs")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace similar pairs")
	}

	if len(pairs) > 0 {
		now := time.Now().UTC()
		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto("similar_recipes")
		ib.Cols(columns...)
		for _, pair := range pairs {
			ib.Values(uuid.New().String(), pair.RecipeA, pair.RecipeB, pair.TitleA, pair.TitleB,
				pair.Score, pair.SharedCount, threshold, now)
		}

		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.WithError(err).Error("Failed to insert similar pairs")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace similar pairs")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Error("Failed to commit similar pairs")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace similar pairs")
	}
	return nil
}

// ListForRecipe returns the stored pairs touching a recipe, best score
// first. Both directions of the unordered pair are matched.
func (r *Repository) ListForRecipe(ctx context.Context, recipeID string) ([]models.SimilarRecipeRow, error) {
	ctx, span := tracing.StartSpan(ctx, "similarity.Repository.ListForRecipe")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("similar_recipes")
	sb.Where(sb.Or(
		sb.Equal("recipe_a", recipeID),
		sb.Equal("recipe_b", recipeID),
	))
	sb.OrderBy("score DESC", "recipe_a", "recipe_b")

	query, args := sb.Build()
	var rows []models.SimilarRecipeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"recipe_id": recipeID}).Error("Failed to list similar pairs for recipe")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list similar pairs")
	}
	return rows, nil
}

// ListAll returns every stored pair, best score first
func (r *Repository) ListAll(ctx context.Context) ([]models.SimilarRecipeRow, error) {
	ctx, span := tracing.StartSpan(ctx, "similarity.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("similar_recipes")
	sb.OrderBy("score DESC", "recipe_a", "recipe_b")

	query, args := sb.Build()
	var rows []models.SimilarRecipeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list similar pairs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list similar pairs")
	}
	return rows, nil
}
