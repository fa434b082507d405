package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// CatalogService mirrors the recipe catalog into the graph database:
// Recipe and Ingredient nodes with CONTAINS edges between them.
type CatalogService struct {
	client *Client
	logger ectologger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client *Client, logger ectologger.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: logger,
	}
}

// UpsertRecipe creates or updates a recipe node
func (s *CatalogService) UpsertRecipe(ctx context.Context, recipe models.Recipe) error {
	ctx, span := tracing.StartSpan(ctx, "graph.CatalogService.UpsertRecipe")
	defer span.End()

	cypher := `
		MERGE (r:Recipe {recipe_id: $recipe_id})
		SET r.title = $title, r.source = $source, r.cuisine = $cuisine
		RETURN r
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"recipe_id": recipe.RecipeID,
			"title":     recipe.Title,
			"source":    recipe.Source,
			"cuisine":   recipe.Cuisine,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"recipe_id": recipe.RecipeID,
		}).Error("Failed to upsert recipe node")
		return fmt.Errorf("failed to upsert recipe node: %w", err)
	}

	return nil
}

// UpsertIngredient creates or updates an ingredient node
func (s *CatalogService) UpsertIngredient(ctx context.Context, ingredient models.Ingredient, isCompound bool) error {
	ctx, span := tracing.StartSpan(ctx, "graph.CatalogService.UpsertIngredient")
	defer span.End()

	cypher := `
		MERGE (i:Ingredient {entity_id: $entity_id})
		SET i.name = $name, i.category = $category, i.is_compound = $is_compound
		RETURN i
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"entity_id":   ingredient.EntityID,
			"name":        ingredient.AliasedName,
			"category":    ingredient.Category,
			"is_compound": isCompound,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"entity_id": ingredient.EntityID,
		}).Error("Failed to upsert ingredient node")
		return fmt.Errorf("failed to upsert ingredient node: %w", err)
	}

	return nil
}

// LinkRecipe replaces a recipe's CONTAINS edges with edges to the given
// ingredient ids, keeping the relation order as a position property.
func (s *CatalogService) LinkRecipe(ctx context.Context, recipeID string, entityIDs []string) error {
	ctx, span := tracing.StartSpan(ctx, "graph.CatalogService.LinkRecipe")
	defer span.End()

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		clear := `
			MATCH (r:Recipe {recipe_id: $recipe_id})-[c:CONTAINS]->()
			DELETE c
		`
		if _, err := tx.Run(ctx, clear, map[string]any{"recipe_id": recipeID}); err != nil {
			return nil, err
		}

		link := `
			MATCH (r:Recipe {recipe_id: $recipe_id})
			MERGE (i:Ingredient {entity_id: $entity_id})
			MERGE (r)-[c:CONTAINS]->(i)
			SET c.position = $position
		`
		for position, entityID := range entityIDs {
			if _, err := tx.Run(ctx, link, map[string]any{
				"recipe_id": recipeID,
				"entity_id": entityID,
				"position":  position,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})

	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"recipe_id":        recipeID,
			"ingredient_count": len(entityIDs),
		}).Error("Failed to link recipe in graph")
		return fmt.Errorf("failed to link recipe in graph: %w", err)
	}

	return nil
}

// SyncCatalog mirrors a full dataset load into the graph
func (s *CatalogService) SyncCatalog(ctx context.Context, recipes []models.Recipe, ingredients []models.Ingredient, compounds []models.CompoundIngredient) error {
	ctx, span := tracing.StartSpan(ctx, "graph.CatalogService.SyncCatalog")
	defer span.End()

	for _, ingredient := range ingredients {
		if err := s.UpsertIngredient(ctx, ingredient, false); err != nil {
			return err
		}
	}
	for _, compound := range compounds {
		if err := s.UpsertIngredient(ctx, compound.Ingredient, true); err != nil {
			return err
		}
	}
	for _, recipe := range recipes {
		if err := s.UpsertRecipe(ctx, recipe); err != nil {
			return err
		}
		if len(recipe.Ingredients) > 0 {
			if err := s.LinkRecipe(ctx, recipe.RecipeID, recipe.Ingredients); err != nil {
				return err
			}
		}
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"recipe_count":     len(recipes),
		"ingredient_count": len(ingredients) + len(compounds),
	}).Info("Synced catalog to graph")

	return nil
}
