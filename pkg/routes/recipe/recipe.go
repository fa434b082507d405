package recipe

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	reciperepo "github.com/flavorgraph/basil/internal/repositories/recipe"
	relationrepo "github.com/flavorgraph/basil/internal/repositories/relation"
	similarityrepo "github.com/flavorgraph/basil/internal/repositories/similarity"
	"github.com/flavorgraph/basil/pkg/models"
)

// Register registers recipe routes
func Register(g *echo.Group) {
	g.GET("", ListRecipes)
	g.GET("/:id", GetRecipe)
	g.GET("/:id/similar", GetSimilarRecipes)
}

// ListRecipes returns a page of recipes
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50)"
// @Success 200 {object} models.RecipeListResponse
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/recipes [get]
func ListRecipes(c echo.Context) error {
	ctx := c.Request().Context()

	page, pageSize := 1, 50
	_ = echo.QueryParamsBinder(c).Int("page", &page).Int("page_size", &pageSize).BindError()

	ctx, repo, err := ectoinject.GetContext[*reciperepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	list, err := repo.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

// GetRecipe returns one recipe with its linked ingredient ids
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.RecipeDetail
// @Failure 404 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/recipes/{id} [get]
func GetRecipe(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "recipe id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*reciperepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	row, err := repo.GetByRecipeID(ctx, id)
	if err != nil {
		return err
	}

	ctx, relations, err := ectoinject.GetContext[*relationrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entityIDs, err := relations.ListForRecipe(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.RecipeDetail{
		RecipeRow:   *row,
		Ingredients: entityIDs,
	})
}

// GetSimilarRecipes returns the stored similar pairs for a recipe
// @Summary Get similar recipes
// @Description Returns the similar pairs from the latest similarity pass, best score first
// @Tags Recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {array} models.SimilarRecipeRow
// @Failure 404 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/recipes/{id}/similar [get]
func GetSimilarRecipes(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "recipe id is required")
	}

	ctx, recipes, err := ectoinject.GetContext[*reciperepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	// 404 for unknown recipes instead of an empty pair list.
	if _, err := recipes.GetByRecipeID(ctx, id); err != nil {
		return err
	}

	ctx, pairs, err := ectoinject.GetContext[*similarityrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := pairs.ListForRecipe(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, rows)
}
