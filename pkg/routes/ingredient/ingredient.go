package ingredient

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	ingredientrepo "github.com/flavorgraph/basil/internal/repositories/ingredient"
)

// Register registers ingredient routes
func Register(g *echo.Group) {
	g.GET("", ListIngredients)
	g.GET("/:id", GetIngredient)
}

// ListIngredients returns a page of ingredients
// @Summary List ingredients
// @Tags Ingredients
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50)"
// @Success 200 {object} models.IngredientListResponse
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/ingredients [get]
func ListIngredients(c echo.Context) error {
	ctx := c.Request().Context()

	page, pageSize := 1, 50
	_ = echo.QueryParamsBinder(c).Int("page", &page).Int("page_size", &pageSize).BindError()

	ctx, repo, err := ectoinject.GetContext[*ingredientrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	list, err := repo.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

// GetIngredient returns one ingredient
// @Summary Get an ingredient
// @Tags Ingredients
// @Produce json
// @Param id path string true "Ingredient entity ID"
// @Success 200 {object} models.IngredientRow
// @Failure 404 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/ingredients/{id} [get]
func GetIngredient(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "ingredient id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*ingredientrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	row, err := repo.GetByEntityID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, row)
}
