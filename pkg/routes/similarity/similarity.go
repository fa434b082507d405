package similarity

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	similarityrepo "github.com/flavorgraph/basil/internal/repositories/similarity"
	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/processor"
)

// Register registers similarity routes
func Register(g *echo.Group) {
	g.POST("", ComputeSimilarity)
	g.GET("", ListSimilarPairs)
}

// ComputeSimilarity runs a similarity pass over the persisted catalog
// @Summary Compute recipe similarity
// @Description Compares every recipe pair by ingredient-set overlap and stores the pairs above the threshold
// @Tags Similarity
// @Accept json
// @Produce json
// @Param body body models.ComputeSimilarityRequest false "Optional threshold override"
// @Success 200 {object} models.ComputeSimilarityResponse
// @Failure 400 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/similarity [post]
func ComputeSimilarity(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ComputeSimilarityRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %v", err)
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := proc.ComputeSimilarity(ctx, req.Threshold)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ListSimilarPairs returns every stored similar pair
// @Summary List similar pairs
// @Tags Similarity
// @Produce json
// @Success 200 {array} models.SimilarRecipeRow
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/similarity [get]
func ListSimilarPairs(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*similarityrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, rows)
}
