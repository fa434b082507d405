package dataset

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/flavorgraph/basil/pkg/errors"
	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/processor"
)

// Register registers dataset routes
func Register(g *echo.Group) {
	g.POST("", LoadDataset)
}

// LoadDataset loads the catalog source files
// @Summary Load a dataset
// @Description Load recipes, ingredients, compound ingredients and relations from the configured source files
// @Tags Datasets
// @Accept json
// @Produce json
// @Param body body models.LoadDatasetRequest false "Optional source file overrides"
// @Success 200 {object} models.DatasetSummary
// @Failure 400 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/datasets [post]
func LoadDataset(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LoadDatasetRequest
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

	summary, err := proc.LoadDataset(ctx, req)
	if err != nil {
		if errors.IsUnsupportedFormat(err) || errors.IsMissingKey(err) || errors.IsIdentityMismatch(err) {
			return httperror.NewHTTPErrorf(http.StatusBadRequest, "%v", err)
		}
		return err
	}

	return c.JSON(http.StatusOK, summary)
}
