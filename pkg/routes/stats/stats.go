package stats

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/flavorgraph/basil/pkg/processor"
	statspkg "github.com/flavorgraph/basil/pkg/stats"
)

// Register registers statistics routes
func Register(g *echo.Group) {
	g.GET("/uncommon", GetUncommonIngredients)
	g.GET("/popular", GetPopularIngredients)
}

// UncommonIngredientsResponse is the uncommon-ingredient report
type UncommonIngredientsResponse struct {
	Threshold   int      `json:"threshold"`
	Ingredients []string `json:"ingredients"`
}

// GetUncommonIngredients returns ingredient names that appear fewer
// than threshold times across the catalog
// @Summary Detect uncommon ingredients
// @Tags Stats
// @Produce json
// @Param threshold query int false "Occurrence threshold (default 5)"
// @Success 200 {object} UncommonIngredientsResponse
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/stats/uncommon [get]
func GetUncommonIngredients(c echo.Context) error {
	ctx := c.Request().Context()

	threshold := 0
	_ = echo.QueryParamsBinder(c).Int("threshold", &threshold).BindError()

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, analyzer, err := ectoinject.GetContext[*statspkg.Analyzer](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := proc.StatsRows(ctx)
	if err != nil {
		return err
	}

	uncommon := analyzer.DetectUncommonIngredients(ctx, rows, threshold)

	return c.JSON(http.StatusOK, UncommonIngredientsResponse{
		Threshold:   threshold,
		Ingredients: uncommon,
	})
}

// GetPopularIngredients returns per-cuisine rankings and the
// ingredients common to every cuisine
// @Summary Rank popular and common ingredients
// @Tags Stats
// @Produce json
// @Success 200 {object} statspkg.PopularityResult
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/stats/popular [get]
func GetPopularIngredients(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, analyzer, err := ectoinject.GetContext[*statspkg.Analyzer](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := proc.StatsRows(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analyzer.DetectCommonAndPopularIngredients(ctx, rows))
}
