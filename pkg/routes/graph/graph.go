package graph

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	graphpkg "github.com/flavorgraph/basil/pkg/graph"
	"github.com/flavorgraph/basil/pkg/processor"
)

// Register registers the network analysis routes
func Register(g *echo.Group) {
	g.GET("/degrees", GetDegreeDistribution)
	g.GET("/centrality", GetCentrality)
}

// DegreeDistributionResponse is the degree report for the catalog network
type DegreeDistributionResponse struct {
	NodeCount int            `json:"node_count"`
	EdgeCount int            `json:"edge_count"`
	Degrees   map[string]int `json:"degrees"`
	Histogram map[int]int    `json:"histogram"`
}

// GetDegreeDistribution builds the recipe-ingredient network and reports
// per-node degrees with a degree histogram
// @Summary Network degree distribution
// @Tags Graph
// @Produce json
// @Success 200 {object} DegreeDistributionResponse
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/graph/degrees [get]
func GetDegreeDistribution(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	network, err := proc.BuildNetwork(ctx)
	if err != nil {
		return err
	}

	dist := network.DegreeDistribution()

	return c.JSON(http.StatusOK, DegreeDistributionResponse{
		NodeCount: network.NodeCount(),
		EdgeCount: network.EdgeCount(),
		Degrees:   dist.Degrees,
		Histogram: dist.Histogram,
	})
}

// CentralityResponse is a centrality ranking over the catalog network
type CentralityResponse struct {
	Measure string                    `json:"measure"`
	Nodes   []graphpkg.NodeCentrality `json:"nodes"`
}

// GetCentrality ranks network nodes by the requested centrality measure
// @Summary Network centrality ranking
// @Description Ranks recipes and ingredients by degree or closeness centrality
// @Tags Graph
// @Produce json
// @Param measure query string false "Centrality measure: degree or closeness (default degree)"
// @Param n query int false "Number of nodes to return (default 10)"
// @Success 200 {object} CentralityResponse
// @Failure 400 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/graph/centrality [get]
func GetCentrality(c echo.Context) error {
	ctx := c.Request().Context()

	measure := string(graphpkg.CentralityDegree)
	topN := 10
	_ = echo.QueryParamsBinder(c).String("measure", &measure).Int("n", &topN).BindError()

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	network, err := proc.BuildNetwork(ctx)
	if err != nil {
		return err
	}

	nodes, err := network.TopNodesByCentrality(graphpkg.CentralityMeasure(measure), topN)
	if err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "%v", err)
	}

	return c.JSON(http.StatusOK, CentralityResponse{
		Measure: measure,
		Nodes:   nodes,
	})
}
