package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/basil/pkg/models"
)

func sampleNetwork() *Network {
	return BuildNetwork([]models.Recipe{
		{RecipeID: "r1", Title: "Paella", Ingredients: []string{"e1", "e2"}},
		{RecipeID: "r2", Title: "Arroz", Ingredients: []string{"e1"}},
	})
}

func TestBuildNetwork(t *testing.T) {
	n := sampleNetwork()

	assert.Equal(t, 5, n.NodeCount())
	assert.Equal(t, 3, n.EdgeCount())
	assert.Equal(t, 2, n.Degree("r1"))
	assert.Equal(t, 2, n.Degree("e1"))
	assert.Equal(t, 1, n.Degree("e2"))
}

func TestAddEdge_IgnoresUnknownAndSelf(t *testing.T) {
	n := NewNetwork()
	n.AddNode(Node{ID: "a", Kind: NodeRecipe})
	n.AddEdge("a", "missing")
	n.AddEdge("a", "a")

	assert.Equal(t, 0, n.EdgeCount())
}

func TestDegreeDistribution(t *testing.T) {
	dist := sampleNetwork().DegreeDistribution()

	assert.Equal(t, 2, dist.Degrees["r1"])
	assert.Equal(t, 1, dist.Degrees["r2"])
	assert.Equal(t, map[int]int{1: 3, 2: 2}, dist.Histogram)
}

func TestTopNodesByCentrality_Degree(t *testing.T) {
	ranked, err := sampleNetwork().TopNodesByCentrality(CentralityDegree, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// e1 and r1 both have degree 2; ids break the tie.
	assert.Equal(t, "e1", ranked[0].Node.ID)
	assert.Equal(t, "r1", ranked[1].Node.ID)
	assert.InDelta(t, 0.5, ranked[0].Score, 1e-9)
}

func TestTopNodesByCentrality_Closeness(t *testing.T) {
	ranked, err := sampleNetwork().TopNodesByCentrality(CentralityCloseness, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	// e1 sits between both recipes and reaches everything within 2 hops.
	assert.Equal(t, "e1", ranked[0].Node.ID)
	assert.Greater(t, ranked[0].Score, 0.0)
}

func TestTopNodesByCentrality_UnknownMeasure(t *testing.T) {
	_, err := sampleNetwork().TopNodesByCentrality(CentralityMeasure("pagerank"), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown centrality measure")
}

func TestNetworkSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.json")

	original := sampleNetwork()
	require.NoError(t, original.Save(path))

	loaded, err := LoadNetwork(path)
	require.NoError(t, err)

	assert.Equal(t, original.NodeCount(), loaded.NodeCount())
	assert.Equal(t, original.EdgeCount(), loaded.EdgeCount())
	assert.Equal(t, original.DegreeDistribution(), loaded.DegreeDistribution())
}

func TestLoadNetwork_MissingFile(t *testing.T) {
	_, err := LoadNetwork(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
