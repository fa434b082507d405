package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/flavorgraph/basil/pkg/models"
)

// NodeKind labels a network node as a recipe or an ingredient.
type NodeKind string

const (
	NodeRecipe     NodeKind = "recipe"
	NodeIngredient NodeKind = "ingredient"
)

// CentralityMeasure selects the centrality ranking algorithm.
type CentralityMeasure string

const (
	CentralityDegree    CentralityMeasure = "degree"
	CentralityCloseness CentralityMeasure = "closeness"
)

// Node is one node of the catalog network.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label"`
}

// Network is an in-memory bipartite graph of recipes and ingredients
// with one edge per linked (recipe, ingredient) pair. It is not safe
// for concurrent mutation.
type Network struct {
	nodes map[string]Node
	adj   map[string]map[string]bool
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		nodes: make(map[string]Node),
		adj:   make(map[string]map[string]bool),
	}
}

// BuildNetwork creates a network from linked recipes. Ingredient nodes
// are created on demand from the recipes' ingredient ids.
func BuildNetwork(recipes []models.Recipe) *Network {
	n := NewNetwork()
	for _, recipe := range recipes {
		n.AddNode(Node{ID: recipe.RecipeID, Kind: NodeRecipe, Label: recipe.Title})
		for _, entityID := range recipe.Ingredients {
			n.AddNode(Node{ID: entityID, Kind: NodeIngredient, Label: entityID})
			n.AddEdge(recipe.RecipeID, entityID)
		}
	}
	return n
}

// AddNode adds or replaces a node
func (n *Network) AddNode(node Node) {
	n.nodes[node.ID] = node
	if n.adj[node.ID] == nil {
		n.adj[node.ID] = make(map[string]bool)
	}
}

// AddEdge adds an undirected edge between two existing nodes. Unknown
// endpoints and self-edges are ignored.
func (n *Network) AddEdge(a, b string) {
	if a == b {
		return
	}
	if _, ok := n.nodes[a]; !ok {
		return
	}
	if _, ok := n.nodes[b]; !ok {
		return
	}
	n.adj[a][b] = true
	n.adj[b][a] = true
}

// NodeCount returns the number of nodes
func (n *Network) NodeCount() int {
	return len(n.nodes)
}

// EdgeCount returns the number of undirected edges
func (n *Network) EdgeCount() int {
	total := 0
	for _, neighbors := range n.adj {
		total += len(neighbors)
	}
	return total / 2
}

// Degree returns a node's degree, 0 for unknown nodes.
func (n *Network) Degree(id string) int {
	return len(n.adj[id])
}

// DegreeDistribution reports per-node degrees and a degree histogram.
type DegreeDistribution struct {
	Degrees   map[string]int `json:"degrees"`
	Histogram map[int]int    `json:"histogram"`
}

// DegreeDistribution computes the degree of every node and buckets the
// counts per degree value.
func (n *Network) DegreeDistribution() DegreeDistribution {
	degrees := make(map[string]int, len(n.nodes))
	histogram := make(map[int]int)
	for id := range n.nodes {
		d := len(n.adj[id])
		degrees[id] = d
		histogram[d]++
	}
	return DegreeDistribution{Degrees: degrees, Histogram: histogram}
}

// NodeCentrality is one node's rank entry.
type NodeCentrality struct {
	Node  Node    `json:"node"`
	Score float64 `json:"score"`
}

// TopNodesByCentrality ranks all nodes by the given measure and returns
// the top n. Ties break on node id for deterministic output.
func (n *Network) TopNodesByCentrality(measure CentralityMeasure, topN int) ([]NodeCentrality, error) {
	var score func(id string) float64
	switch measure {
	case CentralityDegree:
		score = n.degreeCentrality
	case CentralityCloseness:
		score = n.closenessCentrality
	default:
		return nil, fmt.Errorf("unknown centrality measure: %q", measure)
	}

	ranked := make([]NodeCentrality, 0, len(n.nodes))
	for id, node := range n.nodes {
		ranked = append(ranked, NodeCentrality{Node: node, Score: score(id)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Node.ID < ranked[j].Node.ID
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// degreeCentrality is degree normalized by the maximum possible degree.
func (n *Network) degreeCentrality(id string) float64 {
	if len(n.nodes) <= 1 {
		return 0
	}
	return float64(len(n.adj[id])) / float64(len(n.nodes)-1)
}

// closenessCentrality is the Wasserman-Faust closeness: the inverse
// average shortest-path distance over reachable nodes, scaled by the
// reachable fraction of the network. Computed with a BFS per node.
func (n *Network) closenessCentrality(id string) float64 {
	if len(n.nodes) <= 1 {
		return 0
	}

	distances := n.bfs(id)
	reachable := len(distances) - 1
	if reachable == 0 {
		return 0
	}

	sum := 0
	for _, d := range distances {
		sum += d
	}

	closeness := float64(reachable) / float64(sum)
	return closeness * float64(reachable) / float64(len(n.nodes)-1)
}

func (n *Network) bfs(start string) map[string]int {
	distances := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for neighbor := range n.adj[current] {
			if _, seen := distances[neighbor]; seen {
				continue
			}
			distances[neighbor] = distances[current] + 1
			queue = append(queue, neighbor)
		}
	}
	return distances
}

// snapshot is the serialized network form.
type snapshot struct {
	Nodes []Node      `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

// Save writes the network to path as JSON.
func (n *Network) Save(path string) error {
	snap := snapshot{
		Nodes: make([]Node, 0, len(n.nodes)),
		Edges: make([][2]string, 0),
	}
	for _, node := range n.nodes {
		snap.Nodes = append(snap.Nodes, node)
	}
	sort.Slice(snap.Nodes, func(i, j int) bool { return snap.Nodes[i].ID < snap.Nodes[j].ID })

	for a, neighbors := range n.adj {
		for b := range neighbors {
			if a < b {
				snap.Edges = append(snap.Edges, [2]string{a, b})
			}
		}
	}
	sort.Slice(snap.Edges, func(i, j int) bool {
		if snap.Edges[i][0] != snap.Edges[j][0] {
			return snap.Edges[i][0] < snap.Edges[j][0]
		}
		return snap.Edges[i][1] < snap.Edges[j][1]
	})

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize network: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write network snapshot: %w", err)
	}
	return nil
}

// LoadNetwork reads a network snapshot written by Save.
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse network snapshot: %w", err)
	}

	n := NewNetwork()
	for _, node := range snap.Nodes {
		n.AddNode(node)
	}
	for _, edge := range snap.Edges {
		n.AddEdge(edge[0], edge[1])
	}
	return n, nil
}
