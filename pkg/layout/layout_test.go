package layout

import (
	"math"
	"testing"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/kgraph"
)

// pathWithCrossLinks builds a 10-node path with two extra cross edges, in
// the given edge order.
func pathWithCrossLinks(order []int) *kgraph.Graph {
	all := []kgraph.EdgeRecord{
		{Source: "n0", Target: "n1", Type: "rel"},
		{Source: "n1", Target: "n2", Type: "rel"},
		{Source: "n2", Target: "n3", Type: "rel"},
		{Source: "n3", Target: "n4", Type: "rel"},
		{Source: "n4", Target: "n5", Type: "rel"},
		{Source: "n5", Target: "n6", Type: "rel"},
		{Source: "n6", Target: "n7", Type: "rel"},
		{Source: "n7", Target: "n8", Type: "rel"},
		{Source: "n8", Target: "n9", Type: "rel"},
		{Source: "n0", Target: "n5", Type: "rel"},
		{Source: "n2", Target: "n8", Type: "rel"},
	}
	edges := make([]kgraph.EdgeRecord, len(all))
	for i, j := range order {
		edges[i] = all[j]
	}
	return kgraph.Build(edges, nil, 0, nil)
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func TestLayoutDimensions(t *testing.T) {
	g := pathWithCrossLinks(identityOrder(11))

	for _, dim := range []int{2, 3} {
		coords, err := Layout(g, Config{Dimensions: dim, Seed: DefaultSeed})
		if err != nil {
			t.Fatalf("Layout(dim=%d) error = %v", dim, err)
		}
		if len(coords) != g.NodeCount() {
			t.Errorf("dim=%d: len(coords) = %d, want %d", dim, len(coords), g.NodeCount())
		}
		for id, v := range coords {
			if len(v) != dim {
				t.Errorf("dim=%d: coords[%s] has %d components", dim, id, len(v))
			}
			for _, x := range v {
				if math.IsNaN(x) || math.IsInf(x, 0) {
					t.Errorf("dim=%d: coords[%s] contains %v", dim, id, x)
				}
			}
		}
	}
}

func TestLayoutInvalidDimensions(t *testing.T) {
	g := pathWithCrossLinks(identityOrder(11))
	for _, dim := range []int{0, 1, 4} {
		_, err := Layout(g, Config{Dimensions: dim})
		if !errors.Is(err, errors.ErrCodeInvalidDimensions) {
			t.Errorf("Layout(dim=%d) error = %v, want %s", dim, err, errors.ErrCodeInvalidDimensions)
		}
	}
}

func TestLayoutReproducible(t *testing.T) {
	g := pathWithCrossLinks(identityOrder(11))
	cfg := Config{Dimensions: 2, Seed: 7}

	a, err := Layout(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Layout(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for id := range a {
		for d := range a[id] {
			if a[id][d] != b[id][d] {
				t.Fatalf("coords[%s][%d] differ between identical runs: %v vs %v",
					id, d, a[id][d], b[id][d])
			}
		}
	}
}

func TestLayoutEdgeOrderIndependent(t *testing.T) {
	// Same topology, edges ingested in reversed order: coordinates must be
	// bit-identical.
	forward := pathWithCrossLinks(identityOrder(11))
	reversed := pathWithCrossLinks([]int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0})

	cfg := Config{Dimensions: 3, Seed: DefaultSeed}
	a, err := Layout(forward, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Layout(reversed, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for id := range a {
		for d := range a[id] {
			if a[id][d] != b[id][d] {
				t.Fatalf("coords[%s][%d] depend on edge order: %v vs %v",
					id, d, a[id][d], b[id][d])
			}
		}
	}
}

func TestLayoutSeedChangesResult(t *testing.T) {
	g := pathWithCrossLinks(identityOrder(11))

	a, _ := Layout(g, Config{Dimensions: 2, Seed: 1})
	b, _ := Layout(g, Config{Dimensions: 2, Seed: 2})

	same := true
	for id := range a {
		for d := range a[id] {
			if a[id][d] != b[id][d] {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical layouts")
	}
}

func TestLayoutDegenerateGraphs(t *testing.T) {
	empty := kgraph.Build(nil, nil, 0, nil)
	coords, err := Layout(empty, Config{Dimensions: 2})
	if err != nil {
		t.Fatalf("Layout(empty) error = %v", err)
	}
	if len(coords) != 0 {
		t.Errorf("len(coords) = %d, want 0", len(coords))
	}

	single := kgraph.Build([]kgraph.EdgeRecord{{Source: "a", Target: "a"}}, nil, 0, nil)
	coords, err = Layout(single, Config{Dimensions: 3})
	if err != nil {
		t.Fatalf("Layout(single) error = %v", err)
	}
	v, ok := coords["a"]
	if !ok || len(v) != 3 {
		t.Fatalf("coords[a] = %v, want 3D origin", v)
	}
	for _, x := range v {
		if x != 0 {
			t.Errorf("single node not at origin: %v", v)
		}
	}
}

func TestLayoutSpreadsConnectedNodes(t *testing.T) {
	g := pathWithCrossLinks(identityOrder(11))
	coords, err := Layout(g, Config{Dimensions: 2, Seed: DefaultSeed})
	if err != nil {
		t.Fatal(err)
	}

	// No two nodes should end up coincident after the simulation.
	ids := make([]string, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			dx := coords[ids[i]][0] - coords[ids[j]][0]
			dy := coords[ids[i]][1] - coords[ids[j]][1]
			if math.Hypot(dx, dy) < 1e-6 {
				t.Errorf("nodes %s and %s are coincident", ids[i], ids[j])
			}
		}
	}
}
