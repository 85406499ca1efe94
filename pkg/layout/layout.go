// Package layout computes deterministic force-directed node positions.
//
// The engine implements a Fruchterman-Reingold spring-electrical model over
// a fixed iteration schedule. Determinism is a contract, not an accident:
// initial positions are derived per node from a hash of (seed, node ID),
// and the simulation visits nodes and edges in lexicographic ID order, so
// the resulting coordinates depend only on the graph topology and the seed.
// Two graphs with the same nodes and edges produce bit-identical layouts
// regardless of the order their edges were ingested in.
package layout

import (
	"hash/fnv"
	"math"
	"sort"
	"strconv"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/kgraph"
)

// Default iteration counts. 3D layouts settle faster because the extra
// dimension relieves crowding.
const (
	DefaultIterations2D = 100
	DefaultIterations3D = 70
)

// DefaultSeed is the layout seed used when the caller does not choose one.
const DefaultSeed = 42

// convergenceFactor stops the simulation early once the largest node
// displacement in an iteration drops below this fraction of the ideal
// spring length.
const convergenceFactor = 1e-3

// minDistance guards force terms against division by zero for coincident
// nodes.
const minDistance = 1e-9

// Config controls one layout run.
type Config struct {
	// Dimensions is 2 or 3.
	Dimensions int `json:"dimensions"`
	// Seed selects the deterministic starting arrangement.
	Seed int64 `json:"seed"`
	// Iterations bounds the simulation; 0 selects the per-dimension default.
	Iterations int `json:"iterations"`
}

// Coordinates maps node IDs to position vectors of Config.Dimensions length.
type Coordinates map[string][]float64

// Layout positions every node of the graph.
//
// An empty graph yields an empty map; a single node sits at the origin. The
// returned coordinates never contain NaN or Inf.
func Layout(g *kgraph.Graph, cfg Config) (Coordinates, error) {
	if cfg.Dimensions != 2 && cfg.Dimensions != 3 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions,
			"layout dimensions must be 2 or 3, got %d", cfg.Dimensions)
	}

	iterations := cfg.Iterations
	if iterations <= 0 {
		if cfg.Dimensions == 3 {
			iterations = DefaultIterations3D
		} else {
			iterations = DefaultIterations2D
		}
	}

	n := g.NodeCount()
	coords := make(Coordinates, n)
	if n == 0 {
		return coords, nil
	}

	// Lexicographic node order fixes the force summation order.
	ids := make([]string, 0, n)
	for _, node := range g.Nodes() {
		ids = append(ids, node.ID)
	}
	sort.Strings(ids)

	if n == 1 {
		coords[ids[0]] = make([]float64, cfg.Dimensions)
		return coords, nil
	}

	dim := cfg.Dimensions
	pos := make([][]float64, n)
	for i, id := range ids {
		pos[i] = initialPosition(cfg.Seed, id, dim)
	}

	// Ideal spring length. The exponent trades crowding against spread and
	// matches the constants the renderer's visual scale is tuned for.
	var k float64
	if dim == 3 {
		k = 3.0 / math.Pow(float64(n), 0.4)
	} else {
		k = 0.5 / math.Sqrt(float64(n))
	}

	springs := springPairs(g, ids)

	// Linear cooling from a tenth of the layout extent.
	temperature := 0.1
	cooling := temperature / float64(iterations+1)
	threshold := convergenceFactor * k

	disp := make([][]float64, n)
	for i := range disp {
		disp[i] = make([]float64, dim)
	}
	delta := make([]float64, dim)

	for iter := 0; iter < iterations; iter++ {
		for i := range disp {
			for d := 0; d < dim; d++ {
				disp[i][d] = 0
			}
		}

		// Repulsion between every node pair.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dist := separation(pos[i], pos[j], ids[i], ids[j], delta)
				force := k * k / dist
				for d := 0; d < dim; d++ {
					push := delta[d] / dist * force
					disp[i][d] += push
					disp[j][d] -= push
				}
			}
		}

		// Attraction along edges.
		for _, s := range springs {
			dist := separation(pos[s.a], pos[s.b], ids[s.a], ids[s.b], delta)
			force := dist * dist / k
			for d := 0; d < dim; d++ {
				pull := delta[d] / dist * force
				disp[s.a][d] -= pull
				disp[s.b][d] += pull
			}
		}

		// Apply displacements capped by the current temperature.
		maxMove := 0.0
		for i := 0; i < n; i++ {
			length := norm(disp[i])
			if length < minDistance {
				continue
			}
			move := math.Min(length, temperature)
			for d := 0; d < dim; d++ {
				pos[i][d] += disp[i][d] / length * move
			}
			if move > maxMove {
				maxMove = move
			}
		}

		temperature -= cooling
		if maxMove < threshold {
			break
		}
	}

	for i, id := range ids {
		v := make([]float64, dim)
		for d := 0; d < dim; d++ {
			val := pos[i][d]
			if math.IsNaN(val) || math.IsInf(val, 0) {
				val = 0
			}
			v[d] = val
		}
		coords[id] = v
	}
	return coords, nil
}

// spring is an attractive pair referenced by sorted-slice index.
type spring struct{ a, b int }

// springPairs converts graph edges to index pairs, dropping self-loops and
// ordering the pairs lexicographically so the attraction pass is stable.
func springPairs(g *kgraph.Graph, ids []string) []spring {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	springs := make([]spring, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		if e.Source == e.Target {
			continue
		}
		springs = append(springs, spring{a: rank[e.Source], b: rank[e.Target]})
	}
	sort.Slice(springs, func(i, j int) bool {
		if springs[i].a != springs[j].a {
			return springs[i].a < springs[j].a
		}
		return springs[i].b < springs[j].b
	})
	return springs
}

// separation fills delta with pi - pj and returns the distance. Coincident
// nodes get a deterministic jitter direction derived from their IDs so the
// force terms never divide by zero.
func separation(pi, pj []float64, idI, idJ string, delta []float64) float64 {
	dist := 0.0
	for d := range delta {
		delta[d] = pi[d] - pj[d]
		dist += delta[d] * delta[d]
	}
	dist = math.Sqrt(dist)
	if dist >= minDistance {
		return dist
	}
	jitter := initialPosition(0, idI+"\x00"+idJ, len(delta))
	for d := range delta {
		delta[d] = jitter[d] - 0.5
	}
	dist = norm(delta)
	if dist < minDistance {
		delta[0] = 1
		for d := 1; d < len(delta); d++ {
			delta[d] = 0
		}
		dist = 1
	}
	return dist
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// initialPosition derives a starting coordinate in [0,1) per axis from an
// FNV-1a hash of the seed, the node ID, and the axis index.
func initialPosition(seed int64, id string, dim int) []float64 {
	v := make([]float64, dim)
	for d := 0; d < dim; d++ {
		h := fnv.New64a()
		h.Write([]byte(strconv.FormatInt(seed, 10)))
		h.Write([]byte{0})
		h.Write([]byte(id))
		h.Write([]byte{0, byte(d)})
		// 53 bits of hash to a float in [0,1).
		v[d] = float64(h.Sum64()>>11) / float64(1<<53)
	}
	return v
}
