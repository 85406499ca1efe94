package source

import "github.com/graphscape/graphscape/pkg/kgraph"

// placeholderEdgeSet synthesizes a small deterministic sample graph used
// when no configured source can be read: a 10-node path plus a handful of
// cross links, enough to exercise layout, styling, and legends.
func placeholderEdgeSet() EdgeSet {
	nodes := []struct {
		id, name, category string
	}{
		{"sample-01", "Ada Lovelace", "person"},
		{"sample-02", "Analytical Engine", "artifact"},
		{"sample-03", "Charles Babbage", "person"},
		{"sample-04", "London", "location"},
		{"sample-05", "Royal Society", "organization"},
		{"sample-06", "Notes on the Engine", "document"},
		{"sample-07", "Luigi Menabrea", "person"},
		{"sample-08", "Turin", "location"},
		{"sample-09", "Difference Engine", "artifact"},
		{"sample-10", "Mathematics", "concept"},
	}

	set := EdgeSet{Placeholder: true}
	for _, n := range nodes {
		set.NodeAttrs = append(set.NodeAttrs, kgraph.NodeRecord{
			ID:    n.id,
			Attrs: kgraph.Attrs{"name": n.name, "category": n.category},
		})
	}

	// Path through all ten nodes.
	for i := 0; i < len(nodes)-1; i++ {
		set.Edges = append(set.Edges, kgraph.EdgeRecord{
			Source: nodes[i].id,
			Target: nodes[i+1].id,
			Type:   "related_to",
			Attrs:  kgraph.Attrs{},
		})
	}

	// Cross links for visual interest.
	cross := []struct {
		src, dst, typ string
	}{
		{"sample-01", "sample-06", "authored"},
		{"sample-03", "sample-09", "designed"},
		{"sample-03", "sample-05", "member_of"},
		{"sample-07", "sample-06", "translated"},
		{"sample-05", "sample-04", "located_in"},
		{"sample-01", "sample-10", "studied"},
	}
	for _, e := range cross {
		set.Edges = append(set.Edges, kgraph.EdgeRecord{
			Source: e.src,
			Target: e.dst,
			Type:   e.typ,
			Attrs:  kgraph.Attrs{},
		})
	}

	return set
}
