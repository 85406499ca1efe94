package source

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/graphscape/graphscape/pkg/errors"
)

// DefaultNeo4jQuery fetches every relationship with its endpoint names and
// type under the canonical column names, so no synonym mapping is needed.
const DefaultNeo4jQuery = `MATCH (a)-[r]->(b)
RETURN coalesce(a.name, elementId(a)) AS source,
       coalesce(b.name, elementId(b)) AS target,
       type(r) AS type`

// Neo4jSource reads relationship rows from a Neo4j (or Bolt-compatible,
// e.g. Memgraph) database.
type Neo4jSource struct {
	URI      string
	Username string
	Password string
	// Query overrides DefaultNeo4jQuery. Each returned record becomes one
	// row keyed by its return aliases.
	Query string
}

// Name implements Source.
func (n *Neo4jSource) Name() string { return "neo4j:" + n.URI }

// Read implements Source.
func (n *Neo4jSource) Read(ctx context.Context) (Table, error) {
	driver, err := neo4j.NewDriverWithContext(n.URI, neo4j.BasicAuth(n.Username, n.Password, ""))
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err,
			"failed to create neo4j driver for %s", n.URI)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err,
			"failed to connect to neo4j at %s", n.URI)
	}

	query := n.Query
	if query == "" {
		query = DefaultNeo4jQuery
	}

	result, err := neo4j.ExecuteQuery(ctx, driver, query, nil, neo4j.EagerResultTransformer)
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeSourceUnavailable, err,
			"neo4j query failed")
	}

	rows := make([]Row, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, Row(record.AsMap()))
	}

	return Table{Name: n.Name(), Rows: rows}, nil
}
