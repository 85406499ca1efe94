// Package pkg provides the core libraries for Graphscape knowledge-graph
// visualization.
//
// # Overview
//
// Graphscape turns heterogeneous edge tables into interactive graph
// visualizations. The pkg directory is organized along the pipeline:
//
//  1. [source] - Ingestion (CSV, Parquet, Neo4j) and schema normalization
//  2. [kgraph] - The directed graph model with node attributes
//  3. [layout] - Deterministic force-directed 2D/3D layout
//  4. [style] / [geometry] - Color, size, and curved-edge computation
//  5. [scene] - Renderable scene assembly and artifact output
//  6. [pipeline] - Orchestration with content-addressed caching
//
// # Architecture
//
// The typical data flow through Graphscape:
//
//	CSV / Parquet / Neo4j tables
//	         ↓
//	    [source] package (normalize into an edge set)
//	         ↓
//	    [kgraph] package (directed graph + degrees + legends)
//	         ↓
//	    [layout] package (deterministic coordinates)
//	         ↓
//	    [scene] package (styling + geometry + artifacts)
//	         ↓
//	    HTML/JSON/SVG/PNG/DOT/CSV output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sources: []source.Source{&source.CSVFile{Path: "edges.csv"}},
//	    Formats: []string{pipeline.FormatHTML},
//	})
//
// Supporting packages: [cache] (file, Redis, and null backends), [errors]
// (coded errors), [observability] (pipeline hooks), [buildinfo] (version).
package pkg
