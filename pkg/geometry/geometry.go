// Package geometry produces 2D edge curves and arrowheads for rendering.
//
// Edges are drawn as quadratic Bezier curves bowed away from the straight
// line between their endpoints. Alternating the bow direction by edge
// parity keeps opposite edges between the same node pair visually separate.
package geometry

import "math"

// Point is a 2D coordinate serialized as a [x, y] pair.
type Point [2]float64

// CurveSamples is the number of points in a sampled edge curve.
const CurveSamples = 50

// curveOffset is the control-point distance from the edge midpoint,
// relative to the edge length.
const curveOffset = 0.2

// Curve samples a quadratic Bezier from p0 to p1. The control point sits at
// the midpoint displaced along the unit perpendicular, flipping side with
// the parity of index. Zero-length edges collapse to a flat polyline at the
// shared point.
func Curve(p0, p1 Point, index int) []Point {
	dx := p1[0] - p0[0]
	dy := p1[1] - p0[1]
	length := math.Hypot(dx, dy)

	if length == 0 {
		// Sampling the Bezier here would reconstruct the shared point from
		// u*u + 2*u*t + t*t, which rounds away from it by an ulp.
		points := make([]Point, CurveSamples)
		for i := range points {
			points[i] = p0
		}
		return points
	}

	mid := Point{(p0[0] + p1[0]) / 2, (p0[1] + p1[1]) / 2}
	control := mid
	side := 1.0
	if index%2 == 1 {
		side = -1.0
	}
	// Unit perpendicular to the edge direction.
	px := -dy / length
	py := dx / length
	control[0] += side * curveOffset * length * px
	control[1] += side * curveOffset * length * py

	points := make([]Point, CurveSamples)
	for i := 0; i < CurveSamples; i++ {
		t := float64(i) / float64(CurveSamples-1)
		u := 1 - t
		points[i] = Point{
			u*u*p0[0] + 2*u*t*control[0] + t*t*p1[0],
			u*u*p0[1] + 2*u*t*control[1] + t*t*p1[1],
		}
	}
	return points
}

// Arrowhead builds a triangle of the given size at the end of a polyline,
// oriented along the terminal tangent. Degenerate polylines (fewer than two
// distinct trailing points) point along the positive X axis.
func Arrowhead(polyline []Point, size float64) []Point {
	if len(polyline) == 0 {
		return nil
	}
	tip := polyline[len(polyline)-1]

	dirX, dirY := 1.0, 0.0
	if len(polyline) >= 2 {
		prev := polyline[len(polyline)-2]
		dx := tip[0] - prev[0]
		dy := tip[1] - prev[1]
		if length := math.Hypot(dx, dy); length > 0 {
			dirX = dx / length
			dirY = dy / length
		}
	}

	// Perpendicular for the triangle base.
	perpX := -dirY
	perpY := dirX

	baseX := tip[0] - size*dirX
	baseY := tip[1] - size*dirY
	half := size / 2

	return []Point{
		tip,
		{baseX + half*perpX, baseY + half*perpY},
		{baseX - half*perpX, baseY - half*perpY},
	}
}
