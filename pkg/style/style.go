// Package style assigns deterministic colors and sizes to graph elements.
//
// Colors come from fixed qualitative palettes indexed by first-seen order,
// so a category keeps its color as long as the category discovery order is
// stable. Sizes scale linearly with node degree.
package style

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NodePalette is the qualitative palette for node categories.
var NodePalette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// EdgePalette is the darker, larger palette for edge types, which commonly
// outnumber node categories.
var EdgePalette = []string{
	"#2E91E5", "#E15F99", "#1CA71C", "#FB0D0D", "#DA16FF", "#222A2A",
	"#B68100", "#750D86", "#EB663B", "#511CFB", "#00A08B", "#FB00D1",
	"#FC0080", "#B2828D", "#6C7C32", "#778AAE", "#862A16", "#A777F1",
	"#620042", "#1616A7", "#DA60CA", "#6C4516", "#0D2A63", "#AF0038",
}

// Default node size bounds in renderer units.
const (
	DefaultMinSize = 15.0
	DefaultMaxSize = 35.0
)

// AssignColors maps each key to a palette color by its position in the
// slice, wrapping around when the palette is exhausted. Keys are expected
// in first-seen order; duplicates keep their first assignment.
func AssignColors(keys []string, palette []string) map[string]string {
	colors := make(map[string]string, len(keys))
	i := 0
	for _, key := range keys {
		if _, ok := colors[key]; ok {
			continue
		}
		colors[key] = palette[i%len(palette)]
		i++
	}
	return colors
}

// AssignSizes scales degrees linearly into [minSize, maxSize]. When every
// degree is equal (including the single-node case) all nodes get the
// midpoint size.
func AssignSizes(degrees map[string]int, minSize, maxSize float64) map[string]float64 {
	sizes := make(map[string]float64, len(degrees))
	if len(degrees) == 0 {
		return sizes
	}

	lo, hi := 0, 0
	first := true
	for _, d := range degrees {
		if first {
			lo, hi = d, d
			first = false
			continue
		}
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}

	if lo == hi {
		mid := (minSize + maxSize) / 2
		for id := range degrees {
			sizes[id] = mid
		}
		return sizes
	}

	span := float64(hi - lo)
	for id, d := range degrees {
		norm := float64(d-lo) / span
		sizes[id] = minSize + norm*(maxSize-minSize)
	}
	return sizes
}

// AdjustBrightness shifts a hex color's HSV value by delta, clamped to
// [0, 1]. Invalid input is returned unchanged.
func AdjustBrightness(hex string, delta float64) string {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	v += delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return colorful.Hsv(h, s, v).Hex()
}
