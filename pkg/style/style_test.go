package style

import (
	"strings"
	"testing"
)

func TestAssignColors(t *testing.T) {
	colors := AssignColors([]string{"person", "place", "person", "event"}, NodePalette)

	if colors["person"] != NodePalette[0] {
		t.Errorf("person = %s, want %s", colors["person"], NodePalette[0])
	}
	if colors["place"] != NodePalette[1] {
		t.Errorf("place = %s, want %s", colors["place"], NodePalette[1])
	}
	// Duplicate does not advance the palette index.
	if colors["event"] != NodePalette[2] {
		t.Errorf("event = %s, want %s", colors["event"], NodePalette[2])
	}
}

func TestAssignColorsWraps(t *testing.T) {
	keys := make([]string, len(NodePalette)+2)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}
	colors := AssignColors(keys, NodePalette)
	if colors[keys[len(NodePalette)]] != NodePalette[0] {
		t.Errorf("palette did not wrap: %s", colors[keys[len(NodePalette)]])
	}
	if colors[keys[len(NodePalette)+1]] != NodePalette[1] {
		t.Errorf("palette did not wrap at +1: %s", colors[keys[len(NodePalette)+1]])
	}
}

func TestAssignSizes(t *testing.T) {
	tests := []struct {
		name    string
		degrees map[string]int
		want    map[string]float64
	}{
		{
			name:    "Empty",
			degrees: map[string]int{},
			want:    map[string]float64{},
		},
		{
			name:    "AllEqualMidpoint",
			degrees: map[string]int{"a": 3, "b": 3},
			want:    map[string]float64{"a": 25, "b": 25},
		},
		{
			name:    "LinearScale",
			degrees: map[string]int{"a": 0, "b": 5, "c": 10},
			want:    map[string]float64{"a": 15, "b": 25, "c": 35},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignSizes(tt.degrees, DefaultMinSize, DefaultMaxSize)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for id, size := range tt.want {
				if got[id] != size {
					t.Errorf("sizes[%s] = %v, want %v", id, got[id], size)
				}
			}
		})
	}
}

func TestAdjustBrightness(t *testing.T) {
	darker := AdjustBrightness("#636efa", -0.2)
	if darker == "#636efa" || !strings.HasPrefix(darker, "#") {
		t.Errorf("darker = %q, want a different hex color", darker)
	}

	// Clamps at white and black without overflowing.
	if got := AdjustBrightness("#ffffff", 0.5); got != "#ffffff" {
		t.Errorf("white +0.5 = %q, want #ffffff", got)
	}
	if got := AdjustBrightness("#000000", -0.5); got != "#000000" {
		t.Errorf("black -0.5 = %q, want #000000", got)
	}

	// Invalid input passes through.
	if got := AdjustBrightness("not-a-color", 0.1); got != "not-a-color" {
		t.Errorf("invalid = %q, want passthrough", got)
	}
}
