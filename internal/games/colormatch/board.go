package colormatch

import (
	"math/rand"

	"github.com/vovakirdan/colormatch/internal/config"
	"github.com/vovakirdan/colormatch/internal/core"
)

// Color is one palette entry placed on two tiles.
type Color struct {
	Name string
	Hex  core.Color
}

// Tile is one cell of the board.
type Tile struct {
	Color     Color
	PairIndex int // Slot in the shuffled sequence
	Revealed  bool
	Matched   bool
}

// paletteFrom converts configured palette entries.
func paletteFrom(entries []config.PaletteColor) []Color {
	out := make([]Color, len(entries))
	for i, e := range entries {
		out[i] = Color{Name: e.Name, Hex: core.Color(e.Hex)}
	}
	return out
}

// newBoard lays out two hidden tiles per palette colour in shuffled order.
func newBoard(palette []Color, rng *rand.Rand) []Tile {
	values := make([]Color, 0, len(palette)*2)
	for _, c := range palette {
		values = append(values, c, c)
	}
	shuffle(values, rng)

	tiles := make([]Tile, len(values))
	for i, v := range values {
		tiles[i] = Tile{Color: v, PairIndex: i}
	}
	return tiles
}

// shuffle is a Fisher-Yates shuffle: each index from the last down to 1 is
// swapped with a uniformly chosen index in [0, i].
func shuffle(values []Color, rng *rand.Rand) {
	for i := len(values) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
