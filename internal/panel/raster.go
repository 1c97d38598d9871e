package panel

import (
	"math"

	"github.com/aelexs/atomic-clock/internal/wave"
)

// Cell glyphs. Layer glyphs are indexed by layer number; the front layer
// is the densest.
var layerGlyphs = []rune{'█', '▓', '░'}

const (
	scanGlyph  = '│'
	emptyGlyph = ' '
)

// Raster is a character grid holding the oscillator drawing.
type Raster struct {
	Cols  int
	Rows  int
	Cells [][]rune
	// Layer records which wave layer painted each cell, -1 for the scan
	// line and -2 for empty cells. Styling uses it.
	Layer [][]int
}

const (
	cellScan  = -1
	cellEmpty = -2
)

// Rasterize maps the wave layers and the scan line into a cols×rows grid.
// Back layers are drawn first so the front layer wins shared cells; the
// scan line only fills cells no wave occupies.
func Rasterize(layers []wave.Layer, scanX float64, cols, rows int) Raster {
	r := Raster{Cols: cols, Rows: rows}
	if cols <= 0 || rows <= 0 {
		return r
	}
	r.Cells = make([][]rune, rows)
	r.Layer = make([][]int, rows)
	for y := range rows {
		r.Cells[y] = make([]rune, cols)
		r.Layer[y] = make([]int, cols)
		for x := range cols {
			r.Cells[y][x] = emptyGlyph
			r.Layer[y][x] = cellEmpty
		}
	}

	for i := len(layers) - 1; i >= 0; i-- {
		glyph := layerGlyphs[min(i, len(layerGlyphs)-1)]
		for _, p := range layers[i].Points {
			col := scale(p.X, wave.Width, cols)
			row := scale(p.Y, wave.ViewHeight, rows)
			r.Cells[row][col] = glyph
			r.Layer[row][col] = i
		}
	}

	scanCol := scale(scanX, wave.Width, cols)
	for y := range rows {
		if r.Layer[y][scanCol] == cellEmpty {
			r.Cells[y][scanCol] = scanGlyph
			r.Layer[y][scanCol] = cellScan
		}
	}
	return r
}

// Lines returns the grid as strings, top row first.
func (r Raster) Lines() []string {
	out := make([]string, len(r.Cells))
	for i, row := range r.Cells {
		out[i] = string(row)
	}
	return out
}

// scale maps v in [0, extent] onto a cell index in [0, n-1].
func scale(v, extent float64, n int) int {
	i := int(math.Round(v / extent * float64(n-1)))
	return max(0, min(n-1, i))
}
