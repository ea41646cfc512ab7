// Package pattern builds the mirror-symmetric identicon grid overlaid on a logo.
package pattern

import (
	"strings"

	"github.com/matzehuels/tokenlogo/pkg/core/prng"
)

// Size is the number of rows and columns in a grid.
const Size = 7

// half is the number of independently drawn columns per row.
const half = (Size + 1) / 2

// Threshold is the value a draw must exceed for a cell to be filled.
const Threshold = 0.5

// Draws is the number of stream values consumed by [Generate].
const Draws = Size * half

// Grid is a Size×Size matrix of filled cells, indexed [row][col].
type Grid [Size][Size]bool

// Generate draws a grid from s in row-major order.
// Columns 0-3 of each row are drawn; columns 4-6 mirror columns 2-0.
func Generate(s *prng.Stream) Grid {
	var g Grid
	for row := range Size {
		for col := range half {
			g[row][col] = s.Float64() > Threshold
		}
		for col := half; col < Size; col++ {
			g[row][col] = g[row][Size-1-col]
		}
	}
	return g
}

// Symmetric reports whether every row reads the same in both directions.
func (g Grid) Symmetric() bool {
	for _, row := range g {
		for col := range half {
			if row[col] != row[Size-1-col] {
				return false
			}
		}
	}
	return true
}

// Filled returns the number of filled cells.
func (g Grid) Filled() int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell {
				n++
			}
		}
	}
	return n
}

// Rows renders each row as a string of '#' (filled) and '.' (empty).
func (g Grid) Rows() []string {
	rows := make([]string, Size)
	for i, row := range g {
		var b strings.Builder
		for _, cell := range row {
			if cell {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[i] = b.String()
	}
	return rows
}

// String renders the grid as newline-separated [Grid.Rows].
func (g Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
