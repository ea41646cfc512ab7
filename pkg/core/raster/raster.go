// Package raster renders a logo into an RGB pixel buffer.
//
// A logo is a diagonal two-color gradient clipped to a rounded square, with
// the identicon grid tinted over its center. Pixels outside the rounded
// corners are opaque black: the buffer has no alpha channel, so the rounding
// only reads correctly on dark backgrounds.
package raster

import (
	"image"

	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/pattern"
)

// Channels is the number of bytes per pixel.
const Channels = 3

// Config holds the geometry and blending parameters of a render.
// Configs are values; pass them by value and do not share pointers.
type Config struct {
	Size         int     // canvas width and height in pixels
	GridCells    int     // cells per grid side
	CellSize     int     // pixels per cell side
	CornerRadius int     // radius of the rounded corners
	OverlayAlpha float64 // opacity of the tint over filled cells
}

// DefaultConfig returns the canonical 512×512 logo configuration.
func DefaultConfig() Config {
	return Config{
		Size:         512,
		GridCells:    pattern.Size,
		CellSize:     36,
		CornerRadius: 48,
		OverlayAlpha: 0.35,
	}
}

// GridWidth returns the side length of the overlay square in pixels.
func (c Config) GridWidth() int {
	return c.GridCells * c.CellSize
}

// GridOffset returns the top-left coordinate of the overlay square on both axes.
func (c Config) GridOffset() int {
	return (c.Size - c.GridWidth()) / 2
}

// Canvas is a row-major RGB pixel buffer.
type Canvas struct {
	Width  int
	Height int
	Pix    []byte
}

// NewCanvas allocates a black canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{Width: width, Height: height, Pix: make([]byte, width*height*Channels)}
}

// Stride returns the number of bytes per row.
func (c *Canvas) Stride() int {
	return c.Width * Channels
}

// At returns the color at (x, y).
func (c *Canvas) At(x, y int) palette.RGB {
	i := (y*c.Width + x) * Channels
	return palette.RGB{R: c.Pix[i], G: c.Pix[i+1], B: c.Pix[i+2]}
}

// Set writes col at (x, y).
func (c *Canvas) Set(x, y int, col palette.RGB) {
	i := (y*c.Width + x) * Channels
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = col.R, col.G, col.B
}

// RGBA copies the canvas into an opaque image.RGBA for use with the
// image packages (scaling, terminal previews).
func (c *Canvas) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, j := 0, 0; i < len(c.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = c.Pix[i]
		img.Pix[j+1] = c.Pix[i+1]
		img.Pix[j+2] = c.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// Render draws a logo with the given palette and grid.
func Render(cfg Config, pal palette.Palette, g pattern.Grid) *Canvas {
	size := cfg.Size
	canvas := NewCanvas(size, size)

	gridWidth := cfg.GridWidth()
	offset := cfg.GridOffset()
	span := float64(2 * size)

	for y := range size {
		for x := range size {
			if OutsideRoundedRect(x, y, size, size, cfg.CornerRadius) {
				continue // already black
			}

			col := palette.Lerp(pal.Primary, pal.Secondary, float64(x+y)/span)

			gx, gy := x-offset, y-offset
			if gx >= 0 && gx < gridWidth && gy >= 0 && gy < gridWidth {
				cx, cy := gx/cfg.CellSize, gy/cfg.CellSize
				if cx < pattern.Size && cy < pattern.Size && g[cy][cx] {
					col = palette.Blend(col, pal.Tint, cfg.OverlayAlpha)
				}
			}

			canvas.Set(x, y, col)
		}
	}
	return canvas
}

// OutsideRoundedRect reports whether (x, y) lies in one of the four r×r corner
// squares of a w×h rectangle but outside the quarter circle of radius r.
//
// The left and top corners are centered on r; the right and bottom corners
// are centered on w-r-1 and h-r-1.
func OutsideRoundedRect(x, y, w, h, r int) bool {
	var dx, dy int
	switch {
	case x < r:
		dx = r - x
	case x >= w-r:
		dx = x - (w - r - 1)
	default:
		return false
	}
	switch {
	case y < r:
		dy = r - y
	case y >= h-r:
		dy = y - (h - r - 1)
	default:
		return false
	}
	return dx*dx+dy*dy > r*r
}
