// Package logo generates deterministic token logos.
//
// A logo is a 512×512 PNG derived entirely from a token's name and symbol:
//
//	png, err := logo.Generate("Nova", "NOVA")
//
// The same pair always yields the same pixels, and the same bytes for a given
// compressor. Generation performs no I/O and shares no state, so any number
// of calls may run concurrently.
//
// The pipeline is:
//
//	name, symbol → prng.Seed → prng.Stream
//	             → palette.Pick (2 draws) → pattern.Generate (28 draws)
//	             → raster.Render → pngenc.Encode
//
// The only possible error is a compressor failure
// ([errors.ErrCodeCompression]), which indicates a broken compressor and
// should be treated as fatal.
package logo

import (
	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/pattern"
	"github.com/matzehuels/tokenlogo/pkg/core/pngenc"
	"github.com/matzehuels/tokenlogo/pkg/core/prng"
	"github.com/matzehuels/tokenlogo/pkg/core/raster"
)

// Revision identifies the rendering algorithm. Bump it whenever a change
// alters output pixels so that cached logos are invalidated.
const Revision = 1

// Option configures a [Generator].
type Option func(*Generator)

// WithCompressor replaces the default zlib compressor.
func WithCompressor(c pngenc.Compressor) Option {
	return func(g *Generator) {
		if c != nil {
			g.compressor = c
		}
	}
}

// WithConfig replaces the default renderer configuration.
func WithConfig(cfg raster.Config) Option {
	return func(g *Generator) { g.config = cfg }
}

// Generator renders and encodes logos. It holds only immutable
// configuration and is safe for concurrent use.
type Generator struct {
	config     raster.Config
	compressor pngenc.Compressor
}

// New creates a generator with the default 512×512 configuration.
func New(opts ...Option) *Generator {
	g := &Generator{
		config:     raster.DefaultConfig(),
		compressor: pngenc.NewZlibCompressor(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the renderer configuration.
func (g *Generator) Config() raster.Config { return g.config }

// Compressor returns the compressor used for IDAT payloads.
func (g *Generator) Compressor() pngenc.Compressor { return g.compressor }

// Result holds a generated logo together with its intermediate values.
type Result struct {
	Name    string
	Symbol  string
	Seed    uint32
	Palette palette.Palette
	Grid    pattern.Grid
	Canvas  *raster.Canvas
	PNG     []byte
}

// Describe derives the seed, palette and grid without rendering. The
// returned Result has no Canvas or PNG. It costs 30 PRNG draws, so callers
// holding cached PNG bytes can recover the metadata cheaply.
func Describe(name, symbol string) *Result {
	seed := prng.Seed(name, symbol)
	stream := prng.NewStream(seed)
	pal := palette.Pick(stream)
	return &Result{
		Name:    name,
		Symbol:  symbol,
		Seed:    seed,
		Palette: pal,
		Grid:    pattern.Generate(stream),
	}
}

// Build runs the full pipeline and keeps every intermediate value.
func (g *Generator) Build(name, symbol string) (*Result, error) {
	// Draw order matters: both hues first, then the grid row by row.
	r := Describe(name, symbol)

	r.Canvas = raster.Render(g.config, r.Palette, r.Grid)
	data, err := pngenc.Encode(r.Canvas, g.compressor)
	if err != nil {
		return nil, err
	}
	r.PNG = data
	return r, nil
}

// Generate returns the encoded PNG for name and symbol.
func (g *Generator) Generate(name, symbol string) ([]byte, error) {
	r, err := g.Build(name, symbol)
	if err != nil {
		return nil, err
	}
	return r.PNG, nil
}

var defaultGenerator = New()

// Generate returns the PNG logo for a token name and symbol using the
// default generator.
func Generate(name, symbol string) ([]byte, error) {
	return defaultGenerator.Generate(name, symbol)
}
