package pngenc

import (
	"bytes"
	stderrors "errors"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/raster"
	"github.com/matzehuels/tokenlogo/pkg/errors"
)

func testCanvas() *raster.Canvas {
	c := raster.NewCanvas(4, 3)
	c.Set(0, 0, palette.RGB{R: 255})
	c.Set(3, 2, palette.RGB{R: 1, G: 2, B: 3})
	return c
}

func TestChunkCRCKnownValue(t *testing.T) {
	// Every PNG ends with the same IEND chunk: 00000000 49454E44 AE426082.
	if got := ChunkCRC(TypeIEND, nil); got != 0xAE426082 {
		t.Errorf("ChunkCRC(IEND) = %08x, want ae426082", got)
	}
}

func TestWriteChunkLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChunk(&buf, "tEXt", []byte("hi")); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	b := buf.Bytes()
	if len(b) != 4+4+2+4 {
		t.Fatalf("chunk length = %d, want 14", len(b))
	}
	if !bytes.Equal(b[:4], []byte{0, 0, 0, 2}) {
		t.Errorf("length field = %v", b[:4])
	}
	if string(b[4:8]) != "tEXt" || string(b[8:10]) != "hi" {
		t.Errorf("type/payload = %q/%q", b[4:8], b[8:10])
	}
}

func TestScanlines(t *testing.T) {
	c := testCanvas()
	s := Scanlines(c)

	if len(s) != c.Height*(1+c.Width*3) {
		t.Fatalf("len = %d, want %d", len(s), c.Height*(1+c.Width*3))
	}
	for y := range c.Height {
		if s[y*(1+c.Width*3)] != FilterNone {
			t.Errorf("row %d filter byte = %d, want 0", y, s[y*(1+c.Width*3)])
		}
	}
	if s[1] != 255 {
		t.Errorf("first pixel red = %d, want 255", s[1])
	}
	if got := s[len(s)-3:]; !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("last pixel = %v, want [1 2 3]", got)
	}
}

func TestEncodeLayout(t *testing.T) {
	data, err := Encode(testCanvas(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		t.Errorf("missing signature: % x", data[:8])
	}

	chunks, err := ReadChunks(data)
	if err != nil {
		t.Fatalf("ReadChunks: %v", err)
	}
	var types []string
	for _, c := range chunks {
		types = append(types, c.Type)
		if !c.Valid() {
			t.Errorf("%s chunk has invalid CRC", c.Type)
		}
	}
	if len(types) != 3 || types[0] != TypeIHDR || types[1] != TypeIDAT || types[2] != TypeIEND {
		t.Errorf("chunk order = %v, want [IHDR IDAT IEND]", types)
	}

	h, err := ParseHeader(chunks[0])
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	want := Header{Width: 4, Height: 3, BitDepth: 8, ColorType: 2}
	if h != want {
		t.Errorf("header = %+v, want %+v", h, want)
	}
	if len(chunks[2].Data) != 0 {
		t.Errorf("IEND payload = %d bytes, want 0", len(chunks[2].Data))
	}
}

func TestEncodeDecodes(t *testing.T) {
	data, err := Encode(testCanvas(), NewZlibCompressor())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("pixel (3, 2) = (%d, %d, %d), want (1, 2, 3)", r>>8, g>>8, b>>8)
	}
}

func TestEncodeAllLevels(t *testing.T) {
	levels := []int{zlib.NoCompression, zlib.BestSpeed, zlib.DefaultCompression, zlib.BestCompression}
	for _, level := range levels {
		data, err := Encode(testCanvas(), &ZlibCompressor{Level: level})
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Errorf("level %d: decode: %v", level, err)
		}
	}
}

func TestEncodeCompressionFailure(t *testing.T) {
	cause := stderrors.New("boom")
	failing := CompressorFunc(func([]byte) ([]byte, error) { return nil, cause })

	_, err := Encode(testCanvas(), failing)
	if err == nil {
		t.Fatal("Encode should fail when the compressor fails")
	}
	if !errors.Is(err, errors.ErrCodeCompression) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeCompression)
	}
	if !stderrors.Is(err, cause) {
		t.Error("error should wrap the compressor's cause")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, _ := Encode(testCanvas(), nil)
	b, _ := Encode(testCanvas(), nil)
	if !bytes.Equal(a, b) {
		t.Error("Encode should be deterministic")
	}
}

func TestReadChunksRejectsCorruption(t *testing.T) {
	data, err := Encode(testCanvas(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"bad signature", func(b []byte) []byte { b[1] = 'X'; return b }},
		{"flipped payload bit", func(b []byte) []byte { b[8+8+2] ^= 0x01; return b }},
		{"truncated", func(b []byte) []byte { return b[:len(b)-5] }},
		{"trailing bytes", func(b []byte) []byte { return append(b, 0) }},
		{"no chunks", func(b []byte) []byte { return b[:8] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrupt := tt.mutate(bytes.Clone(data))
			if _, err := ReadChunks(corrupt); err == nil {
				t.Error("ReadChunks should fail")
			} else if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, err := ParseHeader(Chunk{Type: TypeIDAT}); err == nil {
		t.Error("ParseHeader should reject non-IHDR chunks")
	}
	if _, err := ParseHeader(Chunk{Type: TypeIHDR, Data: []byte{1, 2}}); err == nil {
		t.Error("ParseHeader should reject short payloads")
	}
}

func TestCompressorName(t *testing.T) {
	if got := NewZlibCompressor().Name(); got != "zlib/default" {
		t.Errorf("Name() = %q, want zlib/default", got)
	}
	if got := (&ZlibCompressor{Level: 3}).Name(); got != "zlib/3" {
		t.Errorf("Name() = %q, want zlib/3", got)
	}
}

func TestCompressorNameFallback(t *testing.T) {
	if got := CompressorName(NewZlibCompressor()); got != "zlib/default" {
		t.Errorf("CompressorName(zlib) = %q", got)
	}
	fn := CompressorFunc(func(b []byte) ([]byte, error) { return b, nil })
	if got := CompressorName(fn); got != "custom" {
		t.Errorf("CompressorName(func) = %q, want custom", got)
	}
}
