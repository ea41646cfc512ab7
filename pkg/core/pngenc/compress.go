package pngenc

import (
	"bytes"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// Compressor turns raw scanline bytes into a zlib stream.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// CompressorName returns c's Name() when it has one, and "custom" otherwise.
// Cache keys include it so output from different compressors never mixes.
func CompressorName(c Compressor) string {
	if n, ok := c.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}

// CompressorFunc adapts a function to [Compressor].
type CompressorFunc func([]byte) ([]byte, error)

// Compress calls f(data).
func (f CompressorFunc) Compress(data []byte) ([]byte, error) { return f(data) }

// ZlibCompressor compresses with klauspost/compress at a fixed level.
// Level takes the zlib constants; the zero value is zlib.NoCompression,
// which still yields a valid (stored) stream.
type ZlibCompressor struct {
	Level int
}

// NewZlibCompressor returns a compressor at the default level.
func NewZlibCompressor() *ZlibCompressor {
	return &ZlibCompressor{Level: zlib.DefaultCompression}
}

// Name identifies the compressor and level, for cache keys.
func (z *ZlibCompressor) Name() string {
	return "zlib/" + levelName(z.Level)
}

// Compress implements [Compressor].
func (z *ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, z.Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func levelName(level int) string {
	switch level {
	case zlib.DefaultCompression:
		return "default"
	case zlib.NoCompression:
		return "none"
	case zlib.BestSpeed:
		return "speed"
	case zlib.BestCompression:
		return "best"
	}
	return strconv.Itoa(level)
}

var _ Compressor = (*ZlibCompressor)(nil)
