package pngenc

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/matzehuels/tokenlogo/pkg/core/raster"
	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// Chunk type tags.
const (
	TypeIHDR = "IHDR"
	TypeIDAT = "IDAT"
	TypeIEND = "IEND"
)

// IHDR field values for 8-bit truecolor without alpha.
const (
	BitDepth          = 8
	ColorTypeRGB      = 2
	CompressionMethod = 0
	FilterMethod      = 0
	InterlaceNone     = 0
	FilterNone        = 0
)

// headerLen is the IHDR payload length.
const headerLen = 13

// Header is the decoded IHDR payload.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	Interlace         uint8
}

// Bytes returns the 13-byte IHDR payload.
func (h Header) Bytes() []byte {
	b := make([]byte, headerLen)
	binary.BigEndian.PutUint32(b[0:4], h.Width)
	binary.BigEndian.PutUint32(b[4:8], h.Height)
	b[8] = h.BitDepth
	b[9] = h.ColorType
	b[10] = h.CompressionMethod
	b[11] = h.FilterMethod
	b[12] = h.Interlace
	return b
}

// NewHeader returns the IHDR for an 8-bit RGB image of the given size.
func NewHeader(width, height int) Header {
	return Header{
		Width:             uint32(width),
		Height:            uint32(height),
		BitDepth:          BitDepth,
		ColorType:         ColorTypeRGB,
		CompressionMethod: CompressionMethod,
		FilterMethod:      FilterMethod,
		Interlace:         InterlaceNone,
	}
}

// Scanlines frames the canvas rows, prefixing each with filter type 0.
func Scanlines(c *raster.Canvas) []byte {
	stride := c.Stride()
	out := make([]byte, c.Height*(1+stride))
	for y := range c.Height {
		row := out[y*(1+stride):]
		row[0] = FilterNone
		copy(row[1:1+stride], c.Pix[y*stride:(y+1)*stride])
	}
	return out
}

// Encode writes c as a complete PNG file.
func Encode(c *raster.Canvas, comp Compressor) ([]byte, error) {
	if comp == nil {
		comp = NewZlibCompressor()
	}

	compressed, err := comp.Compress(Scanlines(c))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompression, err, "compress %dx%d scanlines", c.Width, c.Height)
	}

	var buf bytes.Buffer
	buf.Grow(len(Signature) + 3*12 + headerLen + len(compressed))
	buf.Write(Signature[:])
	// Writes to a bytes.Buffer cannot fail.
	_ = WriteChunk(&buf, TypeIHDR, NewHeader(c.Width, c.Height).Bytes())
	_ = WriteChunk(&buf, TypeIDAT, compressed)
	_ = WriteChunk(&buf, TypeIEND, nil)
	return buf.Bytes(), nil
}

// WriteChunk writes one length-prefixed chunk with its CRC-32.
// typ must be exactly four ASCII bytes.
func WriteChunk(w io.Writer, typ string, payload []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[0:4], uint32(len(payload)))
	copy(head[4:8], typ)

	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], ChunkCRC(typ, payload))

	for _, b := range [][]byte{head[:], payload, tail[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// ChunkCRC computes the CRC-32 (IEEE) over the type tag followed by payload.
func ChunkCRC(typ string, payload []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, []byte(typ))
	return crc32.Update(crc, crc32.IEEETable, payload)
}
