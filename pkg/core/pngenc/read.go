package pngenc

import (
	"bytes"
	"encoding/binary"

	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// Chunk is a parsed chunk with its stored and recomputed checksums.
type Chunk struct {
	Type    string
	Data    []byte
	CRC     uint32 // stored checksum
	Offset  int    // byte offset of the length field
	Checked uint32 // checksum recomputed over Type and Data
}

// Valid reports whether the stored checksum matches the recomputed one.
func (c Chunk) Valid() bool { return c.CRC == c.Checked }

// ReadChunks parses a PNG container.
// It fails on a bad signature, a truncated chunk, a CRC mismatch,
// or trailing bytes after IEND.
func ReadChunks(data []byte) ([]Chunk, error) {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing PNG signature")
	}

	var chunks []Chunk
	pos := len(Signature)
	for pos < len(data) {
		if len(data)-pos < 12 {
			return chunks, errors.New(errors.ErrCodeInvalidFormat, "truncated chunk header at offset %d", pos)
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		end := pos + 8 + length + 4
		if length < 0 || end > len(data) {
			return chunks, errors.New(errors.ErrCodeInvalidFormat, "chunk at offset %d overruns file", pos)
		}

		c := Chunk{
			Type:   string(data[pos+4 : pos+8]),
			Data:   data[pos+8 : pos+8+length],
			CRC:    binary.BigEndian.Uint32(data[end-4 : end]),
			Offset: pos,
		}
		c.Checked = ChunkCRC(c.Type, c.Data)
		chunks = append(chunks, c)
		if !c.Valid() {
			return chunks, errors.New(errors.ErrCodeInvalidFormat, "%s chunk at offset %d: crc %08x, want %08x", c.Type, pos, c.CRC, c.Checked)
		}

		pos = end
		if c.Type == TypeIEND {
			break
		}
	}

	if len(chunks) == 0 || chunks[len(chunks)-1].Type != TypeIEND {
		return chunks, errors.New(errors.ErrCodeInvalidFormat, "missing IEND chunk")
	}
	if pos != len(data) {
		return chunks, errors.New(errors.ErrCodeInvalidFormat, "%d trailing bytes after IEND", len(data)-pos)
	}
	return chunks, nil
}

// ParseHeader decodes an IHDR chunk.
func ParseHeader(c Chunk) (Header, error) {
	if c.Type != TypeIHDR {
		return Header{}, errors.New(errors.ErrCodeInvalidFormat, "expected IHDR, got %s", c.Type)
	}
	if len(c.Data) != headerLen {
		return Header{}, errors.New(errors.ErrCodeInvalidFormat, "IHDR payload is %d bytes, want %d", len(c.Data), headerLen)
	}
	d := c.Data
	return Header{
		Width:             binary.BigEndian.Uint32(d[0:4]),
		Height:            binary.BigEndian.Uint32(d[4:8]),
		BitDepth:          d[8],
		ColorType:         d[9],
		CompressionMethod: d[10],
		FilterMethod:      d[11],
		Interlace:         d[12],
	}, nil
}
