// Package pngenc frames an RGB canvas into a PNG file.
//
// The encoder writes exactly three chunks: IHDR (8-bit truecolor, no
// interlace), a single IDAT holding the compressed scanlines, and IEND. Every
// scanline uses filter type 0, so the only non-trivial step is compression,
// which is delegated to a [Compressor]. Any implementation producing a valid
// zlib stream is interchangeable; [ZlibCompressor] is the default.
//
// The package also reads containers back with [ReadChunks], which checks the
// signature and every chunk CRC. It is used to inspect and validate output,
// not to decode pixels.
//
// # Errors
//
// The encoder fails only when the compressor rejects its input. Such errors
// carry [errors.ErrCodeCompression] and indicate a broken compressor rather
// than bad input, so callers should not retry.
package pngenc
