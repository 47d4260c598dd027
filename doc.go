// Package qoi implements a decoder and encoder for the QOI ("Quite OK
// Image") lossless raster image format.
//
// QOI is a byte-oriented format built around a single-pass predictor: a
// running "previous pixel" register and a 64-entry hash-indexed cache of
// recently seen pixels. Every pixel is encoded as the shortest of six
// variable-length opcodes (1, 2, 4, or 5 bytes), and runs of identical
// pixels are coalesced into length-prefixed run opcodes.
//
// The package operates on whole in-memory buffers; there is no streaming
// or chunked I/O API. [DecodeFile] and [Encode] are the primary entry
// points:
//
//	width, height, channels, pix, err := qoi.DecodeFile(fileBytes)
//	qoiBytes, err := qoi.Encode(pix, width, height, channels)
//
// For interop with the standard image package, see image_adapter.go.
package qoi
