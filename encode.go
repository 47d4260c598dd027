package qoi

import "github.com/goqoi/qoi/internal/pool"

// maxRunLength is the largest run length a single RUN opcode can encode
// (encoded value 61, representing 62 pixels). Values 62 and 63 (0xFE,
// 0xFF) are reserved for the RGB and RGBA tags.
const maxRunLength = 62

// Encode encodes a raw pixel buffer (row-major, channels interleaved) of
// exactly width*height*channels bytes into a complete QOI file: header,
// opcode stream, and the 8-byte end marker. channels must be 3 or 4.
//
// Encode cannot fail on well-formed input; the only failure modes are
// malformed caller arguments (InvalidArgument).
func Encode(pixels []byte, width, height int, channels uint8) ([]byte, error) {
	if channels != ChannelsRGB && channels != ChannelsRGBA {
		return nil, newError(InvalidArgument, "channels must be 3 or 4, got %d", channels)
	}
	if width <= 0 || height <= 0 {
		return nil, newError(InvalidArgument, "width and height must be positive, got %dx%d", width, height)
	}
	pixelCount, ok := safeMul(width, height)
	if !ok {
		return nil, newError(InvalidArgument, "width*height overflows: %dx%d", width, height)
	}
	need, ok := safeMul(pixelCount, int(channels))
	if !ok {
		return nil, newError(InvalidArgument, "width*height*channels overflows: %dx%dx%d", width, height, channels)
	}
	if len(pixels) != need {
		return nil, newError(InvalidArgument, "pixel buffer is %d bytes, want %d for %dx%d*%d", len(pixels), need, width, height, channels)
	}

	capHint, ok := safeMul(pixelCount, int(channels)+1)
	if !ok {
		capHint = need
	}
	capHint += headerSize + len(endMarker)

	scratch := pool.Get(capHint)[:0]
	buf := appendHeader(scratch, uint32(width), uint32(height), channels, ColorspaceSRGBLinearAlpha)

	pred := newPredictor()
	i := 0
	for i < pixelCount {
		cur := readPixel(pixels, i, channels, pred.prev.A)

		if cur == pred.prev {
			run := runLength(pixels, i, pixelCount, channels, cur)
			buf = appendRun(buf, run)
			i += run
			continue
		}

		h := cur.hash()
		switch {
		case pred.cache[h] == cur:
			buf = append(buf, h)
		case cur.A != pred.prev.A:
			buf = append(buf, tagRGBA, cur.R, cur.G, cur.B, cur.A)
		default:
			dr := int8(cur.R - pred.prev.R)
			dg := int8(cur.G - pred.prev.G)
			db := int8(cur.B - pred.prev.B)
			switch {
			case inRange(dr, -2, 1) && inRange(dg, -2, 1) && inRange(db, -2, 1):
				buf = append(buf, tagDIFF|byte(dr+2)<<4|byte(dg+2)<<2|byte(db+2))
			case inRange(dg, -32, 31) && inRange(dr-dg, -8, 7) && inRange(db-dg, -8, 7):
				buf = append(buf, tagLUMA|byte(dg+32), byte(dr-dg+8)<<4|byte(db-dg+8))
			default:
				buf = append(buf, tagRGB, cur.R, cur.G, cur.B)
			}
		}
		pred.observe(cur)
		i++
	}

	buf = append(buf, endMarker[:]...)
	out := append([]byte(nil), buf...)
	pool.Put(scratch[:cap(scratch)])
	return out, nil
}

// readPixel reads the pixel at index i from a channels-interleaved
// buffer. For 3-channel input, alpha is carried over from the predictor's
// previous pixel (spec §3): it never changes across a 3-channel stream
// since no 3-channel opcode touches alpha.
func readPixel(pixels []byte, i int, channels uint8, carryAlpha uint8) Pixel {
	off := i * int(channels)
	p := Pixel{R: pixels[off], G: pixels[off+1], B: pixels[off+2], A: carryAlpha}
	if channels == ChannelsRGBA {
		p.A = pixels[off+3]
	}
	return p
}

// runLength scans forward from pixel index i while the source pixel
// remains equal to cur, returning the number of identical consecutive
// pixels found (at least 1, the pixel at i itself).
func runLength(pixels []byte, i, pixelCount int, channels uint8, cur Pixel) int {
	run := 1
	for i+run < pixelCount {
		// Alpha can only repeat the same value in 3-channel mode, so
		// passing cur.A as the carry is always correct for comparison.
		p := readPixel(pixels, i+run, channels, cur.A)
		if p != cur {
			break
		}
		run++
	}
	return run
}

// appendRun appends the minimal sequence of RUN opcodes encoding a run of
// the given length: full-length RUN(61) opcodes for every complete group
// of 62 pixels, then one trailing RUN for the remainder if any (spec
// §4.3 "Run encoding invariant").
func appendRun(buf []byte, length int) []byte {
	full := length / maxRunLength
	rem := length % maxRunLength
	for k := 0; k < full; k++ {
		buf = append(buf, tagRUN|byte(maxRunLength-1))
	}
	if rem > 0 {
		buf = append(buf, tagRUN|byte(rem-1))
	}
	return buf
}

// inRange reports whether v is within [lo, hi] inclusive.
func inRange(v int8, lo, hi int8) bool {
	return v >= lo && v <= hi
}
