package qoi

import "math"

// Opcode tag bytes and masks, per spec §4.2.
const (
	tagRGB  byte = 0xFE
	tagRGBA byte = 0xFF

	tag2Mask byte = 0xC0 // top 2 bits select INDEX/DIFF/LUMA/RUN
	tagINDEX byte = 0x00
	tagDIFF  byte = 0x40
	tagLUMA  byte = 0x80
	tagRUN   byte = 0xC0
)

// safeMul multiplies two non-negative ints and reports whether the
// product overflowed the platform's int range, so callers can reject
// dimensions that would not fit the address space (spec §6).
func safeMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	ua, ub := uint64(a), uint64(b)
	product := ua * ub
	if product/ua != ub || product > uint64(math.MaxInt) {
		return 0, false
	}
	return int(product), true
}

// DecodeFile decodes a complete QOI file: a 14-byte header followed by an
// opcode stream, with an optional (ignored) end marker. It returns the
// declared dimensions and channel count from the header plus the decoded
// pixel buffer.
func DecodeFile(data []byte) (width, height int, channels uint8, pixels []byte, err error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	pixels, err = DecodeStream(data[headerSize:], int(hdr.Width), int(hdr.Height), hdr.Channels)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	return int(hdr.Width), int(hdr.Height), hdr.Channels, pixels, nil
}

// DecodeStream decodes an opcode stream (no header) into a freshly
// allocated pixel buffer of exactly width*height*channels bytes, given
// externally known dimensions and channel count. This is the entry point
// for callers that already parsed (or otherwise obtained) the header
// themselves.
//
// On any failure no pixel buffer is returned.
func DecodeStream(stream []byte, width, height int, channels uint8) ([]byte, error) {
	if channels != ChannelsRGB && channels != ChannelsRGBA {
		return nil, newError(InvalidArgument, "channels must be 3 or 4, got %d", channels)
	}
	if width < 0 || height < 0 {
		return nil, newError(InvalidArgument, "width and height must be non-negative, got %dx%d", width, height)
	}
	pixelCount, ok := safeMul(width, height)
	if !ok {
		return nil, newError(InvalidArgument, "width*height overflows: %dx%d", width, height)
	}
	outLen, ok := safeMul(pixelCount, int(channels))
	if !ok {
		return nil, newError(InvalidArgument, "width*height*channels overflows: %dx%dx%d", width, height, channels)
	}

	out := make([]byte, outLen)
	pred := newPredictor()

	idx := 0
	written := 0

	for written < pixelCount {
		if idx >= len(stream) {
			return nil, newError(UnexpectedEOF, "stream exhausted after %d of %d pixels", written, pixelCount)
		}
		tag := stream[idx]

		switch {
		case tag == tagRGBA:
			if idx+5 > len(stream) {
				return nil, newError(TruncatedStream, "RGBA opcode at byte %d needs 5 bytes, only %d remain", idx, len(stream)-idx)
			}
			p := Pixel{R: stream[idx+1], G: stream[idx+2], B: stream[idx+3], A: stream[idx+4]}
			writePixel(out, written, channels, p)
			pred.observe(p)
			idx += 5
			written++

		case tag == tagRGB:
			if idx+4 > len(stream) {
				return nil, newError(TruncatedStream, "RGB opcode at byte %d needs 4 bytes, only %d remain", idx, len(stream)-idx)
			}
			p := Pixel{R: stream[idx+1], G: stream[idx+2], B: stream[idx+3], A: pred.prev.A}
			writePixel(out, written, channels, p)
			pred.observe(p)
			idx += 4
			written++

		case tag&tag2Mask == tagINDEX:
			p := pred.cache[tag&0x3F]
			writePixel(out, written, channels, p)
			pred.observe(p)
			idx++
			written++

		case tag&tag2Mask == tagDIFF:
			p := pred.prev
			p.R += ((tag >> 4) & 0x03) - 2
			p.G += ((tag >> 2) & 0x03) - 2
			p.B += (tag & 0x03) - 2
			writePixel(out, written, channels, p)
			pred.observe(p)
			idx++
			written++

		case tag&tag2Mask == tagLUMA:
			if idx+2 > len(stream) {
				return nil, newError(TruncatedStream, "LUMA opcode at byte %d needs 2 bytes, only %d remain", idx, len(stream)-idx)
			}
			b2 := stream[idx+1]
			dg := (tag & 0x3F) - 32
			drdg := (b2 >> 4) - 8
			dbdg := (b2 & 0x0F) - 8
			p := pred.prev
			p.R += drdg + dg
			p.G += dg
			p.B += dbdg + dg
			writePixel(out, written, channels, p)
			pred.observe(p)
			idx += 2
			written++

		default: // tag&0xC0 == tagRUN, tag not 0xFE/0xFF
			runLen := int(tag&0x3F) + 1
			if written+runLen > pixelCount {
				return nil, newError(RunOverflow, "run of %d at pixel %d overshoots budget of %d", runLen, written, pixelCount)
			}
			for i := 0; i < runLen; i++ {
				writePixel(out, written+i, channels, pred.prev)
			}
			written += runLen
			idx++
			// prev unchanged, cache not updated: spec §3/§9.
		}
	}

	return out, nil
}

// writePixel writes p's channels into out at pixel index i, honoring the
// 3- vs 4-channel output layout (spec §4.2 "Output layout").
func writePixel(out []byte, i int, channels uint8, p Pixel) {
	off := i * int(channels)
	out[off] = p.R
	out[off+1] = p.G
	out[off+2] = p.B
	if channels == ChannelsRGBA {
		out[off+3] = p.A
	}
}
