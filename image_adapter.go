package qoi

import (
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("qoi", magic, Decode, DecodeConfig)
}

// readAll reads all of r. If r implements Len() int (e.g. *bytes.Reader),
// a single exact-sized allocation is used instead of the repeated
// doublings io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		if n := lr.Len(); n > 0 {
			data := make([]byte, n)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, err
			}
			return data, nil
		}
	}
	return io.ReadAll(r)
}

// Decode reads a QOI image from r and returns it as an image.Image: an
// *image.RGBA when the file declares 4 channels, or an *image.NRGBA with
// alpha fixed at 255 when it declares 3. This sits outside the core
// buffer-in/buffer-out codec (spec §1 excludes "pixel-format conversion
// beyond 8-bit RGB/RGBA" and any wider I/O surface from the core).
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	width, height, channels, pix, err := DecodeFile(data)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, width, height)
	if channels == ChannelsRGBA {
		return &image.RGBA{Pix: pix, Stride: width * 4, Rect: rect}, nil
	}

	// 3-channel: expand into NRGBA with alpha forced opaque, matching the
	// decoder's own "alpha fixed at 255" contract for 3-channel output.
	nrgba := image.NewNRGBA(rect)
	for i := 0; i < width*height; i++ {
		nrgba.Pix[i*4] = pix[i*3]
		nrgba.Pix[i*4+1] = pix[i*3+1]
		nrgba.Pix[i*4+2] = pix[i*3+2]
		nrgba.Pix[i*4+3] = 255
	}
	return nrgba, nil
}

// DecodeConfig reads just enough of r to report a QOI image's dimensions
// and color model, without decoding the opcode stream.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return image.Config{}, err
	}
	hdr, err := parseHeader(buf)
	if err != nil {
		return image.Config{}, err
	}
	model := color.NRGBAModel
	if hdr.Channels == ChannelsRGBA {
		model = color.RGBAModel
	}
	return image.Config{ColorModel: model, Width: int(hdr.Width), Height: int(hdr.Height)}, nil
}

// EncodeImage writes m to w as a QOI file. Images already in *image.RGBA
// or *image.NRGBA form are encoded directly; anything else is converted
// to NRGBA first via the standard color-conversion path on image.At.
func EncodeImage(w io.Writer, m image.Image) error {
	b := m.Bounds()
	width, height := b.Dx(), b.Dy()

	var pix []byte
	var channels uint8

	switch img := m.(type) {
	case *image.RGBA:
		pix, channels = packRGBA(img, b), ChannelsRGBA
	case *image.NRGBA:
		pix, channels = packNRGBA(img, b), ChannelsRGBA
	default:
		pix, channels = packGeneric(m, b), ChannelsRGBA
	}

	data, err := Encode(pix, width, height, channels)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func packRGBA(img *image.RGBA, b image.Rectangle) []byte {
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcOff := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*w*4:(y+1)*w*4], img.Pix[srcOff:srcOff+w*4])
	}
	return out
}

func packNRGBA(img *image.NRGBA, b image.Rectangle) []byte {
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			// Premultiply isn't needed: QOI carries straight (non-alpha
			// premultiplied) RGBA, same as NRGBA's own representation.
			out[i] = c.R
			out[i+1] = c.G
			out[i+2] = c.B
			out[i+3] = c.A
			i += 4
		}
	}
	return out
}

func packGeneric(m image.Image, b image.Rectangle) []byte {
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out[i] = c.R
			out[i+1] = c.G
			out[i+2] = c.B
			out[i+3] = c.A
			i += 4
		}
	}
	return out
}
