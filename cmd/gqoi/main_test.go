package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/goqoi/qoi"
)

func TestPackImage_RGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 128})

	pix, w, h, ch := packImage(img)
	if w != 2 || h != 1 || ch != qoi.ChannelsRGBA {
		t.Fatalf("dims = %dx%dx%d, want 2x1x4", w, h, ch)
	}
	want := []byte{10, 20, 30, 255, 1, 2, 3, 128}
	if !bytes.Equal(pix, want) {
		t.Fatalf("pix = %v, want %v", pix, want)
	}
}

func TestEncodeDecodeViaPNGRoundtrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	decodedPNG, _, err := image.Decode(bytes.NewReader(pngBuf.Bytes()))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}

	pix, w, h, ch := packImage(decodedPNG)
	data, err := qoi.Encode(pix, w, h, ch)
	if err != nil {
		t.Fatalf("qoi.Encode: %v", err)
	}

	gotW, gotH, gotCh, gotPix, err := qoi.DecodeFile(data)
	if err != nil {
		t.Fatalf("qoi.DecodeFile: %v", err)
	}
	if gotW != w || gotH != h || gotCh != ch {
		t.Fatalf("dims = %dx%dx%d, want %dx%dx%d", gotW, gotH, gotCh, w, h, ch)
	}
	if !bytes.Equal(gotPix, pix) {
		t.Fatalf("pixel mismatch after PNG->QOI->decode round trip")
	}
}

func TestDetectOutputFormat(t *testing.T) {
	tests := []struct {
		fmtFlag, outputPath, want string
	}{
		{"jpeg", "", "jpeg"},
		{"", "out.jpg", "jpeg"},
		{"", "out.jpeg", "jpeg"},
		{"", "out.png", "png"},
		{"", "", "png"},
		{"", "-", "png"},
	}
	for _, tt := range tests {
		if got := detectOutputFormat(tt.fmtFlag, tt.outputPath); got != tt.want {
			t.Errorf("detectOutputFormat(%q, %q) = %q, want %q", tt.fmtFlag, tt.outputPath, got, tt.want)
		}
	}
}

func TestSliceReader(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	r := byteReader(data)
	if r.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", r.Len())
	}
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n != 3 {
		t.Fatalf("Read() = %d, %v, want 3, nil", n, err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() after partial read = %d, want 2", r.Len())
	}
	n, err = r.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("Read() = %d, %v, want 2, nil", n, err)
	}
	if _, err := r.Read(buf); err == nil {
		t.Fatal("Read() at EOF: want error")
	}
}
