// Command gqoi converts images to and from the QOI format.
//
// Usage:
//
//	gqoi enc [options] <input>        PNG/JPEG/BMP → QOI (use "-" for stdin)
//	gqoi dec [options] <input.qoi>     QOI → PNG/JPEG (use "-" for stdin, -o - for stdout)
//	gqoi info <input.qoi>              Display QOI header fields
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/goqoi/qoi"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gqoi: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	switch os.Args[1] {
	case "enc":
		err = runEnc(logger, os.Args[2:])
	case "dec":
		err = runDec(logger, os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "gqoi: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "gqoi: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  gqoi enc [options] <input>        Encode PNG/JPEG/BMP to QOI
  gqoi dec [options] <input.qoi>    Decode QOI to PNG or JPEG
  gqoi info <input.qoi>             Print header fields

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "gqoi <command> -h" for command-specific options.
`)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- enc ---

func runEnc(logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.qoi, "-" for stdout)`)
	colorspace := fs.Int("colorspace", int(qoi.ColorspaceSRGBLinearAlpha), "colorspace byte to declare: 0=sRGB+linear alpha, 1=all linear")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: gqoi enc [options] <input>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}

	pix, width, height, channels := packImage(img)
	data, err := qoi.Encode(pix, width, height, channels)
	if err != nil {
		return fmt.Errorf("enc: %w", err)
	}
	if *colorspace == int(qoi.ColorspaceAllLinear) {
		data[13] = qoi.ColorspaceAllLinear
	}

	outputPath := *output
	if outputPath == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.qoi"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".qoi"
		}
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("enc: writing %s: %w", outputPath, err)
	}

	logger.Info("encoded image",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("source_format", format),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("channels", int(channels)),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// packImage flattens an image.Image into a channels-interleaved buffer.
// It always packs 4 channels (RGBA); a source without alpha is not packed
// as 3-channel RGB, its pixels get alpha 255.
func packImage(img image.Image) (pix []byte, width, height int, channels uint8) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	channels = qoi.ChannelsRGBA
	pix = make([]byte, width*height*4)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bch, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			pix[i] = byte(r >> 8)
			pix[i+1] = byte(g >> 8)
			pix[i+2] = byte(bch >> 8)
			pix[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return pix, width, height, channels
}

// --- dec ---

func runDec(logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)
	fmtFlag := fs.String("fmt", "", "output format: png, jpeg (auto-detect from extension if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: gqoi dec [options] <input.qoi>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: reading input: %w", err)
	}

	img, err := qoi.Decode(byteReader(data))
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	outputPath := *output
	outFormat := detectOutputFormat(*fmtFlag, outputPath)

	var w io.Writer
	if outputPath == "-" {
		w = os.Stdout
	} else {
		if outputPath == "" {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + "." + outFormat
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch outFormat {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("dec: encoding %s: %w", outFormat, err)
	}

	if outputPath != "-" {
		b := img.Bounds()
		logger.Info("decoded image",
			zap.String("input", inputPath),
			zap.String("output", outputPath),
			zap.String("output_format", outFormat),
			zap.Int("width", b.Dx()),
			zap.Int("height", b.Dy()),
		)
	}
	return nil
}

func detectOutputFormat(fmtFlag, outputPath string) string {
	if fmtFlag != "" {
		return strings.ToLower(fmtFlag)
	}
	if outputPath != "" && outputPath != "-" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".jpg", ".jpeg":
			return "jpeg"
		}
	}
	return "png"
}

// --- info ---

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("info: missing input file\nUsage: gqoi info <input.qoi>")
	}

	in, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	width, height, channels, pix, err := qoi.DecodeFile(data)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	fmt.Printf("width:       %d\n", width)
	fmt.Printf("height:      %d\n", height)
	fmt.Printf("channels:    %d\n", channels)
	fmt.Printf("colorspace:  %d\n", data[13])
	fmt.Printf("pixel bytes: %d\n", len(pix))
	fmt.Printf("file bytes:  %d\n", len(data))
	return nil
}

// byteReader adapts a []byte to an io.Reader that also exposes Len(), so
// qoi.Decode's fast path applies.
func byteReader(data []byte) *sliceReader { return &sliceReader{data: data} }

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *sliceReader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}
