package overlay

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for output extensions without an encoder.
var ErrUnsupportedFormat = errors.New("overlay: unsupported output format")

// PNGCompression is the fixed compression level of every PNG written.
const PNGCompression = png.BestSpeed

const jpegQuality = 95

// DecodeFile decodes a PNG, JPEG, GIF, BMP or WebP image. The format is
// sniffed from the content, not the extension.
func DecodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: open image %q: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("overlay: decode image %q: %w", path, err)
	}
	return img, nil
}

// EncodeFile writes img to path using the encoder implied by its extension
// and creates the parent directory if needed. Formats without an alpha
// channel get an opaque copy of img.
func EncodeFile(path string, img image.Image) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("overlay: create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("overlay: create output %q: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := encode(w, img); err != nil {
		file.Close()
		return fmt.Errorf("overlay: encode %q: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("overlay: write %q: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("overlay: close %q: %w", path, err)
	}
	return nil
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encoder := &png.Encoder{CompressionLevel: PNGCompression}
		return encoder.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: jpegQuality})
		}, nil
	case ".bmp":
		return func(w io.Writer, img image.Image) error {
			return bmp.Encode(w, flatten(img))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// flatten drops the alpha channel, keeping the straight (non-premultiplied)
// color of every pixel.
func flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
