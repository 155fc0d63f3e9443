// Package background discovers, picks and prepares the images narration is
// drawn over.
package background

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"newsCaster/overlay"
	"newsCaster/segment"
)

// Exts are the background formats the compositor decodes.
var Exts = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp"}

// PrepareExts additionally accepts TIFF sources, which are converted.
var PrepareExts = append([]string{".tiff", ".tif"}, Exts...)

// DefaultWidth and DefaultHeight are the frame size of the final video.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// List returns the background images in dir in natural order.
func List(dir string) ([]string, error) {
	return segment.List(dir, Exts...)
}

// Picker chooses backgrounds uniformly at random with replacement. It is not
// safe for concurrent use.
type Picker struct {
	rng *rand.Rand
}

// NewPicker returns a Picker drawing from rng, or from the global source
// when rng is nil.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

// NewSeededPicker returns a Picker whose choices repeat for the same seed.
func NewSeededPicker(seed uint64) *Picker {
	return NewPicker(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Pick returns one of candidates. It panics if candidates is empty.
func (p *Picker) Pick(candidates []string) string {
	if p == nil || p.rng == nil {
		return candidates[rand.IntN(len(candidates))]
	}
	return candidates[p.rng.IntN(len(candidates))]
}

// Fill scales img to cover width x height and crops the overflow evenly from
// both sides.
func Fill(img image.Image, width, height int) *image.NRGBA {
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
}

// Summary counts the outcome of Prepare.
type Summary struct {
	Total     int
	Succeeded int
}

// Prepare converts every image in srcDir to a width x height PNG named after
// its stem in dstDir. A file that fails is logged and skipped.
func Prepare(ctx context.Context, srcDir, dstDir string, width, height int, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width <= 0 || height <= 0 {
		return Summary{}, fmt.Errorf("background: frame size must be positive, got %dx%d", width, height)
	}

	sources, err := segment.List(srcDir, PrepareExts...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("background source directory missing", zap.String("dir", srcDir))
			return Summary{}, nil
		}
		return Summary{}, err
	}
	if len(sources) == 0 {
		logger.Warn("no images found", zap.String("dir", srcDir))
		return Summary{}, nil
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("background: create %q: %w", dstDir, err)
	}

	summary := Summary{Total: len(sources)}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		dst := filepath.Join(dstDir, segment.Stem(src)+".png")
		if err := prepareOne(src, dst, width, height); err != nil {
			logger.Warn("prepare background failed", zap.String("src", src), zap.Error(err))
			continue
		}
		logger.Debug("prepared background", zap.String("src", src), zap.String("dst", dst))
		summary.Succeeded++
	}
	return summary, nil
}

func prepareOne(src, dst string, width, height int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("background: open %q: %w", src, err)
	}
	return overlay.EncodeFile(dst, Fill(img, width, height))
}
