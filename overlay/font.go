package overlay

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FallbackFontName identifies the embedded font used when no font file can
// be loaded.
const FallbackFontName = "goregular"

// Font is a parsed font shared by every task of a batch. A parsed font is
// safe for concurrent use; faces created from it are not, so each
// composite creates its own.
type Font struct {
	// Path is the file the font was loaded from, or FallbackFontName.
	Path string
	// Fallback reports whether the embedded font was substituted.
	Fallback bool

	parsed *opentype.Font
}

var (
	fallbackOnce sync.Once
	fallbackFont *opentype.Font
	fallbackErr  error
)

// loadFallback parses the embedded Go regular font once.
func loadFallback() (*opentype.Font, error) {
	fallbackOnce.Do(func() {
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fallbackErr = fmt.Errorf("overlay: parse embedded font: %w", err)
			return
		}
		fallbackFont = parsed
	})
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	return fallbackFont, nil
}

// FallbackFont returns the embedded font.
func FallbackFont() (*Font, error) {
	parsed, err := loadFallback()
	if err != nil {
		return nil, err
	}
	return &Font{Path: FallbackFontName, Fallback: true, parsed: parsed}, nil
}

// LoadFont parses the TTF/OTF file at path, or the first face of a TTC/OTC
// collection. A missing or unreadable font is not an error: the embedded
// fallback is returned and a warning logged.
func LoadFont(path string, logger *zap.Logger) (*Font, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path = strings.TrimSpace(path)
	if path == "" {
		logger.Debug("no font configured, using fallback", zap.String("font", FallbackFontName))
		return FallbackFont()
	}

	parsed, err := parseFontFile(path)
	if err != nil {
		logger.Warn("font unavailable, using fallback",
			zap.String("path", path),
			zap.String("font", FallbackFontName),
			zap.Error(err))
		return FallbackFont()
	}
	return &Font{Path: path, parsed: parsed}, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	collection, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if collection.NumFonts() == 0 {
		return nil, errors.New("parse font: collection is empty")
	}
	parsed, err := collection.Font(0)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return parsed, nil
}

// NewFace creates a face at the given pixel size. Callers must Close it.
func (f *Font) NewFace(size float64) (font.Face, error) {
	if f == nil || f.parsed == nil {
		return nil, errors.New("overlay: font not loaded")
	}
	if size <= 0 {
		return nil, fmt.Errorf("overlay: font size must be positive, got %v", size)
	}
	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: create font face: %w", err)
	}
	return face, nil
}
