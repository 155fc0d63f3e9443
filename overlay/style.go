package overlay

import (
	"fmt"
	"image/color"
)

// DefaultDateLayout renders the badge date as 2006-01-02.
const DefaultDateLayout = "2006-01-02"

// Style holds the drawing parameters shared by every segment of a batch.
type Style struct {
	FontSize      float64
	BadgeFontSize float64

	TextColor color.NRGBA
	// BackdropColor alpha is the opacity of the plate behind each line.
	BackdropColor color.NRGBA
	// BadgeColor and BadgeTextColor are always drawn fully opaque.
	BadgeColor     color.NRGBA
	BadgeTextColor color.NRGBA

	LineSpacing int
	StartX      int
	StartY      int
	// MaxWidth bounds each wrapped line. Zero means the image width minus
	// twice StartX.
	MaxWidth int

	Padding      int
	CornerRadius int
	BadgeMargin  int
	BadgePadding int
	DateLayout   string
}

// DefaultStyle is tuned for 1920x1080 frames.
func DefaultStyle() Style {
	return Style{
		FontSize:       30,
		BadgeFontSize:  32,
		TextColor:      color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		BackdropColor:  color.NRGBA{A: 0x99},
		BadgeColor:     color.NRGBA{R: 0xc8, G: 0x10, B: 0x2e, A: 0xff},
		BadgeTextColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		LineSpacing:    40,
		StartX:         50,
		StartY:         120,
		Padding:        10,
		CornerRadius:   12,
		BadgeMargin:    20,
		BadgePadding:   12,
		DateLayout:     DefaultDateLayout,
	}
}

// Validate rejects styles that cannot be drawn.
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("overlay: font size must be positive, got %v", s.FontSize)
	}
	if s.BadgeFontSize <= 0 {
		return fmt.Errorf("overlay: badge font size must be positive, got %v", s.BadgeFontSize)
	}
	if s.MaxWidth < 0 {
		return fmt.Errorf("overlay: max width must not be negative, got %d", s.MaxWidth)
	}
	if s.LineSpacing < 0 || s.Padding < 0 || s.CornerRadius < 0 || s.BadgeMargin < 0 || s.BadgePadding < 0 {
		return fmt.Errorf("overlay: spacing, padding, radius and margins must not be negative")
	}
	return nil
}

// wrapWidth is never below 1, so an image narrower than the margins puts
// every character on its own line instead of disabling wrapping.
func (s Style) wrapWidth(imageWidth int) int {
	if s.MaxWidth > 0 {
		return s.MaxWidth
	}
	return max(imageWidth-2*s.StartX, 1)
}

func (s Style) dateLayout() string {
	if s.DateLayout == "" {
		return DefaultDateLayout
	}
	return s.DateLayout
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}
