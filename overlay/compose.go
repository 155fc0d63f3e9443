// Package overlay composites segment narration onto background frames: a
// date badge in the top-left corner and one translucent plate plus text per
// wrapped line.
package overlay

import (
	"errors"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"newsCaster/layout"
)

// Placement is one piece of text, its measured width and the plate drawn
// behind it.
type Placement struct {
	Text   string
	Source int
	Width  int
	Plate  image.Rectangle
	Dot    fixed.Point26_6
}

// Frame is everything Compose draws on one image.
type Frame struct {
	Badge Placement
	Lines []Placement
}

type faces struct {
	body  font.Face
	badge font.Face
}

func newFaces(f *Font, style Style) (faces, error) {
	body, err := f.NewFace(style.FontSize)
	if err != nil {
		return faces{}, err
	}
	badge, err := f.NewFace(style.BadgeFontSize)
	if err != nil {
		body.Close()
		return faces{}, err
	}
	return faces{body: body, badge: badge}, nil
}

func (fc faces) Close() {
	fc.body.Close()
	fc.badge.Close()
}

// Plan lays out text for an image of the given size without drawing it.
func Plan(text string, f *Font, style Style, size image.Point, date time.Time) (Frame, error) {
	if err := style.Validate(); err != nil {
		return Frame{}, err
	}
	fc, err := newFaces(f, style)
	if err != nil {
		return Frame{}, err
	}
	defer fc.Close()
	return plan(text, fc, style, size, date), nil
}

func plan(text string, fc faces, style Style, size image.Point, date time.Time) Frame {
	var frame Frame

	label := date.Format(style.dateLayout())
	badgeMetrics := fc.badge.Metrics()
	badgeSize := image.Pt(
		font.MeasureString(fc.badge, label).Ceil()+2*style.BadgePadding,
		(badgeMetrics.Ascent+badgeMetrics.Descent).Ceil()+2*style.BadgePadding,
	)
	badgeMin := image.Pt(style.BadgeMargin, style.BadgeMargin)
	frame.Badge = Placement{
		Text:  label,
		Width: badgeSize.X - 2*style.BadgePadding,
		Plate: image.Rectangle{Min: badgeMin, Max: badgeMin.Add(badgeSize)},
		Dot:   fixed.P(badgeMin.X+style.BadgePadding, badgeMin.Y+style.BadgePadding+badgeMetrics.Ascent.Ceil()),
	}

	metrics := fc.body.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	// Line.Width is the sum of each rune's rounded-up advance; kerning
	// between runes is not applied.
	measure := func(s string) int {
		return font.MeasureString(fc.body, s).Ceil()
	}

	x, y := style.StartX, style.StartY
	for line := range layout.Lines(text, measure, style.wrapWidth(size.X)) {
		frame.Lines = append(frame.Lines, Placement{
			Text:   line.Text,
			Source: line.Source,
			Width:  line.Width,
			Plate:  image.Rect(x-style.Padding, y-style.Padding, x+line.Width+style.Padding, y+lineHeight+style.Padding),
			Dot:    fixed.P(x, y+ascent),
		})
		y += lineHeight + style.LineSpacing
	}
	return frame
}

// Compose draws the date badge and the wrapped text onto a copy of src. The
// result always has its origin at (0, 0); src is left unchanged.
func Compose(src image.Image, text string, f *Font, style Style, date time.Time) (*image.RGBA, error) {
	if src == nil {
		return nil, errors.New("overlay: nil source image")
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	fc, err := newFaces(f, style)
	if err != nil {
		return nil, err
	}
	defer fc.Close()

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	frame := plan(text, fc, style, dst.Bounds().Size(), date)

	fillRounded(dst, frame.Badge.Plate, style.CornerRadius, opaque(style.BadgeColor))
	drawText(dst, fc.badge, frame.Badge, opaque(style.BadgeTextColor))

	for _, line := range frame.Lines {
		fillRounded(dst, line.Plate, style.CornerRadius, style.BackdropColor)
		drawText(dst, fc.body, line, style.TextColor)
	}
	return dst, nil
}

func drawText(dst *image.RGBA, face font.Face, p Placement, c color.NRGBA) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  p.Dot,
	}
	drawer.DrawString(p.Text)
}

func fillRounded(dst *image.RGBA, r image.Rectangle, radius int, c color.NRGBA) {
	if c.A == 0 || r.Empty() {
		return
	}
	mask := roundedMask(r, radius)
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}

// kappa places cubic control points so each corner approximates a quarter
// circle.
const kappa = 0.5522848

// roundedMask rasterises an anti-aliased rectangle with circular corners
// covering r.
func roundedMask(r image.Rectangle, radius int) *image.Alpha {
	mask := image.NewAlpha(r)
	w, h := float32(r.Dx()), float32(r.Dy())
	rad := float32(clampRadius(r, radius))
	k := rad * kappa

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.MoveTo(rad, 0)
	z.LineTo(w-rad, 0)
	z.CubeTo(w-rad+k, 0, w, rad-k, w, rad)
	z.LineTo(w, h-rad)
	z.CubeTo(w, h-rad+k, w-rad+k, h, w-rad, h)
	z.LineTo(rad, h)
	z.CubeTo(rad-k, h, 0, h-rad+k, 0, h-rad)
	z.LineTo(0, rad)
	z.CubeTo(0, rad-k, rad-k, 0, rad, 0)
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func clampRadius(r image.Rectangle, radius int) int {
	return max(min(radius, r.Dx()/2, r.Dy()/2), 0)
}
