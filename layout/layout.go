// Package layout wraps narration text into lines that fit a pixel width.
//
// Wrapping is greedy and per character: characters are appended to the
// current line until the next one would push it past the maximum width.
// Source line breaks are hard breaks and are never merged.
package layout

import (
	"iter"
	"slices"
	"strings"
)

// MeasureFunc reports the rendered width of text in pixels.
type MeasureFunc func(text string) int

// Line is one wrapped line of output.
type Line struct {
	Text  string
	Width int
	// Source is the zero-based index of the non-empty source line this
	// line was wrapped from.
	Source int
}

// Paragraph splits text on line breaks, trims every line and drops the
// ones left empty.
func Paragraph(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Wrap lays out a single source line. A maxWidth of zero or less disables
// wrapping. The returned sequence may be ranged over more than once.
func Wrap(line string, measure MeasureFunc, maxWidth int) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		wrap(line, 0, cachedWidths(measure), maxWidth, yield)
	}
}

// Lines lays out every non-empty line of text independently and yields the
// wrapped lines in order.
func Lines(text string, measure MeasureFunc, maxWidth int) iter.Seq[Line] {
	source := Paragraph(text)
	return func(yield func(Line) bool) {
		runeWidth := cachedWidths(measure)
		for i, line := range source {
			if !wrap(line, i, runeWidth, maxWidth, yield) {
				return
			}
		}
	}
}

// Collect materialises a layout sequence.
func Collect(seq iter.Seq[Line]) []Line {
	return slices.Collect(seq)
}

// wrap reports false once yield asks to stop.
func wrap(line string, source int, runeWidth func(rune) int, maxWidth int, yield func(Line) bool) bool {
	if line == "" {
		return true
	}

	start, width := 0, 0
	for i, r := range line {
		w := runeWidth(r)
		// A line always takes at least one character, even one that is
		// wider than maxWidth on its own.
		if maxWidth > 0 && i > start && width+w > maxWidth {
			if !yield(Line{Text: line[start:i], Width: width, Source: source}) {
				return false
			}
			start, width = i, 0
		}
		width += w
	}
	return yield(Line{Text: line[start:], Width: width, Source: source})
}

func cachedWidths(measure MeasureFunc) func(rune) int {
	widths := make(map[rune]int)
	return func(r rune) int {
		if w, ok := widths[r]; ok {
			return w
		}
		w := measure(string(r))
		widths[r] = w
		return w
	}
}
