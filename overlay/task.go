package overlay

import (
	"errors"
	"fmt"
	"time"

	"newsCaster/layout"
	"newsCaster/segment"
)

// ErrNoText is returned when a segment has no non-empty line to draw.
var ErrNoText = errors.New("overlay: segment text is empty")

// Task fully describes one composite: which background, which text and
// where the result goes.
type Task struct {
	Background string
	Text       string
	Output     string
	Style      Style
	// Font defaults to the embedded fallback when nil.
	Font *Font
	// Date is rendered in the badge. The zero value means today.
	Date time.Time
}

// Run decodes the background, lays out the segment text, composites and
// writes the output. No output file is written unless every step before
// encoding succeeded.
func Run(task Task) error {
	text, err := segment.ReadText(task.Text)
	if err != nil {
		return err
	}
	if len(layout.Paragraph(text)) == 0 {
		return fmt.Errorf("%w: %s", ErrNoText, task.Text)
	}

	src, err := DecodeFile(task.Background)
	if err != nil {
		return err
	}

	f := task.Font
	if f == nil {
		if f, err = FallbackFont(); err != nil {
			return err
		}
	}
	date := task.Date
	if date.IsZero() {
		date = time.Now()
	}

	result, err := Compose(src, text, f, task.Style, date)
	if err != nil {
		return err
	}
	return EncodeFile(task.Output, result)
}
