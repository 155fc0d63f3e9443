// Package batch composites every segment of a run, one background per
// segment, across a bounded pool of workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"newsCaster/background"
	"newsCaster/overlay"
	"newsCaster/segment"
)

// MaxWorkers caps the default pool size.
const MaxWorkers = 16

// OutputExt is the extension of every composited frame.
const OutputExt = ".png"

// Options configures one batch run. Style, Font and Date are shared by every
// item and never modified.
type Options struct {
	SubtitleDir   string
	BackgroundDir string
	OutputDir     string

	// Workers <= 0 selects DefaultWorkers().
	Workers int

	Style overlay.Style
	Font  *overlay.Font
	// Picker nil draws from the global random source.
	Picker *background.Picker
	// Date zero means the local date when Run starts.
	Date time.Time

	Logger *zap.Logger
}

// Result is the outcome of one segment.
type Result struct {
	Stem       string
	Text       string
	Background string
	Output     string
	Duration   time.Duration
	Err        error
}

// Report summarises a run. Results are in natural stem order.
type Report struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Total     int
	Succeeded int
	Results   []Result
}

// Failed returns the results that carry an error.
func (r Report) Failed() []Result {
	var failed []Result
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// OK reports whether every segment was composited.
func (r Report) OK() bool {
	return r.Succeeded == r.Total
}

// DefaultWorkers is twice the usable CPUs, capped at MaxWorkers.
func DefaultWorkers() int {
	return min(2*runtime.GOMAXPROCS(0), MaxWorkers)
}

// Run composites every text file in SubtitleDir over a randomly chosen image
// from BackgroundDir. A failing segment never stops the others; its error is
// logged and kept in the report. Run only returns an error when the run
// cannot start at all.
func Run(ctx context.Context, opts Options) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	report := Report{RunID: uuid.NewString(), Started: time.Now()}
	logger = logger.With(zap.String("run", report.RunID))

	texts, err := listOrEmpty(opts.SubtitleDir, segment.TextExt)
	if err != nil {
		return report, err
	}
	if len(texts) == 0 {
		logger.Warn("no text files found", zap.String("dir", opts.SubtitleDir))
		report.Finished = time.Now()
		return report, nil
	}
	backgrounds, err := listOrEmpty(opts.BackgroundDir, background.Exts...)
	if err != nil {
		return report, err
	}
	if len(backgrounds) == 0 {
		logger.Warn("no background images found", zap.String("dir", opts.BackgroundDir))
		report.Finished = time.Now()
		return report, nil
	}
	if err := opts.Style.Validate(); err != nil {
		return report, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("batch: create output directory: %w", err)
	}

	font := opts.Font
	if font == nil {
		if font, err = overlay.FallbackFont(); err != nil {
			return report, err
		}
	}
	date := opts.Date
	if date.IsZero() {
		date = report.Started
	}

	report.Total = len(texts)
	report.Results = make([]Result, len(texts))
	for i, text := range texts {
		stem := segment.Stem(text)
		report.Results[i] = Result{
			Stem:       stem,
			Text:       text,
			Background: opts.Picker.Pick(backgrounds),
			Output:     filepath.Join(opts.OutputDir, stem+OutputExt),
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	logger.Info("composing segments",
		zap.Int("segments", len(texts)),
		zap.Int("backgrounds", len(backgrounds)),
		zap.Int("workers", workers))

	var group errgroup.Group
	group.SetLimit(workers)
	for i := range report.Results {
		result := &report.Results[i]
		if err := ctx.Err(); err != nil {
			result.Err = err
			continue
		}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				result.Err = err
				return nil
			}
			started := time.Now()
			result.Err = overlay.Run(overlay.Task{
				Background: result.Background,
				Text:       result.Text,
				Output:     result.Output,
				Style:      opts.Style,
				Font:       font,
				Date:       date,
			})
			result.Duration = time.Since(started)
			return nil
		})
	}
	group.Wait()

	for _, result := range report.Results {
		if result.Err != nil {
			logger.Warn("segment failed",
				zap.String("stem", result.Stem),
				zap.String("background", result.Background),
				zap.Error(result.Err))
			continue
		}
		logger.Debug("segment composited",
			zap.String("stem", result.Stem),
			zap.String("output", result.Output),
			zap.Duration("took", result.Duration))
		report.Succeeded++
	}
	report.Finished = time.Now()
	logger.Info("batch finished",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("total", report.Total),
		zap.Duration("took", report.Finished.Sub(report.Started)))
	return report, nil
}

// listOrEmpty treats a missing directory like an empty one.
func listOrEmpty(dir string, exts ...string) ([]string, error) {
	paths, err := segment.List(dir, exts...)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return paths, err
}
