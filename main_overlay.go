package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"newsCaster/background"
	"newsCaster/batch"
	"newsCaster/overlay"
)

const dateFlagLayout = "2006-01-02"

func runCompose(ctx context.Context, env *environment, args []string) error {
	cfg := env.cfg
	flags := newFlagSet("compose", env)
	textDir := flags.String("text", cfg.Paths.Subtitles, "directory of segment text files")
	backgroundDir := flags.String("backgrounds", cfg.Paths.Backgrounds, "directory of candidate background images")
	outputDir := flags.String("out", cfg.Paths.Composited, "directory for composited frames")
	workers := flags.Int("workers", cfg.Workers, "concurrent segments (0 picks from the CPU count)")
	seed := flags.Uint64("seed", 0, "seed background choice for a repeatable run (0 is random)")
	dateText := flags.String("date", "", "badge date as YYYY-MM-DD (default today)")
	if err := parseFlags(flags, args); err != nil {
		return err
	}

	style, err := cfg.Style.overlayStyle()
	if err != nil {
		return fmt.Errorf("compose: style: %w", err)
	}
	date, err := parseBadgeDate(*dateText)
	if err != nil {
		return err
	}
	font, err := overlay.LoadFont(cfg.Font, env.logger)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	if font.Fallback {
		env.logger.Info("rendering with fallback font", zap.String("font", overlay.FallbackFontName))
	}

	var picker *background.Picker
	if *seed != 0 {
		picker = background.NewSeededPicker(*seed)
	}

	report, err := batch.Run(ctx, batch.Options{
		SubtitleDir:   *textDir,
		BackgroundDir: *backgroundDir,
		OutputDir:     *outputDir,
		Workers:       *workers,
		Style:         style,
		Font:          font,
		Picker:        picker,
		Date:          date,
		Logger:        env.logger,
	})
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if len(report.Results) > 0 {
		printReport(env.stdout, report)
	}
	fmt.Fprintf(env.stdout, "composited %d/%d segments\n", report.Succeeded, report.Total)
	return nil
}

// parseBadgeDate reads a YYYY-MM-DD flag in local time. Empty means the
// batch picks today.
func parseBadgeDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.ParseInLocation(dateFlagLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("compose: invalid -date %q: %w", value, err)
	}
	return date, nil
}
