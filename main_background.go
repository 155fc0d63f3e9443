package main

import (
	"context"
	"fmt"

	"newsCaster/background"
)

func runPrepare(ctx context.Context, env *environment, args []string) error {
	cfg := env.cfg
	flags := newFlagSet("prepare", env)
	srcDir := flags.String("src", cfg.Paths.Pictures, "directory of source pictures")
	outputDir := flags.String("out", cfg.Paths.Backgrounds, "directory for prepared backgrounds")
	width := flags.Int("width", cfg.Frame.Width, "frame width in pixels")
	height := flags.Int("height", cfg.Frame.Height, "frame height in pixels")
	if err := parseFlags(flags, args); err != nil {
		return err
	}

	summary, err := background.Prepare(ctx, *srcDir, *outputDir, *width, *height, env.logger)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	fmt.Fprintf(env.stdout, "prepared %d/%d backgrounds\n", summary.Succeeded, summary.Total)
	return nil
}
