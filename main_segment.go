package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"newsCaster/segment"
)

func runSplit(ctx context.Context, env *environment, args []string) error {
	flags := newFlagSet("split", env)
	script := flags.String("script", env.cfg.Paths.Script, "narration script to split")
	outputDir := flags.String("out", env.cfg.Paths.Subtitles, "directory for the numbered segment files")
	if err := parseFlags(flags, args); err != nil {
		return err
	}

	text, err := segment.ReadText(*script)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	paragraphs := segment.SplitScript(text)
	if len(paragraphs) == 0 {
		env.logger.Warn("script has no paragraphs", zap.String("script", *script))
		fmt.Fprintln(env.stdout, "wrote 0 segments")
		return nil
	}

	paths, err := segment.WriteSegments(*outputDir, paragraphs)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	env.logger.Debug("segments written", zap.Strings("files", paths))
	fmt.Fprintf(env.stdout, "wrote %d segments to %s\n", len(paths), *outputDir)
	return nil
}

func runPair(ctx context.Context, env *environment, args []string) error {
	flags := newFlagSet("pair", env)
	imageDir := flags.String("images", env.cfg.Paths.Composited, "directory of composited frames")
	audioDir := flags.String("audio", env.cfg.Paths.Audio, "directory of narration audio")
	manifest := flags.String("out", env.cfg.Paths.Manifest, "manifest file to write")
	if err := parseFlags(flags, args); err != nil {
		return err
	}

	pairs, err := segment.MatchPairs(*imageDir, *audioDir)
	if err != nil {
		return fmt.Errorf("pair: %w", err)
	}
	if err := segment.WriteManifest(*manifest, pairs); err != nil {
		return fmt.Errorf("pair: %w", err)
	}
	fmt.Fprintf(env.stdout, "paired %d segments into %s\n", len(pairs), *manifest)
	return nil
}
