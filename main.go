package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// command is one subcommand. run receives the arguments after the
// subcommand name.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

// environment is what every subcommand shares.
type environment struct {
	cfg    Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{name: "split", summary: "split a narration script into numbered segment files", run: runSplit},
	{name: "prepare", summary: "resize and crop background images to the frame size", run: runPrepare},
	{name: "compose", summary: "draw every segment onto a random background", run: runCompose},
	{name: "pair", summary: "match frames with narration audio and write a manifest", run: runPair},
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("newsCaster", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFlag := flags.String("config", "", "path to config.yaml (default $"+envConfigPath+" or "+defaultConfigPath+")")
	debug := flags.Bool("debug", false, "enable debug logging")
	flags.Usage = func() { usage(flags) }
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() == 0 {
		usage(flags)
		return exitUsage
	}

	name := flags.Arg(0)
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(flags)
		return exitUsage
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(stderr, "error: build logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	cfg, err := loadConfig(configPath(*configFlag))
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return exitError
	}

	env := &environment{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, env, flags.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		var usageErr usageError
		if errors.As(err, &usageErr) {
			return exitUsage
		}
		logger.Error(cmd.name+" failed", zap.Error(err))
		return exitError
	}
	return exitOK
}

func usage(flags *flag.FlagSet) {
	out := flags.Output()
	fmt.Fprintf(out, "usage: newsCaster [flags] <command> [command flags]\n\ncommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(out, "\nflags:\n")
	flags.PrintDefaults()
}

// usageError marks a bad command line, already reported by the flag set.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// parseFlags parses args into flags, which must use ContinueOnError.
func parseFlags(flags *flag.FlagSet, args []string) error {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err: err}
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(flags.Output(), "unexpected arguments: %v\n", flags.Args())
		return usageError{err: fmt.Errorf("unexpected arguments %v", flags.Args())}
	}
	return nil
}

func newFlagSet(name string, env *environment) *flag.FlagSet {
	flags := flag.NewFlagSet("newsCaster "+name, flag.ContinueOnError)
	flags.SetOutput(env.stderr)
	return flags
}
