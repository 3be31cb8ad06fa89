// SPDX-License-Identifier: EPL-2.0

// Command entrain renders, plays and inspects Gnaural programs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ik5/entrain/engine"
	"github.com/ik5/entrain/internal/config"
	"github.com/ik5/entrain/samples"
	"github.com/ik5/entrain/schedule"
)

const usage = `Usage: entrain <command> [options] [file.gnaural]

Commands:
  render   render a program to a WAV file
  play     play a program on the default audio device
  info     describe a program's metadata and voices
  export   print a program as regenerated XML
  default  print the built-in program

A file argument of "-" reads the program from stdin. Without a file the
built-in program is used. Run "entrain <command> -h" for options.
`

var errUsage = errors.New("usage")

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"render":  runRender,
	"play":    runPlay,
	"info":    runInfo,
	"export":  runExport,
	"default": runDefault,
}

// app carries what every command shares.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	name := args[0]
	if name == "-h" || name == "-help" || name == "help" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "entrain: unknown command %q\n\n%s", name, usage)
		return 2
	}

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, a, args[1:]); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(stderr, "entrain: interrupted")
			return 130
		}
		fmt.Fprintf(stderr, "entrain %s: %v\n", name, err)
		return 1
	}
	return 0
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	logLevel   string
}

func newFlagSet(a *app, name, args string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: entrain %s [options] %s\n\nOptions:\n", name, args)
		fs.PrintDefaults()
	}

	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", os.Getenv("ENTRAIN_CONFIG"), "YAML config file")
	fs.StringVar(&cf.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return fs, cf
}

// setup parses args, then loads the configuration and builds the logger.
func (a *app) setup(fs *flag.FlagSet, cf *commonFlags, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("%w: too many arguments", errUsage)
	}

	cfg, err := config.Load(cf.configPath, false)
	if err != nil {
		return err
	}
	if cf.logLevel != "" {
		if _, err := config.ParseLevel(cf.logLevel); err != nil {
			return err
		}
		cfg.LogLevel = cf.logLevel
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	return nil
}

// loadSchedule reads the program named by path, "-" for stdin or "" for
// the built-in one, and attaches its sample clips.
func (a *app) loadSchedule(ctx context.Context, path string) (*schedule.Schedule, error) {
	var (
		s   *schedule.Schedule
		err error
	)

	switch path {
	case "":
		a.logger.DebugContext(ctx, "using built-in program")
		return schedule.Default(), nil
	case "-":
		s, err = schedule.Parse(a.stdin)
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s, err = schedule.Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", displayName(path), err)
	}

	a.attachSamples(ctx, s, path)
	return s, nil
}

func (a *app) attachSamples(ctx context.Context, s *schedule.Schedule, path string) {
	dir := a.cfg.SampleDir
	if dir == "" {
		dir = "."
		if path != "-" {
			dir = filepath.Dir(path)
		}
	}

	loader := samples.New(os.DirFS(dir), samples.WithLogger(a.logger))
	if n := loader.Attach(ctx, s); n > 0 {
		a.logger.InfoContext(ctx, "sample voices attached", "count", n, "dir", dir)
	}
}

func (a *app) newEngine() (*engine.Engine, error) {
	return engine.New(engine.WithSampleRate(a.cfg.SampleRate))
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
