// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/ik5/entrain"
)

func runRender(ctx context.Context, a *app, args []string) error {
	fs, cf := newFlagSet(a, "render", "[file.gnaural]")
	out := fs.String("o", "", "output WAV file (default: <input>.wav)")
	offset := fs.Float64("offset", 0, "start position in seconds")
	duration := fs.Float64("duration", 0, "seconds to render; 0 renders to the end")
	rate := fs.Int("rate", 0, "output sample rate; 0 keeps the engine rate")
	mono := fs.Bool("mono", false, "fold the output to one channel")

	if err := a.setup(fs, cf, args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rate":
			a.cfg.OutputRate = *rate
		case "mono":
			a.cfg.Mono = *mono
		}
	})
	if *offset < 0 || *duration < 0 || a.cfg.OutputRate < 0 {
		return fmt.Errorf("%w: offset, duration and rate must not be negative", errUsage)
	}

	in := fs.Arg(0)
	s, err := a.loadSchedule(ctx, in)
	if err != nil {
		return err
	}
	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	outPath := *out
	if outPath == "" {
		outPath = outputName(in, s.Metadata.Title)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	st := eng.NewStream(s, *offset)
	end := st.Total()
	if *duration > 0 {
		end = min(end, st.Position()+*duration)
	}

	a.logger.InfoContext(ctx, "rendering",
		"title", s.Metadata.Title,
		"from", st.Position(),
		"to", end,
		"out", outPath,
	)

	var progress entrain.Progress
	if isTerminal(a.stderr) {
		progress = newProgressLine(a.stderr, st.Position(), end)
	}

	frames, err := entrain.ExportWAV(ctx, f, st, entrain.OutputOptions{
		SampleRate:   a.cfg.OutputRate,
		Mono:         a.cfg.Mono,
		ChunkSeconds: a.cfg.ChunkSeconds,
		Duration:     *duration,
	}, progress)
	if progress != nil {
		fmt.Fprintln(a.stderr)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "render complete", "out", outPath, "frames", frames)
	return nil
}

// outputName derives the WAV name from the input path, or from the title
// when the program came from stdin or the built-in default.
func outputName(in, title string) string {
	if in != "" && in != "-" {
		return strings.TrimSuffix(in, filepath.Ext(in)) + ".wav"
	}

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if name == "" {
		name = "entrain"
	}
	return name + ".wav"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newProgressLine redraws a single status line whenever the whole percent
// changes.
func newProgressLine(w io.Writer, start, end float64) entrain.Progress {
	last := -1
	span := end - start
	return func(position, _ float64) {
		pct := 100
		if span > 0 {
			pct = int(min(100, 100*(position-start)/span))
		}
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(w, "\r%s / %s  %3d%%", formatClock(position), formatClock(end), pct)
	}
}

// formatClock prints seconds as h:mm:ss.
func formatClock(sec float64) string {
	total := int(max(0, sec))
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}
