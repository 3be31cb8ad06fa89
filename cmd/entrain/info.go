// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ik5/entrain/schedule"
)

func runInfo(ctx context.Context, a *app, args []string) error {
	fs, cf := newFlagSet(a, "info", "[file.gnaural]")
	if err := a.setup(fs, cf, args); err != nil {
		return err
	}

	s, err := a.loadSchedule(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	writeInfo(a, s)
	return nil
}

func writeInfo(a *app, s *schedule.Schedule) {
	md := s.Metadata
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Title:\t%s\n", md.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", md.Author)
	if md.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", md.Description)
	}
	fmt.Fprintf(tw, "Loop length:\t%s\n", formatClock(s.TotalDurationSeconds))
	fmt.Fprintf(tw, "Loops:\t%d\n", md.Loops)
	fmt.Fprintf(tw, "Program length:\t%s\n", formatClock(s.ProgramSeconds()))
	fmt.Fprintf(tw, "Overall volume:\t%.2f / %.2f\n", s.OverallVolumeLeft, s.OverallVolumeRight)
	fmt.Fprintf(tw, "Entries:\t%d\n", s.EntryCount())
	tw.Flush()

	fmt.Fprintln(a.stdout)
	tw = tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tENTRIES\tLENGTH\tSTATE\tDESCRIPTION")
	for _, v := range s.Voices {
		state := "on"
		switch {
		case v.Muted:
			state = "muted"
		case !v.Enabled:
			state = "empty"
		case v.Type == schedule.SampleVoice && v.Sample == nil:
			state = "silent"
		}

		desc := v.Description
		if v.Type == schedule.SampleVoice && v.File != "" {
			desc = fmt.Sprintf("%s [%s]", desc, v.File)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
			v.ID, v.Type, len(v.Entries), formatClock(v.EntryDurationSeconds), state, desc)
	}
	tw.Flush()
}
