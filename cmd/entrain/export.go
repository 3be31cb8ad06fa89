// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"

	"github.com/ik5/entrain/schedule"
)

func runExport(ctx context.Context, a *app, args []string) error {
	fs, cf := newFlagSet(a, "export", "[file.gnaural]")
	if err := a.setup(fs, cf, args); err != nil {
		return err
	}

	s, err := a.loadSchedule(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(a.stdout); err != nil {
		return fmt.Errorf("writing program: %w", err)
	}
	return nil
}

func runDefault(_ context.Context, a *app, args []string) error {
	fs, cf := newFlagSet(a, "default", "")
	if err := a.setup(fs, cf, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return errUsage
	}

	_, err := a.stdout.Write(schedule.DefaultSource())
	return err
}
