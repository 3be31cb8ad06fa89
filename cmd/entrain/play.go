// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/entrain"
)

const (
	playerBufferSize = 250 * time.Millisecond
	statusInterval   = 30 * time.Second
)

func runPlay(ctx context.Context, a *app, args []string) error {
	fs, cf := newFlagSet(a, "play", "[file.gnaural]")
	offset := fs.Float64("offset", 0, "start position in seconds")

	if err := a.setup(fs, cf, args); err != nil {
		return err
	}
	if *offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", errUsage)
	}

	s, err := a.loadSchedule(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	tl := entrain.NewTimeline(eng, s,
		entrain.WithChunkSeconds(a.cfg.ChunkSeconds),
		entrain.WithInitialBufferSeconds(a.cfg.InitialBufferSeconds),
		entrain.WithLogger(a.logger),
	)

	began := time.Now()
	if *offset > 0 {
		err = tl.Seek(ctx, *offset)
	} else {
		a.logger.InfoContext(ctx, "buffering", "seconds", a.cfg.InitialBufferSeconds)
		err = tl.Prime(ctx)
	}
	if err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "buffer ready", "buffered", tl.Buffered(), "took", time.Since(began))

	tsrc := entrain.NewTimelineSource(tl)
	src := entrain.Convert(tsrc, a.cfg.OutputRate, a.cfg.Mono)
	defer src.Close()

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   src.SampleRate(),
		ChannelCount: src.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   playerBufferSize,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	fillCtx, stopFill := context.WithCancel(ctx)
	defer stopFill()
	fillErr := make(chan error, 1)
	go func() { fillErr <- tsrc.Fill(fillCtx, entrain.DefaultFillInterval) }()

	player := otoCtx.NewPlayer(entrain.NewFloat32Reader(src))
	defer player.Close()

	total := tl.Total()
	bytesPerSecond := float64(4 * src.Channels() * src.SampleRate())
	playhead := func() float64 {
		return max(0, tsrc.Position()-float64(player.BufferedSize())/bytesPerSecond)
	}

	a.logger.InfoContext(ctx, "playing",
		"title", s.Metadata.Title,
		"from", formatClock(tl.Offset()),
		"total", formatClock(total),
		"rate", src.SampleRate(),
		"channels", src.Channels(),
	)
	player.Play()

	poll := time.NewTicker(100 * time.Millisecond)
	defer poll.Stop()
	status := time.NewTicker(statusInterval)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			a.logger.InfoContext(ctx, "playback stopped", "position", formatClock(playhead()))
			return ctx.Err()
		case err := <-fillErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("rendering: %w", err)
			}
			a.logger.DebugContext(ctx, "program fully buffered")
			fillErr = nil
		case <-status.C:
			a.logger.InfoContext(ctx, "position",
				"at", formatClock(playhead()),
				"of", formatClock(total),
				"buffered", formatClock(tl.Buffered()),
				"underruns", tsrc.Underruns(),
			)
		case <-poll.C:
			if player.IsPlaying() {
				continue
			}
			if err := player.Err(); err != nil {
				return fmt.Errorf("playback: %w", err)
			}
			a.logger.InfoContext(ctx, "playback finished")
			return nil
		}
	}
}
