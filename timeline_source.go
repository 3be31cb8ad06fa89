// SPDX-License-Identifier: EPL-2.0

package entrain

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/ik5/entrain/audio"
)

// DefaultFillInterval is how often TimelineSource.Fill checks the playhead.
const DefaultFillInterval = 250 * time.Millisecond

// TimelineSource plays the segments buffered in a Timeline as interleaved
// stereo at the engine rate. Reading never renders: Fill does that on its
// own goroutine, so a device callback only copies samples. When the reader
// catches up with the buffer it outputs silence and counts an underrun.
type TimelineSource struct {
	tl   *Timeline
	rate float64

	cur   TimedSegment
	frame int

	position  atomic.Uint64 // float64 bits
	underruns atomic.Int64
}

var _ audio.Source = (*TimelineSource)(nil)

// NewTimelineSource starts reading tl at its current offset. Call it after
// Prime or Seek and before Fill.
func NewTimelineSource(tl *Timeline) *TimelineSource {
	off := tl.Offset()
	s := &TimelineSource{
		tl:   tl,
		rate: float64(tl.eng.SampleRate()),
		cur:  TimedSegment{Start: off, End: off},
	}
	s.position.Store(math.Float64bits(off))
	return s
}

func (s *TimelineSource) SampleRate() int { return int(s.rate) }
func (s *TimelineSource) Channels() int   { return 2 }
func (s *TimelineSource) BufSize() int    { return 2 * defaultBufferSize }
func (s *TimelineSource) Close() error    { return nil }

// Position returns the program position of the next frame to be read. It
// is safe to call from any goroutine.
func (s *TimelineSource) Position() float64 {
	return math.Float64frombits(s.position.Load())
}

// Underruns counts the reads that ran out of buffered audio.
func (s *TimelineSource) Underruns() int64 { return s.underruns.Load() }

func (s *TimelineSource) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / 2
	written := 0

	for written < frames {
		if s.frame >= len(s.cur.Left) {
			next, ok := s.tl.Next(s.cur.End)
			if !ok {
				if s.tl.Done() {
					if written == 0 {
						return 0, io.EOF
					}
					break
				}

				clear(dst[2*written : 2*frames])
				written = frames
				s.underruns.Add(1)
				break
			}
			s.cur, s.frame = next, 0
		}

		n := min(frames-written, len(s.cur.Left)-s.frame)
		out := dst[2*written : 2*(written+n)]
		left := s.cur.Left[s.frame : s.frame+n]
		right := s.cur.Right[s.frame : s.frame+n]
		for i := range n {
			out[2*i] = left[i]
			out[2*i+1] = right[i]
		}

		s.frame += n
		written += n
	}

	pos := s.cur.Start + float64(s.frame)/s.rate
	s.position.Store(math.Float64bits(pos))
	return 2 * written, nil
}

// Fill keeps the timeline rendering ahead of the reader: every interval it
// passes the playhead to Advance and releases segments already played. It
// returns nil once the program is fully buffered, or the context's error.
// Fill must be the only goroutine rendering on the timeline.
func (s *TimelineSource) Fill(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFillInterval
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		playhead := s.Position()
		if n := s.tl.Release(playhead); n > 0 {
			s.tl.logger.Debug("segments released", slog.Int("count", n), slog.Float64("playhead", playhead))
		}
		if s.tl.Done() {
			return nil
		}

		// a reader that caught up cannot wait for the next chunk mark
		target := playhead + s.tl.chunkSeconds
		if s.tl.Buffered() < target {
			if err := s.tl.RenderUpTo(ctx, target); err != nil {
				return err
			}
		} else if err := s.tl.Advance(ctx, playhead); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
