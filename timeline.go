// SPDX-License-Identifier: EPL-2.0

package entrain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/ik5/entrain/engine"
	"github.com/ik5/entrain/schedule"
)

const (
	DefaultChunkSeconds         = 60.0
	DefaultInitialBufferSeconds = 600.0
	// DefaultSeekBufferSeconds is rendered right after a seek so playback
	// can resume before the full initial buffer exists.
	DefaultSeekBufferSeconds = 15.0

	bufferEpsilon = 1e-6
)

// TimedSegment is a rendered chunk placed on the program timeline. The
// sample slices are owned by the timeline's caller once returned.
type TimedSegment struct {
	Start float64
	End   float64
	Left  []float32
	Right []float32
}

func (s TimedSegment) Duration() float64 { return s.End - s.Start }

// Timeline keeps a window of rendered audio ahead of a playhead. It owns
// one stream at a time; seeking replaces the stream and drops the buffer.
// Buffered time is the sum of the durations the stream reported, which
// stays exact across many chunks.
//
// The rendering methods (RenderUpTo, Prime, Seek, Advance) must be called
// from one goroutine. Buffered, Done, Segments, SegmentsFrom, Next and
// Release may be called from others while rendering runs.
type Timeline struct {
	eng    *engine.Engine
	sched  *schedule.Schedule
	stream *engine.Stream
	logger *slog.Logger

	chunkSeconds   float64
	initialSeconds float64
	seekSeconds    float64

	nextMark float64

	mtx      sync.RWMutex
	segments []TimedSegment
	buffered float64
	complete bool
}

type TimelineOption func(*Timeline)

func WithChunkSeconds(sec float64) TimelineOption {
	return func(t *Timeline) {
		if sec > 0 {
			t.chunkSeconds = sec
		}
	}
}

func WithInitialBufferSeconds(sec float64) TimelineOption {
	return func(t *Timeline) {
		if sec >= 0 {
			t.initialSeconds = sec
		}
	}
}

func WithSeekBufferSeconds(sec float64) TimelineOption {
	return func(t *Timeline) {
		if sec >= 0 {
			t.seekSeconds = sec
		}
	}
}

func WithLogger(logger *slog.Logger) TimelineOption {
	return func(t *Timeline) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTimeline opens a timeline over s positioned at the program start.
// Nothing is rendered until Prime or RenderUpTo.
func NewTimeline(eng *engine.Engine, s *schedule.Schedule, opts ...TimelineOption) *Timeline {
	t := &Timeline{
		eng:            eng,
		sched:          s,
		logger:         slog.Default(),
		chunkSeconds:   DefaultChunkSeconds,
		initialSeconds: DefaultInitialBufferSeconds,
		seekSeconds:    DefaultSeekBufferSeconds,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.reset(0)
	return t
}

func (t *Timeline) reset(offset float64) {
	st := t.eng.NewStream(t.sched, offset)

	t.mtx.Lock()
	t.stream = st
	t.segments = nil
	t.buffered = st.Offset()
	t.complete = st.Done()
	t.mtx.Unlock()

	t.nextMark = math.Floor(st.Offset()/t.chunkSeconds)*t.chunkSeconds + t.chunkSeconds
}

func (t *Timeline) Schedule() *schedule.Schedule { return t.sched }

// Total returns the program length in seconds.
func (t *Timeline) Total() float64 { return t.stream.Total() }

// Offset returns the position the current stream was opened at.
func (t *Timeline) Offset() float64 { return t.stream.Offset() }

// Buffered returns the program position up to which audio is rendered.
func (t *Timeline) Buffered() float64 {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.buffered
}

// Done reports whether the whole remaining program is buffered.
func (t *Timeline) Done() bool {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.complete
}

// Segments returns a snapshot of the buffered segments in program order.
func (t *Timeline) Segments() []TimedSegment {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return append([]TimedSegment(nil), t.segments...)
}

// RenderUpTo renders chunks until target seconds are buffered or the
// program ends. The last chunk is shortened to land on target. ctx is
// checked before every chunk.
func (t *Timeline) RenderUpTo(ctx context.Context, target float64) error {
	target = math.Min(target, t.Total())

	for t.buffered < target-bufferEpsilon && !t.stream.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := math.Min(target-t.buffered, t.chunkSeconds)
		seg, err := t.stream.RenderSeconds(chunk)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		t.store(seg)
	}
	return nil
}

func (t *Timeline) store(seg engine.Segment) {
	c := seg.Clone()

	t.mtx.Lock()
	start := t.buffered
	if n := len(t.segments); n > 0 {
		start = t.segments[n-1].End
	}
	t.segments = append(t.segments, TimedSegment{
		Start: start,
		End:   start + seg.Duration,
		Left:  c.Left,
		Right: c.Right,
	})
	t.buffered = start + seg.Duration
	t.complete = t.stream.Done()
	t.mtx.Unlock()

	t.logger.Debug("segment rendered",
		slog.Float64("start", start),
		slog.Float64("duration", seg.Duration),
		slog.Float64("peak", float64(seg.Peak())),
		slog.Float64("buffered", t.buffered))
}

// Prime renders the initial buffer from the current offset.
func (t *Timeline) Prime(ctx context.Context) error {
	return t.RenderUpTo(ctx, t.Offset()+t.initialSeconds)
}

// Seek moves the timeline to offset seconds, clamped to the program, and
// renders the short seek buffer. Earlier segments are discarded.
func (t *Timeline) Seek(ctx context.Context, offset float64) error {
	offset = math.Max(0, math.Min(offset, t.Total()))
	t.reset(offset)

	t.logger.Debug("timeline seek", slog.Float64("offset", t.Offset()))
	return t.RenderUpTo(ctx, t.Offset()+t.seekSeconds)
}

// Advance tells the timeline where playback is. Each time the playhead
// crosses a chunk boundary another chunk is queued past the buffered end.
func (t *Timeline) Advance(ctx context.Context, playhead float64) error {
	if playhead < t.nextMark {
		return nil
	}
	for playhead >= t.nextMark {
		t.nextMark += t.chunkSeconds
	}
	return t.RenderUpTo(ctx, t.buffered+t.chunkSeconds)
}

// SegmentsFrom returns the buffered segments that still have audio at or
// after offset.
func (t *Timeline) SegmentsFrom(offset float64) []TimedSegment {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	for i, seg := range t.segments {
		if seg.End > offset {
			return append([]TimedSegment(nil), t.segments[i:]...)
		}
	}
	return nil
}

// Next returns the first buffered segment that ends after offset.
func (t *Timeline) Next(offset float64) (TimedSegment, bool) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	for _, seg := range t.segments {
		if seg.End > offset+bufferEpsilon {
			return seg, true
		}
	}
	return TimedSegment{}, false
}

// Release drops segments that end at or before offset and returns how
// many were dropped.
func (t *Timeline) Release(offset float64) int {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	n := 0
	for n < len(t.segments) && t.segments[n].End <= offset {
		n++
	}
	if n > 0 {
		t.segments = append(t.segments[:0:0], t.segments[n:]...)
	}
	return n
}
