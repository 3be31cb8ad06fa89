// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"io"
	"math"

	"github.com/ik5/entrain/schedule"
)

// Stream renders a schedule forward from an offset, one chunk at a time.
// A Stream is not safe for concurrent use; independent streams over the
// same schedule share nothing mutable.
type Stream struct {
	eng    *Engine
	sched  *schedule.Schedule
	states []VoiceState

	offset float64
	pos    int64
	total  int64

	seg Segment
}

// NewStream opens a stream over s at offsetSeconds, clamped to the program
// length. Seeking means opening a new stream: state is derived from the
// offset, not replayed from time zero.
func (e *Engine) NewStream(s *schedule.Schedule, offsetSeconds float64) *Stream {
	if !(offsetSeconds > 0) {
		offsetSeconds = 0
	}

	total := e.sampleIndex(s.ProgramSeconds())
	pos := min(e.sampleIndex(offsetSeconds), total)

	return &Stream{
		eng:    e,
		sched:  s,
		states: NewVoiceStates(s, offsetSeconds),
		offset: math.Min(offsetSeconds, s.ProgramSeconds()),
		pos:    pos,
		total:  total,
	}
}

// RenderSeconds renders the next chunk of up to durationSeconds, shortened
// at the end of the program. It returns io.EOF once the program is
// exhausted. The segment's buffers are reused by the next call.
func (st *Stream) RenderSeconds(durationSeconds float64) (Segment, error) {
	if st.Done() {
		return Segment{}, io.EOF
	}
	if !(durationSeconds > 0) {
		return Segment{}, ErrInvalidDuration
	}
	return st.RenderSamples(st.eng.sampleCount(durationSeconds))
}

// RenderSamples is RenderSeconds with the length given in samples.
func (st *Stream) RenderSamples(n int) (Segment, error) {
	if st.Done() {
		return Segment{}, io.EOF
	}
	if n <= 0 {
		return Segment{}, ErrInvalidDuration
	}

	n = int(min(int64(n), st.total-st.pos))
	st.eng.render(&st.seg, st.sched, st.pos, n, st.states)
	st.pos += int64(n)

	return st.seg, nil
}

func (st *Stream) Schedule() *schedule.Schedule { return st.sched }
func (st *Stream) SampleRate() int              { return st.eng.rate }

// Offset returns the position the stream was opened at, in seconds.
func (st *Stream) Offset() float64 { return st.offset }

// Position returns the program position of the next sample, in seconds.
func (st *Stream) Position() float64 { return float64(st.pos) / float64(st.eng.rate) }

// Total returns the program length including loops, in seconds.
func (st *Stream) Total() float64 { return float64(st.total) / float64(st.eng.rate) }

func (st *Stream) Remaining() float64 { return float64(st.total-st.pos) / float64(st.eng.rate) }

// RemainingSamples returns the number of samples left to render.
func (st *Stream) RemainingSamples() int64 { return st.total - st.pos }

func (st *Stream) Done() bool { return st.pos >= st.total }

// States exposes the per-voice state, for inspection.
func (st *Stream) States() []VoiceState { return st.states }
