// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"math"

	"github.com/ik5/entrain/schedule"
)

const (
	DefaultSampleRate = 44100

	// peakCeiling is the highest absolute sample value a rendered chunk may
	// hold after normalization.
	peakCeiling = 0.99

	// sampleTolerance absorbs float error when converting a duration to a
	// sample count, so 0.1 s never turns into one sample too many.
	sampleTolerance = 1e-6

	// maxSampleIndex is 2^63, the first float64 past the int64 range.
	maxSampleIndex = float64(1 << 63)
)

// Engine renders schedules at a fixed sample rate. It holds no mutable
// state and may be shared by any number of streams.
type Engine struct {
	rate int
}

type Option func(*Engine)

// WithSampleRate sets the output sample rate in Hz.
func WithSampleRate(hz int) Option {
	return func(e *Engine) {
		e.rate = hz
	}
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{rate: DefaultSampleRate}
	for _, opt := range opts {
		opt(e)
	}

	if e.rate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, e.rate)
	}
	return e, nil
}

func (e *Engine) SampleRate() int { return e.rate }

// sampleIndex converts a position in seconds to the nearest sample index.
// Positions beyond the int64 range saturate instead of wrapping.
func (e *Engine) sampleIndex(seconds float64) int64 {
	x := math.Round(seconds * float64(e.rate))
	switch {
	case x != x:
		return 0
	case x >= maxSampleIndex:
		return math.MaxInt64
	case x <= -maxSampleIndex:
		return math.MinInt64
	}
	return int64(x)
}

// sampleCount converts a duration to a buffer length: at least one
// sample, rounded up.
func (e *Engine) sampleCount(seconds float64) int {
	if !(seconds > 0) {
		return 1
	}
	n := math.Ceil(seconds*float64(e.rate) - sampleTolerance)
	if n >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return max(1, int(n))
}

// Render mixes durationSeconds of s starting at startSeconds into freshly
// allocated buffers. states carries oscillator phases, noise generators
// and sample cursors between calls and must come from NewVoiceStates for
// the same schedule.
func (e *Engine) Render(s *schedule.Schedule, startSeconds, durationSeconds float64, states []VoiceState) Segment {
	var seg Segment
	e.RenderInto(&seg, s, startSeconds, durationSeconds, states)
	return seg
}

// RenderInto is Render writing into dst, reusing its buffers when they are
// large enough.
func (e *Engine) RenderInto(dst *Segment, s *schedule.Schedule, startSeconds, durationSeconds float64, states []VoiceState) {
	start := max(0, e.sampleIndex(startSeconds))
	e.render(dst, s, start, e.sampleCount(durationSeconds), states)
}

func (e *Engine) render(dst *Segment, s *schedule.Schedule, start int64, count int, states []VoiceState) {
	dst.reset(count)

	for i := range s.Voices {
		if i >= len(states) {
			break
		}

		v := &s.Voices[i]
		if !v.Enabled || v.TotalDurationSeconds <= 0 {
			continue
		}
		e.mixVoice(s, v, &states[i], start, dst.Left, dst.Right)
	}

	if s.OverallVolumeLeft != 1 || s.OverallVolumeRight != 1 {
		gainL := float32(s.OverallVolumeLeft)
		gainR := float32(s.OverallVolumeRight)
		for i := range dst.Left {
			dst.Left[i] *= gainL
			dst.Right[i] *= gainR
		}
	}

	normalize(dst.Left, dst.Right)

	rate := float64(e.rate)
	dst.SampleCount = count
	dst.Start = float64(start) / rate
	dst.Duration = float64(count) / rate
}

// normalize scales both channels down when their joint peak exceeds
// peakCeiling. Quieter chunks are left untouched.
func normalize(left, right []float32) {
	var peak float32
	for i := range left {
		peak = max(peak, abs32(left[i]), abs32(right[i]))
	}

	if peak <= peakCeiling {
		return
	}

	scale := float32(peakCeiling / float64(peak))
	for i := range left {
		left[i] *= scale
		right[i] *= scale
	}
}

func abs32(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ (1 << 31))
}
