// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"

	"github.com/ik5/entrain/noise"
	"github.com/ik5/entrain/schedule"
	"github.com/ik5/entrain/utils"
)

const twoPi = 2 * math.Pi

// span is one entry placed on the absolute sample timeline of a loop.
type span struct {
	entry *schedule.Entry
	first int64
	len   float64
}

// values interpolates the entry at absolute sample n. Progress runs from 0
// at the entry's first sample to 1 at the first sample of the next entry.
func (sp *span) values(n int64) schedule.Values {
	return sp.entry.ValuesAt(float64(n-sp.first) / sp.len)
}

// mixVoice adds v's contribution to the absolute sample window that
// starts at start and spans len(left) samples.
func (e *Engine) mixVoice(s *schedule.Schedule, v *schedule.Voice, st *VoiceState, start int64, left, right []float32) {
	rate := float64(e.rate)
	loopLen := s.TotalDurationSeconds
	loops := max(1, s.Metadata.Loops)
	end := start + int64(len(left))

	first := int(math.Floor(float64(start) / rate / loopLen))
	last := min(loops, int(math.Ceil(float64(end)/rate/loopLen)))
	// rounded entry edges can move a sample across a loop boundary
	first = max(0, first-1)
	last = min(loops, last+1)

	for k := first; k < last; k++ {
		base := float64(k) * loopLen
		if e.sampleIndex(base) >= end {
			break
		}
		if e.sampleIndex(base+v.LoopDurationSeconds) <= start {
			continue
		}

		for i := range v.Entries {
			e.mixEntry(v, &v.Entries[i], st, base, start, left, right)
		}
		if v.Tail != nil {
			e.mixEntry(v, v.Tail, st, base, start, left, right)
		}
	}
}

// mixEntry renders the part of one entry, placed at loopBase, that falls
// inside the window.
func (e *Engine) mixEntry(v *schedule.Voice, entry *schedule.Entry, st *VoiceState, loopBase float64, start int64, left, right []float32) {
	a := e.sampleIndex(loopBase + entry.Offset)
	b := e.sampleIndex(loopBase + entry.End())
	if b <= a {
		return
	}

	lo := max(a, start)
	hi := min(b, start+int64(len(left)))
	if hi <= lo {
		return
	}

	sp := span{entry: entry, first: a, len: float64(b - a)}
	l := left[lo-start : hi-start]
	r := right[lo-start : hi-start]

	switch st.kind {
	case schedule.Binaural:
		e.mixBinaural(st, v.Mono, &sp, lo, l, r)
	case schedule.PinkNoise:
		mixNoise(&st.pink, true, v.Mono, &sp, lo, l, r)
	case schedule.WhiteNoise:
		mixNoise(&st.white, false, v.Mono, &sp, lo, l, r)
	case schedule.BrownNoise:
		mixNoise(&st.brown, false, v.Mono, &sp, lo, l, r)
	case schedule.SampleVoice:
		e.mixSample(st, v, &sp, lo, l, r)
	}
}

func advancePhase(phase, delta float64) float64 {
	phase += delta
	if phase >= twoPi {
		phase = math.Mod(phase, twoPi)
	}
	return phase
}

// mixBinaural runs the left and right oscillators at base ± beatHalf. The
// phase is advanced before each sample is taken.
func (e *Engine) mixBinaural(st *VoiceState, mono bool, sp *span, n int64, left, right []float32) {
	rate := float64(e.rate)

	for i := range left {
		val := sp.values(n + int64(i))
		fl, fr := val.Frequencies()
		st.phaseL = advancePhase(st.phaseL, twoPi*fl/rate)
		st.phaseR = advancePhase(st.phaseR, twoPi*fr/rate)

		gl, gr := val.VolL, val.VolR
		if mono {
			gl = val.MeanGain()
			gr = gl
		}

		left[i] += float32(math.Sin(st.phaseL) * gl)
		right[i] += float32(math.Sin(st.phaseR) * gr)
	}
}

// mixNoise draws one value per channel, or one value for both channels on
// mono voices. Pink voices always draw a pair and average it when mono.
func mixNoise(gen noise.Generator, pairs, mono bool, sp *span, n int64, left, right []float32) {
	for i := range left {
		val := sp.values(n + int64(i))

		var l, r float64
		switch {
		case pairs:
			l = gen.Next()
			r = gen.Next()
			if mono {
				l = (l + r) * 0.5
				r = l
			}
		case mono:
			l = gen.Next()
			r = l
		default:
			l = gen.Next()
			r = gen.Next()
		}

		if mono {
			g := val.MeanGain()
			left[i] += float32(l * g)
			right[i] += float32(r * g)
			continue
		}
		left[i] += float32(l * val.VolL)
		right[i] += float32(r * val.VolR)
	}
}

// mixSample loops the attached clip, stepping the cursor by the ratio of
// the clip rate to the engine rate and interpolating between frames. A
// voice without a clip stays silent.
func (e *Engine) mixSample(st *VoiceState, v *schedule.Voice, sp *span, n int64, left, right []float32) {
	buf := v.Sample
	frames := buf.Frames()
	if frames == 0 {
		return
	}

	step := 1.0
	if buf.SampleRate > 0 {
		step = float64(buf.SampleRate) / float64(e.rate)
	}

	srcL := buf.Left
	srcR := buf.Right
	if len(srcR) < frames {
		srcR = nil
	}
	monoMix := v.Mono || srcR == nil
	if srcR == nil {
		srcR = srcL
	}

	pos := st.cursor
	size := float64(frames)
	if !(pos >= 0) || pos >= size {
		pos = 0
	}
	for i := range left {
		val := sp.values(n + int64(i))

		i0 := int(pos)
		i1 := i0 + 1
		if i1 >= frames {
			i1 = 0
		}
		frac := pos - float64(i0)

		l := utils.Lerp(float64(srcL[i0]), float64(srcL[i1]), frac)
		r := utils.Lerp(float64(srcR[i0]), float64(srcR[i1]), frac)

		if monoMix {
			m := (l + r) * 0.5
			g := val.MeanGain()
			left[i] += float32(m * g)
			right[i] += float32(m * g)
		} else {
			left[i] += float32(l * val.VolL)
			right[i] += float32(r * val.VolR)
		}

		pos += step
		if pos >= size {
			pos = math.Mod(pos, size)
		}
	}
	st.cursor = pos
}
