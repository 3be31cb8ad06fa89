// SPDX-License-Identifier: EPL-2.0

// Package engine synthesizes stereo PCM from schedules.
//
// An Engine has one fixed parameter, the sample rate. Audio is produced by
// a Stream, a forward cursor that owns the synthesis state of every voice
// and renders the program chunk by chunk:
//
//	eng, _ := engine.New(engine.WithSampleRate(48000))
//	st := eng.NewStream(sched, 0)
//	for {
//	    seg, err := st.RenderSeconds(60)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    play(seg.Left, seg.Right)
//	}
//
// # Timing
//
// Positions are whole samples. Entry edges fall on round(seconds × rate)
// and entry progress is a function of the absolute sample index, so
// rendering a range in one call or in many smaller calls yields the same
// samples. Oscillator phase, noise generators and sample cursors carry
// over between calls and across loop boundaries.
//
// # Voices
//
//   - Binaural: two sine oscillators at base ± beat/2, one per ear.
//   - Pink, white and brown noise: seeded generators from package noise.
//   - Sample: the attached clip, looped and resampled by linear
//     interpolation. A voice with no clip is silent.
//
// Mono voices put the same signal on both channels at the mean of the
// left and right volumes.
//
// # Levels
//
// After mixing, each chunk is scaled by the schedule's overall volume and,
// when its peak exceeds 0.99, scaled down to that ceiling. This is a
// per-chunk safety limit, so chunks of different lengths can come out at
// different levels on programs that clip.
//
// # Seeking
//
// Seeking opens a new stream at the target offset. Noise seeds and sample
// cursors derive from the offset and oscillators start at zero phase, so
// the audio after a seek is repeatable but not bit-identical to
// continuous playback reaching the same point.
package engine
