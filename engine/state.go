// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/noise"
	"github.com/ik5/entrain/schedule"
)

// VoiceState is the synthesis state one stream keeps for one voice. Which
// fields are live depends on the voice type, fixed when the state is
// created: a phase pair for binaural voices, a noise generator for the
// noise colors and a play cursor for sample voices.
type VoiceState struct {
	kind schedule.VoiceType

	phaseL float64
	phaseR float64

	pink  noise.Pink
	white noise.White
	brown noise.Brown

	cursor float64
}

// NewVoiceStates creates fresh state for every voice of s as seen from a
// stream starting at offsetSeconds. Noise seeds and sample cursors derive
// from the offset, so two streams opened at the same offset render the
// same audio.
func NewVoiceStates(s *schedule.Schedule, offsetSeconds float64) []VoiceState {
	base := noise.SeedBase(offsetSeconds)
	states := make([]VoiceState, len(s.Voices))

	for i := range s.Voices {
		v := &s.Voices[i]
		st := &states[i]
		st.kind = v.Type

		switch v.Type {
		case schedule.PinkNoise:
			st.pink = *noise.NewPink(noise.Seed(base, i, noise.PinkPrime))
		case schedule.WhiteNoise:
			st.white = *noise.NewWhite(noise.Seed(base, i, noise.WhitePrime))
		case schedule.BrownNoise:
			st.brown = *noise.NewBrown(noise.Seed(base, i, noise.BrownPrime))
		case schedule.SampleVoice:
			st.cursor = startCursor(v.Sample, offsetSeconds)
		}
	}

	return states
}

// startCursor places the play cursor where a clip looping since time zero
// would be at offsetSeconds.
func startCursor(buf *audio.Buffer, offsetSeconds float64) float64 {
	frames := buf.Frames()
	if frames == 0 || buf.SampleRate <= 0 || !(offsetSeconds > 0) {
		return 0
	}

	pos := math.Mod(offsetSeconds*float64(buf.SampleRate), float64(frames))
	if !(pos >= 0) || pos >= float64(frames) {
		return 0
	}
	return pos
}

// Kind returns the voice type the state was created for.
func (st *VoiceState) Kind() schedule.VoiceType { return st.kind }

// Phase returns the binaural oscillator phases in radians, in [0, 2π).
func (st *VoiceState) Phase() (left, right float64) { return st.phaseL, st.phaseR }

// Cursor returns the sample play position in source frames.
func (st *VoiceState) Cursor() float64 { return st.cursor }
