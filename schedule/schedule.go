// SPDX-License-Identifier: EPL-2.0

package schedule

import (
	"math"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/utils"
)

// Limits applied to parsed and assembled programs.
const (
	MaxVolume     = 1.5
	DefaultVolume = 0.7

	// tailEpsilon is the smallest gap (in seconds) between a voice's own
	// content and the program length that still gets a tail entry.
	tailEpsilon = 1e-6
)

// VoiceType selects the signal source of a voice.
type VoiceType int

const (
	Binaural VoiceType = iota
	PinkNoise
	SampleVoice
	WhiteNoise
	BrownNoise
)

var voiceTypeNames = [...]string{
	Binaural:    "binaural",
	PinkNoise:   "pink",
	SampleVoice: "sample",
	WhiteNoise:  "white",
	BrownNoise:  "brown",
}

// Valid reports whether t is one of the known voice types.
func (t VoiceType) Valid() bool {
	return t >= Binaural && t <= BrownNoise
}

func (t VoiceType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return voiceTypeNames[t]
}

// Metadata is the descriptive part of a program.
type Metadata struct {
	Title       string
	Author      string
	Description string
	Version     string
	// TotalTime is the declared program length in seconds; 0 when absent.
	TotalTime float64
	Loops     int
}

// Values are the interpolated parameters of an entry at some progress.
type Values struct {
	Base     float64
	BeatHalf float64
	VolL     float64
	VolR     float64
}

// Frequencies returns the left and right oscillator frequencies, never
// negative.
func (v Values) Frequencies() (left, right float64) {
	return math.Max(0, v.Base+v.BeatHalf), math.Max(0, v.Base-v.BeatHalf)
}

// MeanGain is the gain used on both channels by mono voices.
func (v Values) MeanGain() float64 {
	return 0.5 * (v.VolL + v.VolR)
}

// Entry is one keyframe of a voice. Its values ramp linearly by the
// spreads over Duration seconds.
type Entry struct {
	Duration float64
	// Offset is the entry start, in seconds, relative to the voice start.
	Offset float64

	BaseStart     float64
	BeatHalfStart float64
	VolLStart     float64
	VolRStart     float64

	BaseSpread     float64
	BeatHalfSpread float64
	VolLSpread     float64
	VolRSpread     float64
}

// End returns the entry end relative to the voice start.
func (e *Entry) End() float64 {
	return e.Offset + e.Duration
}

// ValuesAt interpolates the entry at progress, clamped to [0,1].
func (e *Entry) ValuesAt(progress float64) Values {
	p := utils.Clamp(progress, 0, 1)
	return Values{
		Base:     e.BaseStart + e.BaseSpread*p,
		BeatHalf: e.BeatHalfStart + e.BeatHalfSpread*p,
		VolL:     e.VolLStart + e.VolLSpread*p,
		VolR:     e.VolRStart + e.VolRSpread*p,
	}
}

// Voice is one signal source of a program.
type Voice struct {
	ID          int
	Type        VoiceType
	Description string
	Mono        bool
	Muted       bool
	// File names the clip of a SampleVoice, relative to the sample root.
	File string
	// Enabled is false for muted voices and voices without entries.
	Enabled bool

	Entries []Entry

	EntryDurationSeconds float64
	TotalDurationSeconds float64
	LoopDurationSeconds  float64

	// Tail pads the voice to the program length with the final values of
	// its last entry. Nil when no padding is needed.
	Tail *Entry

	// Sample is the decoded clip of a SampleVoice, set by a loader before
	// rendering. A nil Sample renders as silence.
	Sample *audio.Buffer
}

// Schedule is a parsed program.
type Schedule struct {
	Metadata Metadata
	Voices   []Voice

	// TotalDurationSeconds is the length of one loop: the largest of the
	// declared total, the longest voice and one second.
	TotalDurationSeconds float64

	OverallVolumeLeft  float64
	OverallVolumeRight float64
}

// ProgramSeconds returns the full program length including all loops.
func (s *Schedule) ProgramSeconds() float64 {
	return s.TotalDurationSeconds * float64(max(1, s.Metadata.Loops))
}

// EntryCount returns the number of real entries over all voices.
func (s *Schedule) EntryCount() int {
	n := 0
	for i := range s.Voices {
		n += len(s.Voices[i].Entries)
	}
	return n
}

// New assembles a program from raw voices. Only the start values and
// durations of the entries are read; New drops entries with a
// non-positive duration, assigns offsets and spreads, derives the program
// length and pads short voices with a tail. Overall volumes default to 1.
func New(md Metadata, voices []Voice) *Schedule {
	md.Loops = max(1, md.Loops)

	s := &Schedule{
		Metadata:           md,
		Voices:             make([]Voice, len(voices)),
		OverallVolumeLeft:  1,
		OverallVolumeRight: 1,
	}

	longest := 0.0
	for i, v := range voices {
		v.ID = i
		v.Entries = layoutEntries(v.Entries)
		v.Enabled = !v.Muted && len(v.Entries) > 0
		v.Tail = nil
		v.EntryDurationSeconds = 0
		if n := len(v.Entries); n > 0 {
			v.EntryDurationSeconds = v.Entries[n-1].End()
		}
		v.TotalDurationSeconds = v.EntryDurationSeconds
		v.LoopDurationSeconds = v.EntryDurationSeconds
		longest = max(longest, v.EntryDurationSeconds)
		s.Voices[i] = v
	}

	s.TotalDurationSeconds = max(md.TotalTime, longest, 1)
	for i := range s.Voices {
		extend(&s.Voices[i], s.TotalDurationSeconds)
	}

	return s
}

// layoutEntries copies the usable entries, clamps their values and fills
// offsets and spreads. The last entry ramps toward the first one.
func layoutEntries(in []Entry) []Entry {
	out := make([]Entry, 0, len(in))
	offset := 0.0
	for _, e := range in {
		if !(e.Duration > 0) {
			continue
		}
		out = append(out, Entry{
			Duration:      e.Duration,
			Offset:        offset,
			BaseStart:     math.Max(0, e.BaseStart),
			BeatHalfStart: math.Max(0, e.BeatHalfStart),
			VolLStart:     utils.Clamp(e.VolLStart, 0, MaxVolume),
			VolRStart:     utils.Clamp(e.VolRStart, 0, MaxVolume),
		})
		offset += e.Duration
	}

	for i := range out {
		next := &out[(i+1)%len(out)]
		cur := &out[i]
		cur.BaseSpread = next.BaseStart - cur.BaseStart
		cur.BeatHalfSpread = next.BeatHalfStart - cur.BeatHalfStart
		cur.VolLSpread = next.VolLStart - cur.VolLStart
		cur.VolRSpread = next.VolRStart - cur.VolRStart
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// extend pads v up to length seconds with a constant tail entry.
func extend(v *Voice, length float64) {
	if len(v.Entries) == 0 || v.EntryDurationSeconds <= 0 {
		return
	}

	gap := length - v.EntryDurationSeconds
	if gap <= tailEpsilon {
		return
	}

	last := &v.Entries[len(v.Entries)-1]
	final := last.ValuesAt(1)
	v.Tail = &Entry{
		Duration:      gap,
		Offset:        v.EntryDurationSeconds,
		BaseStart:     final.Base,
		BeatHalfStart: final.BeatHalf,
		VolLStart:     final.VolL,
		VolRStart:     final.VolR,
	}
	v.TotalDurationSeconds = v.EntryDurationSeconds + gap
	v.LoopDurationSeconds = v.TotalDurationSeconds
}
