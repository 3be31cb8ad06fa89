// SPDX-License-Identifier: EPL-2.0

package schedule

import (
	"errors"
	"strings"
	"testing"
)

const basicDoc = `<?xml version="1.0"?>
<schedule>
<title>Focus</title>
<schedule_description>  two voices  </schedule_description>
<author>someone</author>
<gnaural_version>1.0</gnaural_version>
<totaltime>30</totaltime>
<loops>2</loops>
<overallvolume_left>0.8</overallvolume_left>
<overallvolume_right>9</overallvolume_right>
<voice>
<description>tone</description>
<type>0</type>
<voice_mute>0</voice_mute>
<voice_mono>1</voice_mono>
<entries>
<entry duration="10" basefreq="220" beatfreq="4" volume_left="0.6" volume_right="0.5"/>
<entry duration="0" basefreq="999"/>
<entry duration="10" basefreq="200" beatfreq="8" volume="0.4"/>
</entries>
</voice>
<voice>
<type>2</type>
<voice_mute>1</voice_mute>
<voice_file>sounds/rain.ogg</voice_file>
<entries>
<entry>
<duration>30</duration>
<volume_left>0.3</volume_left>
</entry>
</entries>
</voice>
</schedule>`

func TestParse_Metadata(t *testing.T) {
	t.Parallel()

	s, err := Parse(strings.NewReader(basicDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}

	want := Metadata{
		Title:       "Focus",
		Author:      "someone",
		Description: "two voices",
		Version:     "1.0",
		TotalTime:   30,
		Loops:       2,
	}
	if s.Metadata != want {
		t.Errorf("Metadata = %+v, want %+v", s.Metadata, want)
	}
	if s.OverallVolumeLeft != 0.8 {
		t.Errorf("OverallVolumeLeft = %v, want 0.8", s.OverallVolumeLeft)
	}
	if s.OverallVolumeRight != MaxVolume {
		t.Errorf("OverallVolumeRight = %v, want %v", s.OverallVolumeRight, MaxVolume)
	}
	if s.TotalDurationSeconds != 30 {
		t.Errorf("TotalDurationSeconds = %v, want 30", s.TotalDurationSeconds)
	}
	if s.ProgramSeconds() != 60 {
		t.Errorf("ProgramSeconds() = %v, want 60", s.ProgramSeconds())
	}
}

func TestParse_Voices(t *testing.T) {
	t.Parallel()

	s, err := ParseBytes([]byte(basicDoc))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}

	if len(s.Voices) != 2 {
		t.Fatalf("len(Voices) = %d, want 2", len(s.Voices))
	}

	tone := s.Voices[0]
	if tone.Type != Binaural || !tone.Mono || tone.Muted || !tone.Enabled {
		t.Errorf("tone voice = %+v", tone)
	}
	if len(tone.Entries) != 2 {
		t.Fatalf("len(tone.Entries) = %d, want 2", len(tone.Entries))
	}

	first := tone.Entries[0]
	if first.BaseStart != 220 || first.BeatHalfStart != 2 || first.VolLStart != 0.6 || first.VolRStart != 0.5 {
		t.Errorf("Entries[0] = %+v", first)
	}

	second := tone.Entries[1]
	if second.Offset != 10 || second.VolLStart != 0.4 || second.VolRStart != 0.4 || second.BeatHalfStart != 4 {
		t.Errorf("Entries[1] = %+v", second)
	}

	if tone.Tail == nil || tone.Tail.Duration != 10 {
		t.Errorf("tone.Tail = %+v, want 10 second tail", tone.Tail)
	}

	sample := s.Voices[1]
	if sample.Description != "Voice 2" {
		t.Errorf("Description = %q, want %q", sample.Description, "Voice 2")
	}
	if sample.Type != SampleVoice || sample.File != "sounds/rain.ogg" {
		t.Errorf("sample voice = %+v", sample)
	}
	if !sample.Muted || sample.Enabled {
		t.Errorf("Muted = %v, Enabled = %v, want true, false", sample.Muted, sample.Enabled)
	}

	e := sample.Entries[0]
	if e.Duration != 30 || e.VolLStart != 0.3 || e.VolRStart != DefaultVolume {
		t.Errorf("child element entry = %+v", e)
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	s, err := ParseBytes([]byte(`<schedule><voice><entries><entry duration="5"/></entries></voice></schedule>`))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}

	md := s.Metadata
	if md.Title != "Untitled Schedule" || md.Author != "Unknown" || md.Description != "" || md.Loops != 1 {
		t.Errorf("Metadata = %+v", md)
	}
	if s.OverallVolumeLeft != 1 || s.OverallVolumeRight != 1 {
		t.Errorf("overall volume = (%v, %v), want (1, 1)", s.OverallVolumeLeft, s.OverallVolumeRight)
	}

	v := s.Voices[0]
	if v.Type != Binaural || v.Description != "Voice 1" {
		t.Errorf("voice = %+v", v)
	}

	e := v.Entries[0]
	if e.VolLStart != DefaultVolume || e.VolRStart != DefaultVolume || e.BaseStart != 0 {
		t.Errorf("entry = %+v", e)
	}
}

func TestParse_AttributeWinsOverChild(t *testing.T) {
	t.Parallel()

	doc := `<schedule><voice><entries>
<entry duration="5" basefreq="300"><basefreq>100</basefreq></entry>
</entries></voice></schedule>`

	s, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}
	if got := s.Voices[0].Entries[0].BaseStart; got != 300 {
		t.Errorf("BaseStart = %v, want 300", got)
	}
}

func TestParse_LenientNumbers(t *testing.T) {
	t.Parallel()

	doc := `<schedule><loops>3.9</loops><totaltime>12s</totaltime><voice><entries>
<entry duration=" 4.5 " basefreq="abc" beatfreq="-6" volume="1e0"/>
</entries></voice></schedule>`

	s, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}

	if s.Metadata.Loops != 3 {
		t.Errorf("Loops = %d, want 3", s.Metadata.Loops)
	}
	if s.Metadata.TotalTime != 12 {
		t.Errorf("TotalTime = %v, want 12", s.Metadata.TotalTime)
	}

	e := s.Voices[0].Entries[0]
	if e.Duration != 4.5 || e.BaseStart != 0 || e.BeatHalfStart != 0 || e.VolLStart != 1 {
		t.Errorf("entry = %+v", e)
	}
}

func TestParse_NestedRoot(t *testing.T) {
	t.Parallel()

	doc := `<wrapper><meta/><schedule><title>inner</title></schedule><schedule><title>second</title></schedule></wrapper>`

	s, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}
	if s.Metadata.Title != "inner" {
		t.Errorf("Title = %q, want %q", s.Metadata.Title, "inner")
	}
	if len(s.Voices) != 0 {
		t.Errorf("len(Voices) = %d, want 0", len(s.Voices))
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		doc       string
		want      error
		wantVoice int
	}{
		{"empty", "", ErrMalformedSource, -1},
		{"whitespace", "   \n", ErrMalformedSource, -1},
		{"not xml", "definitely not xml <", ErrMalformedSource, -1},
		{"unclosed", "<schedule><title>x</title>", ErrMalformedSource, -1},
		{"mismatched", "<schedule></voice>", ErrMalformedSource, -1},
		{"no root", "<program><title>x</title></program>", ErrMissingRoot, -1},
		{
			"unknown type",
			`<schedule><voice><type>0</type></voice><voice><type>7</type></voice></schedule>`,
			ErrUnknownVoiceType,
			1,
		},
		{"negative type", `<schedule><voice><type>-1</type></voice></schedule>`, ErrUnknownVoiceType, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := ParseBytes([]byte(tt.doc))
			if s != nil {
				t.Errorf("ParseBytes() returned a schedule alongside error %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseBytes() error = %v, want %v", err, tt.want)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if perr.Voice != tt.wantVoice {
				t.Errorf("ParseError.Voice = %d, want %d", perr.Voice, tt.wantVoice)
			}
		})
	}
}

func TestParseError_Message(t *testing.T) {
	t.Parallel()

	err := &ParseError{Kind: KindUnknownVoiceType, Voice: 2, Err: errors.New("type code 9")}
	want := "schedule: voice 3: unknown voice type: type code 9"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if errors.Is(err, ErrMissingRoot) {
		t.Error("errors.Is matched the wrong sentinel")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	s := Default()

	if s.TotalDurationSeconds != 4410 {
		t.Errorf("TotalDurationSeconds = %v, want 4410", s.TotalDurationSeconds)
	}
	if len(s.Voices) != 2 {
		t.Fatalf("len(Voices) = %d, want 2", len(s.Voices))
	}
	if n := len(s.Voices[0].Entries); n != 45 {
		t.Errorf("binaural entries = %d, want 45", n)
	}
	if s.Voices[1].Type != PinkNoise {
		t.Errorf("Voices[1].Type = %v, want pink", s.Voices[1].Type)
	}
	for i, v := range s.Voices {
		if v.Tail != nil {
			t.Errorf("Voices[%d] has a tail", i)
		}
	}
	if s.EntryCount() != 46 {
		t.Errorf("EntryCount() = %d, want 46", s.EntryCount())
	}

	// fresh copy per call
	s.Voices[0].Entries[0].BaseStart = 1
	if Default().Voices[0].Entries[0].BaseStart == 1 {
		t.Error("Default() shares state between calls")
	}
}

func BenchmarkParse_Default(b *testing.B) {
	src := DefaultSource()
	b.ReportAllocs()

	for b.Loop() {
		if _, err := ParseBytes(src); err != nil {
			b.Fatal(err)
		}
	}
}
