// SPDX-License-Identifier: EPL-2.0

package schedule

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const fileFormatVersion = "1.20101006"

type xmlSchedule struct {
	XMLName            xml.Name   `xml:"schedule"`
	FileVersion        string     `xml:"gnauralfile_version"`
	Version            string     `xml:"gnaural_version"`
	Title              string     `xml:"title"`
	Description        string     `xml:"schedule_description"`
	Author             string     `xml:"author"`
	TotalTime          float64    `xml:"totaltime"`
	VoiceCount         int        `xml:"voicecount"`
	TotalEntryCount    int        `xml:"totalentrycount"`
	Loops              int        `xml:"loops"`
	OverallVolumeLeft  float64    `xml:"overallvolume_left"`
	OverallVolumeRight float64    `xml:"overallvolume_right"`
	StereoSwap         int        `xml:"stereoswap"`
	Voices             []xmlVoice `xml:"voice"`
}

type xmlVoice struct {
	Description string     `xml:"description"`
	ID          int        `xml:"id"`
	Type        int        `xml:"type"`
	State       int        `xml:"voice_state"`
	Hide        int        `xml:"voice_hide"`
	Mute        int        `xml:"voice_mute"`
	Mono        int        `xml:"voice_mono"`
	File        string     `xml:"voice_file,omitempty"`
	EntryCount  int        `xml:"entrycount"`
	Entries     []xmlEntry `xml:"entries>entry"`
}

type xmlEntry struct {
	Parent      int     `xml:"parent,attr"`
	Duration    float64 `xml:"duration,attr"`
	VolumeLeft  float64 `xml:"volume_left,attr"`
	VolumeRight float64 `xml:"volume_right,attr"`
	BeatFreq    float64 `xml:"beatfreq,attr"`
	BaseFreq    float64 `xml:"basefreq,attr"`
	State       int     `xml:"state,attr"`
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toXML(s *Schedule) xmlSchedule {
	total := s.Metadata.TotalTime
	if total <= 0 {
		total = s.TotalDurationSeconds
	}

	doc := xmlSchedule{
		FileVersion:        fileFormatVersion,
		Version:            s.Metadata.Version,
		Title:              s.Metadata.Title,
		Description:        s.Metadata.Description,
		Author:             s.Metadata.Author,
		TotalTime:          total,
		VoiceCount:         len(s.Voices),
		TotalEntryCount:    s.EntryCount(),
		Loops:              max(1, s.Metadata.Loops),
		OverallVolumeLeft:  s.OverallVolumeLeft,
		OverallVolumeRight: s.OverallVolumeRight,
		Voices:             make([]xmlVoice, len(s.Voices)),
	}

	for i := range s.Voices {
		v := &s.Voices[i]
		xv := xmlVoice{
			Description: v.Description,
			ID:          i,
			Type:        int(v.Type),
			State:       1,
			Mute:        boolFlag(v.Muted),
			Mono:        boolFlag(v.Mono),
			File:        v.File,
			EntryCount:  len(v.Entries),
			Entries:     make([]xmlEntry, len(v.Entries)),
		}
		for j := range v.Entries {
			e := &v.Entries[j]
			xv.Entries[j] = xmlEntry{
				Parent:      i,
				Duration:    e.Duration,
				VolumeLeft:  e.VolLStart,
				VolumeRight: e.VolRStart,
				BeatFreq:    e.BeatHalfStart * 2,
				BaseFreq:    e.BaseStart,
				State:       1,
			}
		}
		doc.Voices[i] = xv
	}

	return doc
}

// Marshal renders s as a Gnaural XML document that Parse reads back into
// an equivalent Schedule. Tails are derived data and are not written.
func Marshal(s *Schedule) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo implements io.WriterTo.
func (s *Schedule) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	if _, err := io.WriteString(cw, xml.Header); err != nil {
		return cw.n, err
	}

	enc := xml.NewEncoder(cw)
	enc.Indent("", "  ")
	if err := enc.Encode(toXML(s)); err != nil {
		return cw.n, fmt.Errorf("encoding schedule: %w", err)
	}
	if err := enc.Close(); err != nil {
		return cw.n, fmt.Errorf("encoding schedule: %w", err)
	}

	_, err := io.WriteString(cw, "\n")
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
