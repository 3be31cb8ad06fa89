// SPDX-License-Identifier: EPL-2.0

package entrain

import (
	"errors"
	"io"
	"math"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/engine"
)

// DefaultSourceChunkSeconds is how much program a StreamSource renders per
// engine call.
const DefaultSourceChunkSeconds = 1.0

// StreamSource exposes an engine.Stream as an interleaved stereo
// audio.Source at the engine rate, so a program can be resampled, folded
// to mono or written out like any decoded file.
type StreamSource struct {
	stream *engine.Stream
	chunk  int

	seg engine.Segment
	pos int

	// budget is the number of frames still allowed to be rendered; negative
	// means unlimited.
	budget int64
}

var _ audio.Source = (*StreamSource)(nil)

// NewStreamSource wraps st. A non-positive chunkSeconds selects
// DefaultSourceChunkSeconds.
func NewStreamSource(st *engine.Stream, chunkSeconds float64) *StreamSource {
	if !(chunkSeconds > 0) {
		chunkSeconds = DefaultSourceChunkSeconds
	}

	return &StreamSource{
		stream: st,
		chunk:  max(1, int(math.Round(chunkSeconds*float64(st.SampleRate())))),
		budget: -1,
	}
}

// Limit ends the source after seconds more of program have been rendered,
// or at the end of the program if that comes first. A non-positive value
// removes the limit.
func (s *StreamSource) Limit(seconds float64) {
	if !(seconds > 0) {
		s.budget = -1
		return
	}
	s.budget = max(1, int64(math.Ceil(seconds*float64(s.stream.SampleRate())-1e-6)))
}

func (s *StreamSource) SampleRate() int { return s.stream.SampleRate() }
func (s *StreamSource) Channels() int   { return 2 }
func (s *StreamSource) BufSize() int    { return 2 * s.chunk }
func (s *StreamSource) Close() error    { return nil }

// Stream returns the wrapped stream.
func (s *StreamSource) Stream() *engine.Stream { return s.stream }

// Position returns the program position of the next frame ReadSamples
// will produce, in seconds.
func (s *StreamSource) Position() float64 {
	pending := s.seg.SampleCount - s.pos
	return s.stream.Position() - float64(pending)/float64(s.stream.SampleRate())
}

func (s *StreamSource) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / 2
	written := 0

	for written < frames {
		if s.pos >= s.seg.SampleCount {
			if s.budget == 0 {
				if written == 0 {
					return 0, io.EOF
				}
				break
			}
			want := s.chunk
			if s.budget > 0 {
				want = int(min(int64(want), s.budget))
			}

			seg, err := s.stream.RenderSamples(want)
			if errors.Is(err, io.EOF) {
				if written == 0 {
					return 0, io.EOF
				}
				break
			}
			if err != nil {
				return 2 * written, err
			}
			s.seg, s.pos = seg, 0
			if s.budget > 0 {
				s.budget -= int64(seg.SampleCount)
			}
		}

		n := min(frames-written, s.seg.SampleCount-s.pos)
		out := dst[2*written : 2*(written+n)]
		left := s.seg.Left[s.pos : s.pos+n]
		right := s.seg.Right[s.pos : s.pos+n]
		for i := range n {
			out[2*i] = left[i]
			out[2*i+1] = right[i]
		}

		s.pos += n
		written += n
	}

	return 2 * written, nil
}
