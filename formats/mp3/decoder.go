// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/entrain/audio"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM.
const (
	channels      = 2
	bytesPerFrame = 2 * channels
)

// Extensions lists the file extensions this package decodes.
var Extensions = []string{"mp3"}

var ErrInvalidStream = errors.New("invalid MP3 stream")

// pcmReader is the part of gomp3.Decoder the source needs.
type pcmReader interface {
	io.Reader
	SampleRate() int
}

type source struct {
	dec     pcmReader
	rate    int
	raw     []byte
	pending int // bytes of an incomplete frame kept at the start of raw
}

func newSource(dec pcmReader) *source {
	return &source{
		dec:  dec,
		rate: dec.SampleRate(),
		raw:  make([]byte, 8192),
	}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.raw) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%channels
	if want == 0 {
		return 0, nil
	}

	need := 2 * want
	if cap(s.raw) < need {
		grown := make([]byte, need)
		copy(grown, s.raw[:s.pending])
		s.raw = grown
	}
	s.raw = s.raw[:need]

	var n int
	var err error
	if s.pending < need {
		n, err = s.dec.Read(s.raw[s.pending:need])
	}
	total := s.pending + n
	whole := total - total%bytesPerFrame

	samples := whole / 2
	for i := range samples {
		v := int16(uint16(s.raw[2*i]) | uint16(s.raw[2*i+1])<<8)
		dst[i] = float32(v) / 32768
	}
	s.pending = copy(s.raw, s.raw[whole:total])

	switch {
	case errors.Is(err, io.EOF):
		// a dangling partial frame at the end of the stream is dropped
		return samples, io.EOF
	case err != nil:
		return samples, fmt.Errorf("decoding mp3: %w", err)
	}
	return samples, nil
}

type Decoder struct{}

// Register binds the MP3 decoder to its extensions in reg.
func Register(reg *audio.Registry) {
	reg.Register(Decoder{}, Extensions...)
}

// Decode parses the first frame header of an MP3 stream.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	return newSource(dec), nil
}
