// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/entrain/audio"
	"github.com/jfreymuth/oggvorbis"
)

// Extensions lists the file extensions this package decodes.
var Extensions = []string{"ogg", "oga"}

var ErrInvalidStream = errors.New("invalid Ogg Vorbis stream")

// vorbisReader is the part of oggvorbis.Reader the source needs. Read
// fills p with interleaved values and returns how many it wrote.
type vorbisReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

type source struct {
	dec      vorbisReader
	rate     int
	channels int
}

func newSource(dec vorbisReader) *source {
	return &source{dec: dec, rate: dec.SampleRate(), channels: dec.Channels()}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:want])
	switch {
	case errors.Is(err, io.EOF):
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("decoding vorbis: %w", err)
	}
	return n, nil
}

type Decoder struct{}

// Register binds the Vorbis decoder to its extensions in reg.
func Register(reg *audio.Registry) {
	reg.Register(Decoder{}, Extensions...)
}

// Decode reads the Vorbis identification, comment and setup headers.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	if dec.Channels() < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidStream, dec.Channels())
	}
	return newSource(dec), nil
}
