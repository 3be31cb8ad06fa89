// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM readers of the go-audio decoders to
// audio.Source.
package intpcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the subset of the go-audio wav and aiff decoders the adapter
// needs. It also allows tests to substitute a fake.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

const defaultBufSize = 4096

// Source converts signed integer PCM into float32 samples.
type Source struct {
	r          Reader
	sampleRate int
	channels   int
	scale      float32
	buf        *goaudio.IntBuffer
}

// SupportedBitDepth reports whether New can scale samples of depth bits.
func SupportedBitDepth(depth int) bool {
	switch depth {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}

// New wraps r. bitDepth sets the full-scale value; see SupportedBitDepth.
func New(r Reader, sampleRate, channels, bitDepth int) *Source {
	return &Source{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      float32(uint64(1) << (bitDepth - 1)),
		buf: &goaudio.IntBuffer{
			Data:           make([]int, defaultBufSize),
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return cap(s.buf.Data) }
func (s *Source) Close() error    { return nil }

// ReadSamples fills dst with whole frames. The go-audio readers report the
// end of data as a zero count, which is returned as io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.r.PCMBuffer(s.buf)
	n = min(n, want)
	for i := range n {
		dst[i] = float32(s.buf.Data[i]) / s.scale
	}

	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return n, fmt.Errorf("reading pcm: %w", err)
	case n == 0 || err != nil:
		return n, io.EOF
	}
	return n, nil
}

// ReadSeeker returns r itself when it can seek, and otherwise buffers it
// in memory. The go-audio decoders need to seek.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
