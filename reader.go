// SPDX-License-Identifier: EPL-2.0

package entrain

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/ik5/entrain/audio"
)

// Float32Reader serves a source as little-endian float32 bytes, the layout
// audio devices such as oto consume.
type Float32Reader struct {
	src     audio.Source
	samples []float32
	pending []byte // encoded bytes not yet handed out
	raw     []byte
	err     error
}

var _ io.Reader = (*Float32Reader)(nil)

func NewFloat32Reader(src audio.Source) *Float32Reader {
	size := max(src.BufSize(), defaultBufferSize)
	size -= size % src.Channels()
	return &Float32Reader{
		src:     src,
		samples: make([]float32, size),
		raw:     make([]byte, 4*size),
	}
}

func (r *Float32Reader) Read(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		if len(r.pending) == 0 {
			if r.err != nil {
				break
			}
			r.fill()
			if len(r.pending) == 0 {
				continue
			}
		}

		n := copy(p[written:], r.pending)
		r.pending = r.pending[n:]
		written += n
	}

	if written == 0 && r.err != nil {
		return 0, r.err
	}
	return written, nil
}

func (r *Float32Reader) fill() {
	n, err := r.src.ReadSamples(r.samples)
	for i, v := range r.samples[:n] {
		binary.LittleEndian.PutUint32(r.raw[4*i:], math.Float32bits(v))
	}
	r.pending = r.raw[:4*n]

	switch {
	case err != nil:
		r.err = err
	case n == 0:
		r.err = io.ErrNoProgress
	}
	if errors.Is(r.err, io.EOF) {
		r.err = io.EOF
	}
}
