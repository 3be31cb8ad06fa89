// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/entrain/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves channel count.
// When downsampling a one-pole low-pass runs over the input to soften
// aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// history holds four frames (t-1, t0, t+1, t+2) back to back
	history []float32
	primed  bool
	frac    float64

	// block reads from src, consumed one frame at a time
	in    []float32
	inPos int
	inLen int
	eof   bool
	tail  int // frames of padding fed after src ended
	got   int // frames taken from src

	lowpass bool
	lpState []float32
}

// lowpassAlpha is the one-pole coefficient applied while downsampling.
const lowpassAlpha = 0.5

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	block := src.BufSize()
	if block < channels {
		block = 4096
	}
	block -= block % channels

	return &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		history:  make([]float32, 4*channels),
		in:       make([]float32, block),
		lowpass:  src.SampleRate() > dstRate,
		lpState:  make([]float32, channels),
	}
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. After the source ends
// it repeats the last frame twice so the final input frames can still be
// interpolated, then reports io.EOF.
func (r *Resampler) nextFrame(dst []float32) error {
	for r.inPos >= r.inLen {
		if r.eof {
			if r.got == 0 || r.tail >= 2 {
				return io.EOF
			}
			r.tail++
			copy(dst, r.history[3*r.channels:])
			return nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return fmt.Errorf("%w", err)
		} else if n == 0 {
			r.eof = true
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		if r.got == 0 {
			copy(r.lpState, dst)
		}
		for c := range r.channels {
			dst[c] = lowpassAlpha*dst[c] + (1-lowpassAlpha)*r.lpState[c]
			r.lpState[c] = dst[c]
		}
	}
	r.got++
	return nil
}

// advance shifts history by one frame and reads a new t+2 frame.
func (r *Resampler) advance() error {
	ch := r.channels
	copy(r.history, r.history[ch:])
	return r.nextFrame(r.history[3*ch:])
}

func (r *Resampler) prime() error {
	ch := r.channels
	if err := r.nextFrame(r.history[ch : 2*ch]); err != nil {
		return err
	}
	// t-1 mirrors t0 at the very start
	copy(r.history[:ch], r.history[ch:2*ch])
	if err := r.nextFrame(r.history[2*ch : 3*ch]); err != nil {
		return err
	}
	if err := r.nextFrame(r.history[3*ch:]); err != nil {
		return err
	}
	r.primed = true
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	ch := r.channels
	if len(dst)%ch != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.frac >= 1 {
			r.frac--
			if err := r.advance(); err != nil {
				if errors.Is(err, io.EOF) && written > 0 {
					return written, io.EOF
				}
				return written, err
			}
		}

		x := float32(r.frac)
		h := r.history
		for c := range ch {
			dst[written+c] = utils.CubicInterpolate(h[c], h[ch+c], h[2*ch+c], h[3*ch+c], x)
		}

		written += ch
		r.frac += r.step
	}

	return written, nil
}
