// SPDX-License-Identifier: EPL-2.0

package entrain

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/engine"
	"github.com/ik5/entrain/formats/wav"
	"github.com/ik5/entrain/utils"
)

const defaultBufferSize = 4096

// OutputOptions shape the PCM produced from a stream.
type OutputOptions struct {
	// SampleRate of the output; zero keeps the engine rate.
	SampleRate int
	// Mono folds the two channels into one by averaging.
	Mono bool
	// ChunkSeconds is passed to NewStreamSource.
	ChunkSeconds float64
	// Duration stops the output after this much program; zero runs to the
	// end.
	Duration float64
}

// NewOutput builds the source chain stream → resampler → mono mixer,
// skipping the stages opts do not need.
func NewOutput(st *engine.Stream, opts OutputOptions) audio.Source {
	ss := NewStreamSource(st, opts.ChunkSeconds)
	ss.Limit(opts.Duration)
	return Convert(ss, opts.SampleRate, opts.Mono)
}

// Convert appends a resampler when rate is set and differs from the
// source's, and a mono mixer when mono is set.
func Convert(src audio.Source, rate int, mono bool) audio.Source {
	if rate > 0 && rate != src.SampleRate() {
		src = audio.NewResampler(src, rate)
	}
	if mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}
	return src
}

// PCM16 is interleaved 16-bit audio.
type PCM16 struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames.
func (p *PCM16) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// RenderPCM16 drains src into 16-bit PCM at targetRate, resampling when
// the rates differ and folding to mono when asked. A targetRate of zero
// keeps the source rate.
func RenderPCM16(src audio.Source, targetRate int, mono bool, bufferSize int) (PCM16, error) {
	if targetRate <= 0 {
		targetRate = src.SampleRate()
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	src = Convert(src, targetRate, mono)

	out := PCM16{SampleRate: targetRate, Channels: src.Channels()}
	out.Samples = make([]int16, 0, targetRate*out.Channels)
	buf := make([]float32, max(out.Channels, bufferSize-bufferSize%out.Channels))

	for {
		n, err := src.ReadSamples(buf)
		for _, v := range buf[:n] {
			out.Samples = append(out.Samples, utils.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PCM16{}, fmt.Errorf("rendering pcm: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return out, nil
}

// Progress is called after every block written by ExportWAV with the
// program position reached and the stream's total, in seconds.
type Progress func(position, total float64)

// ExportWAV renders st from its current position into a 16-bit WAV file,
// up to the end of the program or opts.Duration. Schedule metadata is
// stored in the file's INFO chunk. The context is checked between blocks;
// on cancellation the file is still finalized with what was written so far.
func ExportWAV(ctx context.Context, w io.WriteSeeker, st *engine.Stream, opts OutputOptions, progress Progress) (int64, error) {
	src := NewOutput(st, opts)
	defer src.Close()

	ww, err := wav.NewWriter(w, src.SampleRate(), src.Channels())
	if err != nil {
		return 0, err
	}
	md := st.Schedule().Metadata
	ww.SetInfo(wav.Info{Title: md.Title, Artist: md.Author, Comment: md.Description})

	buf := make([]float32, defaultBufferSize*src.Channels())
	var renderErr error
	for {
		if err := ctx.Err(); err != nil {
			renderErr = err
			break
		}

		n, err := src.ReadSamples(buf)
		if n > 0 {
			if werr := ww.WriteFloat32(buf[:n]); werr != nil {
				return ww.Frames(), fmt.Errorf("writing wav: %w", werr)
			}
			if progress != nil {
				progress(st.Position(), st.Total())
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			renderErr = fmt.Errorf("rendering: %w", err)
			break
		}
		if n == 0 {
			break
		}
	}

	if err := ww.Close(); err != nil {
		return ww.Frames(), fmt.Errorf("finalizing wav: %w", err)
	}
	return ww.Frames(), renderErr
}
