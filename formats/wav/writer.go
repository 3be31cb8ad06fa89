// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/entrain/utils"
)

const writerBitDepth = 16

// Info is the LIST/INFO metadata written at the end of the file.
type Info struct {
	Title   string
	Artist  string
	Comment string
}

// Writer streams 16-bit PCM frames into a WAV container. The RIFF and data
// chunk sizes are patched on Close, so the destination must be seekable.
type Writer struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int64
	started  bool
	closed   bool
}

// NewWriter prepares a WAV writer for sampleRate Hz with 1 or 2 channels.
// Nothing is written until the first frames or Close.
func NewWriter(w io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if channels != 1 && channels != 2 {
		return nil, ErrInvalidChannels
	}

	return &Writer{
		enc:      gowav.NewEncoder(w, sampleRate, writerBitDepth, channels, pcmFormat),
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: writerBitDepth,
		},
	}, nil
}

// SetInfo attaches metadata written when the file is closed.
func (w *Writer) SetInfo(info Info) {
	w.enc.Metadata = &gowav.Metadata{
		Title:    info.Title,
		Artist:   info.Artist,
		Comments: info.Comment,
		Software: "entrain",
	}
}

func (w *Writer) Channels() int { return w.channels }

// Frames reports how many frames have been written so far.
func (w *Writer) Frames() int64 { return w.frames }

// WriteStereo writes one frame per element of left. A nil right channel
// repeats left. On a mono writer the two channels are averaged.
func (w *Writer) WriteStereo(left, right []float32) error {
	if w.closed {
		return ErrWriterClosed
	}
	if right == nil {
		right = left
	}

	data := w.grow(len(left) * w.channels)
	if w.channels == 1 {
		for i := range left {
			data[i] = int(utils.Float32ToInt16((left[i] + right[i]) / 2))
		}
	} else {
		for i := range left {
			data[2*i] = int(utils.Float32ToInt16(left[i]))
			data[2*i+1] = int(utils.Float32ToInt16(right[i]))
		}
	}
	return w.flush(len(left))
}

// WriteFloat32 writes interleaved samples laid out for the writer's
// channel count. A trailing partial frame is dropped.
func (w *Writer) WriteFloat32(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}

	n := len(samples) - len(samples)%w.channels
	data := w.grow(n)
	for i, v := range samples[:n] {
		data[i] = int(utils.Float32ToInt16(v))
	}
	return w.flush(n / w.channels)
}

// WriteInt16 writes interleaved 16-bit samples.
func (w *Writer) WriteInt16(samples []int16) error {
	if w.closed {
		return ErrWriterClosed
	}

	n := len(samples) - len(samples)%w.channels
	data := w.grow(n)
	for i, v := range samples[:n] {
		data[i] = int(v)
	}
	return w.flush(n / w.channels)
}

func (w *Writer) grow(n int) []int {
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	return w.buf.Data
}

func (w *Writer) flush(frames int) error {
	if err := w.enc.Write(w.buf); err != nil {
		return err
	}
	w.started = true
	w.frames += int64(frames)
	return nil
}

// Close finalizes the headers. The underlying writer is left open.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	if !w.started {
		// headers and an empty data chunk still have to exist
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return err
		}
	}
	return w.enc.Close()
}

// WriteWAV16 writes a complete 16-bit WAV file holding the interleaved
// samples.
func WriteWAV16(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	wr, err := NewWriter(w, sampleRate, channels)
	if err != nil {
		return err
	}
	if err := wr.WriteInt16(samples); err != nil {
		return err
	}
	return wr.Close()
}
