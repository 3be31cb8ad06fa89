// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing shared by the decoders, the
// sample loader and the rendered-output path.
//
// # Source Interface
//
// A Source streams interleaved float32 samples in [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Format decoders return Sources, and a rendering stream can be wrapped as
// one (see entrain.NewStreamSource), so the same pipeline stages apply to
// both decoded sample files and synthesized programs.
//
// # Decoded Buffers
//
// Sample voices loop over a fully decoded clip. ReadAll drains a Source
// into a planar Buffer:
//
//	buf, err := audio.ReadAll(src)
//	// buf.Left, buf.Right (nil for mono), buf.SampleRate
//
// A Buffer is read-only once attached to a schedule and can be shared by
// any number of rendering streams.
//
// # Registry
//
// Registry maps file extensions to decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register(vorbis.Decoder{}, "ogg", "oga")
//	dec, err := reg.ForPath("sounds/rain.ogg")
//
// Lookups are case-insensitive and the leading dot is optional.
//
// # Resampling and Mixing
//
// Resampler converts between rates with cubic interpolation, running a
// simple low-pass over the input when downsampling. MonoMixer averages all
// channels into one. Both wrap a Source and are Sources themselves:
//
//	out := audio.NewMonoMixer(audio.NewResampler(src, 48000))
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available; it may return
// a final batch of samples together with io.EOF.
//
// Registry.ForPath wraps ErrUnknownFormat for files with no registered decoder, and ReadAll
// rejects sources that declare no channels with ErrInvalidDstSize.
//
// # Use Cases
//
// Loading a sample voice clip:
//
//	f, _ := fsys.Open("sounds/rain.ogg")
//	defer f.Close()
//
//	dec, err := reg.ForPath("sounds/rain.ogg")
//	src, err := dec.Decode(f)
//	buf, err := audio.ReadAll(audio.NewResampler(src, 44100))
//
// Feeding a rendered program to a mono device:
//
//	src := entrain.NewStreamSource(eng.NewStream(s, 0), 60)
//	mono := audio.NewMonoMixer(src)
package audio
