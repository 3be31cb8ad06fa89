// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding for sample voices.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files into
// an audio.Source. A Gnaural program can name an MP3 clip in a voice's
// voice_file; the samples loader picks this decoder by file extension.
//
// # Supported Formats
//
// The decoder supports:
//   - MP3 (MPEG-1 and MPEG-2 Audio Layer 3)
//   - Constant and variable bitrates
//   - Mono and stereo files (mono is duplicated onto both channels)
//
// # Decoding MP3 Files
//
// Use the Decoder directly:
//
//	f, _ := os.Open("chant.mp3")
//	defer f.Close()
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    // errors.Is(err, mp3.ErrInvalidStream)
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// or through a registry:
//
//	reg := audio.NewRegistry()
//	mp3.Register(reg)
//	dec, err := reg.ForPath("chant.mp3")
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: always 2, interleaved
//   - Sample rate: that of the file (typically 44.1kHz or 48kHz)
//
// ReadSamples returns whole frames only: a destination with an odd length
// gets one sample fewer. Bytes of a frame split across go-mp3 reads are
// carried over to the next call.
//
// # Error Handling
//
// Decode wraps setup failures with ErrInvalidStream. Read failures are
// returned wrapped as "decoding mp3: ...", and io.EOF marks the end of the
// stream, possibly together with the last samples.
//
// # Limitations
//
// Note:
//   - MP3 writing is not supported (decoding only)
//   - The decoder does not close the reader it was given
//
// # Use Cases
//
// A sample voice loops its clip for the whole program, so the loader reads
// the full stream once with audio.ReadAll and keeps the planar buffer:
//
//	src, _ := mp3.Decoder{}.Decode(f)
//	buf, err := audio.ReadAll(src)
//	// buf.Left, buf.Right, buf.SampleRate
package mp3
