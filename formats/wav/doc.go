// SPDX-License-Identifier: EPL-2.0

// Package wav decodes integer PCM WAV files and writes 16-bit WAV files,
// both on top of github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts 16, 24 and 32-bit integer PCM in any channel count and
// yields samples in [-1, 1]. Inputs that cannot seek are read into memory
// first, since the RIFF parser needs to move between chunks.
//
//	reg := audio.NewRegistry()
//	wav.Register(reg)
//	dec, err := reg.ForPath("rain.wav")
//
// # Writing
//
// Writer streams float or int16 frames into a mono or stereo file. Sizes
// in the RIFF header are patched on Close, so the destination has to be an
// io.WriteSeeker such as *os.File:
//
//	w, err := wav.NewWriter(f, 44100, 2)
//	for seg := range segments {
//	    err = w.WriteStereo(seg.Left, seg.Right)
//	}
//	err = w.Close()
//
// Close leaves the destination open.
//
// # Metadata
//
// SetInfo stores a title, artist and comment in a LIST/INFO chunk written
// at Close. Rendered programs carry the schedule's title, author and
// description there.
//
// # Output Format
//
// Writer output:
//   - Sample format: 16-bit signed little-endian PCM
//   - Channels: 1 or 2 (anything else is ErrInvalidChannels)
//   - Sample rate: as given to NewWriter
//
// Float samples are clipped to [-1.0, 1.0] before conversion. On a mono
// writer WriteStereo averages the two channels.
//
// # Error Handling
//
// The package defines:
//   - ErrNotWavFile: the input is not a RIFF/WAVE file
//   - ErrNotPCM: the file holds a compressed or float format
//   - ErrUnsupportedBitDepth: the sample size is not 16, 24 or 32 bits
//   - ErrInvalidChannels: a writer was asked for more than two channels
//   - ErrWriterClosed: a write or Close after Close
package wav
