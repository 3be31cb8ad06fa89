// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding for sample voices.
//
// This package uses github.com/jfreymuth/oggvorbis. Ogg is the format the
// Gnaural sound library ships its clips in, so it is the decoder sample
// voices use most.
//
// # Supported Formats
//
// The decoder supports:
//   - Ogg Vorbis (.ogg, .oga)
//   - Any channel count and sample rate the stream declares
//
// # Decoding Vorbis Files
//
// Use the Decoder to read a stream:
//
//	f, _ := os.Open("rain.ogg")
//	defer f.Close()
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    // errors.Is(err, vorbis.ErrInvalidStream)
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Register adds the decoder to a registry under both extensions:
//
//	reg := audio.NewRegistry()
//	vorbis.Register(reg)
//	dec, err := reg.ForPath("sounds/rain.OGG")
//
// # Output Format
//
// Vorbis decoder output:
//   - Sample format: float32 in range [-1.0, 1.0], as decoded
//   - Channels: that of the stream, interleaved
//   - Sample rate: that of the stream
//
// Reads are sized to whole frames, so a destination shorter than one
// frame reads nothing.
//
// # Streaming
//
// Decoding never seeks, so the input may be a pipe or a network body. The
// decoder does not close the reader it was given.
//
// # Error Handling
//
// Decode rejects unreadable headers and streams without channels with
// ErrInvalidStream. Read failures come back as "decoding vorbis: ...", and
// io.EOF ends the stream.
package vorbis
