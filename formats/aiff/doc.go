// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding for
// sample voices.
//
// This package uses github.com/go-audio/aiff. AIFF is Apple's uncompressed
// audio format and still common in sound libraries.
//
// # Supported Formats
//
// Currently supported:
//   - AIFF and uncompressed AIFF-C (.aif, .aiff, .aifc)
//   - PCM 16, 24 and 32-bit
//   - Any channel count
//   - Any sample rate
//
// # Decoding AIFF Files
//
// Use the Decoder to read AIFF files:
//
//	f, _ := os.Open("bells.aif")
//	defer f.Close()
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// # Output Format
//
// AIFF decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: that of the file, interleaved
//   - Sample rate: that of the file
//
// # Seeking
//
// The go-audio parser moves between chunks, so it needs an io.ReadSeeker.
// Inputs that cannot seek are read into memory first. The decoder never
// closes the reader it was given.
//
// # Error Handling
//
// The package defines:
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: the sample size is not 16, 24 or 32 bits
//   - ErrUnsupportedLayout: the file declares no channels or no sample rate
//
// Example:
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("not an AIFF file")
//	}
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores the sample rate as an 80-bit float (WAV uses a 32-bit int)
//
// Both end up as the same float32 stream once decoded.
package aiff
