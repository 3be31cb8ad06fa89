// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/formats/internal/intpcm"
)

// Extensions lists the file extensions this package decodes.
var Extensions = []string{"aif", "aiff", "aifc"}

type Decoder struct{}

// Register binds the AIFF decoder to its extensions in reg.
func Register(reg *audio.Registry) {
	reg.Register(Decoder{}, Extensions...)
}

// Decode reads the COMM chunk of an uncompressed AIFF stream. Inputs that
// cannot seek are buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	depth := int(dec.BitDepth)
	if !intpcm.SupportedBitDepth(depth) {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, depth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, ErrUnsupportedLayout
	}

	return intpcm.New(dec, format.SampleRate, format.NumChannels, depth), nil
}
