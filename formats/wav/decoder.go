// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/formats/internal/intpcm"
)

const pcmFormat = 1

// Extensions lists the file extensions this package decodes.
var Extensions = []string{"wav", "wave"}

type Decoder struct{}

// Register binds the WAV decoder to its extensions in reg.
func Register(reg *audio.Registry) {
	reg.Register(Decoder{}, Extensions...)
}

// Decode reads the header of an integer PCM WAV stream. Inputs that cannot
// seek are buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %d", ErrNotPCM, dec.WavAudioFormat)
	}

	depth := int(dec.BitDepth)
	if !intpcm.SupportedBitDepth(depth) {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, depth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating pcm data: %w", err)
	}

	return intpcm.New(dec, int(dec.SampleRate), int(dec.NumChans), depth), nil
}
