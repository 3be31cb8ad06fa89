// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/internal/audiotest"
)

type silentDecoder struct{}

func (silentDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSilentSource(44100, 2, 441), nil
}

// Example_registry shows how decoders are looked up by file extension.
func Example_registry() {
	reg := audio.NewRegistry()
	reg.Register(silentDecoder{}, "ogg", "oga")

	_, err := reg.ForPath("sounds/Rain.OGG")
	fmt.Println("ogg:", err == nil)

	_, err = reg.ForPath("sounds/rain.flac")
	fmt.Println("flac:", err)
	// Output:
	// ogg: true
	// flac: sounds/rain.flac: no decoder registered for format
}

// Example_readAll decodes a whole source into planar channels, which is the
// shape sample voices are mixed from.
func Example_readAll() {
	src := audiotest.NewRampSource(22050, 2, 2205)

	buf, err := audio.ReadAll(src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("frames: %d\n", buf.Frames())
	fmt.Printf("stereo: %v\n", buf.Stereo())
	fmt.Printf("rate: %d Hz\n", buf.SampleRate)
	// Output:
	// frames: 2205
	// stereo: true
	// rate: 22050 Hz
}

// Example_monoMixer folds a stereo program down to one channel.
func Example_monoMixer() {
	src := audiotest.NewMockSource(44100, 2, 4, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.2
		}
		return 0.4
	})
	mono := audio.NewMonoMixer(src)

	buf := make([]float32, 4)
	n, _ := mono.ReadSamples(buf)

	fmt.Printf("channels: %d\n", mono.Channels())
	fmt.Printf("samples: %d, first: %.2f\n", n, buf[0])
	// Output:
	// channels: 1
	// samples: 4, first: 0.30
}
