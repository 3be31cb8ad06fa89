// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/ik5/entrain/internal/audiotest"
)

// stubDecoder hands out a fixed silent source.
type stubDecoder struct {
	name string
}

func (d *stubDecoder) Decode(r io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

// failingSource reports an error on the first read.
type failingSource struct{}

func (failingSource) SampleRate() int { return 8000 }
func (failingSource) Channels() int   { return 1 }
func (failingSource) BufSize() int    { return 16 }
func (failingSource) Close() error    { return nil }

func (failingSource) ReadSamples([]float32) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	dec := &stubDecoder{name: "ogg"}
	reg.Register(dec, "ogg", "oga")

	for _, format := range []string{"ogg", "oga", ".OGG", "Oga"} {
		got, ok := reg.Get(format)
		if !ok {
			t.Errorf("Get(%q) not found", format)
			continue
		}
		if got != dec {
			t.Errorf("Get(%q) returned a different decoder", format)
		}
	}

	if _, ok := reg.Get("flac"); ok {
		t.Error("Get(flac) found a decoder that was never registered")
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	first := &stubDecoder{name: "first"}
	second := &stubDecoder{name: "second"}

	reg.Register(first, "wav")
	reg.Register(second, "wav")

	got, _ := reg.Get("wav")
	if got != second {
		t.Error("later registration should replace the earlier one")
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	dec := &stubDecoder{name: "wav"}
	reg.Register(dec, "wav")

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"sounds/rain.wav", false},
		{"sounds/RAIN.WAV", false},
		{"sounds/rain.flac", true},
		{"sounds/rain", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := reg.ForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ForPath(%q) error = %v, want ErrUnknownFormat", tt.path, err)
				}
				return
			}
			if err != nil || got != dec {
				t.Errorf("ForPath(%q) = %v, %v", tt.path, got, err)
			}
		})
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	dec := &stubDecoder{name: "test"}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Register(dec, "mp3")
		}()
		go func() {
			defer wg.Done()
			_, _ = reg.Get("mp3")
		}()
	}
	wg.Wait()

	if got, ok := reg.Get("mp3"); !ok || got != dec {
		t.Error("Registry lost the decoder after concurrent operations")
	}
}

func TestReadAll_Stereo(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(22050, 2, 1000).WithBufSize(64)
	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if buf.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", buf.SampleRate)
	}
	if buf.Frames() != 1000 {
		t.Fatalf("Frames() = %d, want 1000", buf.Frames())
	}
	if !buf.Stereo() {
		t.Fatal("Stereo() = false for a two channel source")
	}
	for i := range 1000 {
		want := float32(i) / 1000
		if buf.Left[i] != want || buf.Right[i] != -want {
			t.Fatalf("frame %d = (%v, %v), want (%v, %v)", i, buf.Left[i], buf.Right[i], want, -want)
		}
	}
}

func TestReadAll_Mono(t *testing.T) {
	t.Parallel()

	buf, err := ReadAll(audiotest.NewConstantSource(8000, 1, 300, 0.25))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Stereo() {
		t.Error("mono source produced a right channel")
	}
	if buf.Frames() != 300 {
		t.Errorf("Frames() = %d, want 300", buf.Frames())
	}
}

func TestReadAll_KeepsFirstTwoChannels(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 4, 10, func(_ int, ch int) float32 {
		return float32(ch)
	})
	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Left[5] != 0 || buf.Right[5] != 1 {
		t.Errorf("frame 5 = (%v, %v), want (0, 1)", buf.Left[5], buf.Right[5])
	}
}

func TestReadAll_Errors(t *testing.T) {
	t.Parallel()

	if _, err := ReadAll(audiotest.NewSilentSource(8000, 1, 0)); !errors.Is(err, ErrEmptySource) {
		t.Errorf("empty source error = %v, want ErrEmptySource", err)
	}

	if _, err := ReadAll(failingSource{}); err == nil {
		t.Error("ReadAll() should surface the source error")
	}
}

func TestBuffer_NilSafe(t *testing.T) {
	t.Parallel()

	var b *Buffer
	if b.Frames() != 0 || b.Stereo() {
		t.Error("nil Buffer should report zero frames and mono")
	}
}

func BenchmarkReadAll(b *testing.B) {
	b.ReportAllocs()
	for range b.N {
		src := audiotest.NewSineSource(44100, 2, 44100, 440)
		if _, err := ReadAll(src); err != nil {
			b.Fatal(err)
		}
	}
}
