// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/entrain/audio"
	"github.com/ik5/entrain/formats/wav"
	"github.com/ik5/entrain/schedule"
)

const testProgram = `<?xml version="1.0"?>
<schedule>
  <title>Short test</title>
  <author>tests</author>
  <totaltime>4</totaltime>
  <voice>
    <type>0</type>
    <description>carrier</description>
    <entries>
      <entry duration="2" volume_left="0.4" volume_right="0.4" beatfreq="10" basefreq="200"/>
      <entry duration="2" volume_left="0.3" volume_right="0.3" beatfreq="6" basefreq="180"/>
    </entries>
  </voice>
  <voice>
    <type>2</type>
    <description>bell</description>
    <voice_file>bell.wav</voice_file>
    <entries>
      <entry duration="4" volume="0.2"/>
    </entries>
  </voice>
</schedule>`

// fixture writes a program, the clip it references and a config selecting
// a low engine rate, returning the directory and the config path.
func fixture(t *testing.T) (dir, cfgPath string) {
	t.Helper()

	dir = t.TempDir()
	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	write("test.gnaural", []byte(testProgram))
	write("entrain.yaml", []byte("sample_rate: 8000\nchunk_seconds: 1\nlog_level: warn\n"))

	f, err := os.Create(filepath.Join(dir, "bell.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.WriteWAV16(f, 8000, 1, []int16{1000, 2000, 3000, 4000}); err != nil {
		t.Fatal(err)
	}

	return dir, filepath.Join(dir, "entrain.yaml")
}

func runCmd(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"no command", nil, 2, "", "Usage: entrain"},
		{"help", []string{"help"}, 0, "Commands:", ""},
		{"unknown command", []string{"mix"}, 2, "", `unknown command "mix"`},
		{"command help", []string{"render", "-h"}, 0, "", "-duration"},
		{"bad flag", []string{"info", "-loud"}, 2, "", "flag provided but not defined"},
		{"too many files", []string{"info", "a", "b"}, 2, "", "Usage: entrain info"},
		{"default takes no file", []string{"default", "x.gnaural"}, 2, "", "Usage: entrain default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, out, errOut := runCmd(t, "", tt.args...)
			if code != tt.wantCode {
				t.Errorf("run(%q) = %d, want %d (stderr %q)", tt.args, code, tt.wantCode, errOut)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", out, tt.wantOut)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestRun_Default(t *testing.T) {
	t.Parallel()

	code, out, errOut := runCmd(t, "", "default")
	if code != 0 {
		t.Fatalf("run(default) = %d, stderr %q", code, errOut)
	}
	if out != string(schedule.DefaultSource()) {
		t.Error("run(default) did not print the built-in program")
	}
}

func TestRun_Export(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)

	for _, args := range [][]string{
		{"export", "-config", cfg, filepath.Join(dir, "test.gnaural")},
		{"export", "-config", cfg, "-"},
	} {
		code, out, errOut := runCmd(t, testProgram, args...)
		if code != 0 {
			t.Fatalf("run(%q) = %d, stderr %q", args, code, errOut)
		}

		s, err := schedule.ParseBytes([]byte(out))
		if err != nil {
			t.Fatalf("exported program does not parse: %v", err)
		}
		if s.Metadata.Title != "Short test" || len(s.Voices) != 2 {
			t.Errorf("exported program = %q with %d voices, want %q with 2",
				s.Metadata.Title, len(s.Voices), "Short test")
		}
	}
}

func TestRun_Info(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)

	code, out, errOut := runCmd(t, "", "info", "-config", cfg, filepath.Join(dir, "test.gnaural"))
	if code != 0 {
		t.Fatalf("run(info) = %d, stderr %q", code, errOut)
	}

	for _, want := range []string{
		"Short test",
		"Program length:  0:00:04",
		"binaural",
		"sample",
		"carrier",
		"bell [bell.wav]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "silent") {
		t.Errorf("sample voice reported silent although its clip exists:\n%s", out)
	}
}

func TestRun_InfoMissingSample(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)
	if err := os.Remove(filepath.Join(dir, "bell.wav")); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCmd(t, "", "info", "-config", cfg, filepath.Join(dir, "test.gnaural"))
	if code != 0 {
		t.Fatalf("run(info) = %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "silent") {
		t.Errorf("info output does not mark the sample voice silent:\n%s", out)
	}
	if !strings.Contains(errOut, "sample voice left silent") {
		t.Errorf("stderr = %q, want a warning about the missing clip", errOut)
	}
}

func TestRun_Render(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)
	out := filepath.Join(dir, "out.wav")

	code, _, errOut := runCmd(t, "", "render", "-config", cfg,
		"-o", out, "-offset", "1", "-duration", "2", "-rate", "16000", "-mono",
		filepath.Join(dir, "test.gnaural"))
	if code != 0 {
		t.Fatalf("run(render) = %d, stderr %q", code, errOut)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 16000 || src.Channels() != 1 {
		t.Errorf("output = %d Hz x%d, want 16000 Hz x1", src.SampleRate(), src.Channels())
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if n := buf.Frames(); n < 31990 || n > 32010 {
		t.Errorf("output has %d frames, want about 32000", n)
	}
}

func TestRun_RenderDefaultName(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)

	code, _, errOut := runCmd(t, "", "render", "-config", cfg, filepath.Join(dir, "test.gnaural"))
	if code != 0 {
		t.Fatalf("run(render) = %d, stderr %q", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "test.wav")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)
	program := filepath.Join(dir, "test.gnaural")

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"missing file", "", []string{"info", "-config", cfg, filepath.Join(dir, "none.gnaural")}, 1, "no such file"},
		{"malformed stdin", "<schedule><voice>", []string{"info", "-config", cfg, "-"}, 1, "reading stdin"},
		{"missing config", "", []string{"info", "-config", filepath.Join(dir, "none.yaml"), program}, 1, "reading config"},
		{"bad log level", "", []string{"info", "-config", cfg, "-log-level", "loud", program}, 1, "unknown log level"},
		{"negative offset", "", []string{"render", "-config", cfg, "-offset", "-3", program}, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, errOut := runCmd(t, tt.stdin, tt.args...)
			if code != tt.wantCode {
				t.Errorf("run(%q) = %d, want %d (stderr %q)", tt.args, code, tt.wantCode, errOut)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	dir, cfg := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := run(ctx, []string{"render", "-config", cfg, "-o", filepath.Join(dir, "c.wav"), filepath.Join(dir, "test.gnaural")},
		strings.NewReader(""), &out, &errOut)
	if code != 130 {
		t.Errorf("run() = %d, want 130 (stderr %q)", code, errOut.String())
	}
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, title, want string
	}{
		{"dir/session.gnaural", "ignored", "dir/session.wav"},
		{"plain", "", "plain.wav"},
		{"-", "Deep Sleep: 2", "Deep_Sleep_2.wav"},
		{"", "", "entrain.wav"},
		{"", "???", "entrain.wav"},
	}

	for _, tt := range tests {
		if got := outputName(tt.in, tt.title); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.in, tt.title, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00:00"},
		{-5, "0:00:00"},
		{59.9, "0:00:59"},
		{4410, "1:13:30"},
		{36000, "10:00:00"},
	}

	for _, tt := range tests {
		if got := formatClock(tt.sec); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestProgressLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := newProgressLine(&buf, 10, 110)

	p(10, 0)
	p(10.5, 0)
	p(60, 0)
	p(200, 0)

	got := buf.String()
	if n := strings.Count(got, "\r"); n != 3 {
		t.Errorf("progress redrew %d times, want 3: %q", n, got)
	}
	if !strings.HasSuffix(got, "100%") {
		t.Errorf("progress = %q, want it to end at 100%%", got)
	}
}
