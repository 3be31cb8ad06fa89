// SPDX-License-Identifier: EPL-2.0

// Package entrain turns Gnaural-style entrainment schedules into audio.
//
// The work is split across subpackages:
//
//   - schedule parses and writes the XML schedule format and holds the
//     resolved program (voices, entries, loops, tails).
//   - engine renders a schedule to normalized planar stereo, chunk by
//     chunk, through an engine.Stream that can start at any offset.
//   - noise provides the seeded pink, white and brown generators.
//   - samples decodes the clips of sample voices using formats/*.
//   - audio holds the PCM plumbing shared by decoders and outputs.
//
// This package joins them for callers that want PCM out:
//
//	s, err := schedule.Parse(f)
//	eng, _ := engine.New()
//	samples.New(os.DirFS(dir)).Attach(ctx, s)
//
//	st := eng.NewStream(s, 0)
//	frames, err := entrain.ExportWAV(ctx, out, st, entrain.OutputOptions{}, nil)
//
// StreamSource adapts a stream to audio.Source, so rendered programs can
// go through audio.Resampler and audio.MonoMixer like decoded files.
// Float32Reader turns any source into the byte stream audio devices read.
//
// Timeline is the buffering model used for playback: it pre-renders an
// initial window (ten minutes by default) in one-minute chunks, keeps
// rendering ahead as the playhead advances and restarts from the new
// position on Seek. TimelineSource reads a timeline's segments from a
// device goroutine while its Fill loop renders ahead on another.
package entrain
