// SPDX-License-Identifier: EPL-2.0

// Package samples resolves and decodes the clips played by sample voices.
//
// A Loader reads files from an fs.FS (usually os.DirFS of the directory
// holding the schedule), picks a decoder by extension, decodes the whole
// clip into an audio.Buffer and caches it by path:
//
//	loader := samples.New(os.DirFS(dir), samples.WithLogger(logger))
//	n := loader.Attach(ctx, sched)
//
// Attach never fails. A clip that cannot be loaded is logged at warn level
// and its voice plays silence.
package samples
