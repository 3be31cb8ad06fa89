// SPDX-License-Identifier: EPL-2.0

// Package noise provides deterministic white, pink and brown noise
// generators.
//
// All generators are driven by the same 32-bit linear congruential
// generator:
//
//	seed = (1664525*seed + 1013904223) mod 2^32
//
// so two generators of the same color built from the same seed produce the
// same sequence, sample for sample. Callers decorrelate voices and streams
// by deriving distinct seeds (see Seed) instead of relying on wall-clock
// entropy.
//
// Generators are not safe for concurrent use; each one belongs to a single
// voice of a single stream.
package noise
