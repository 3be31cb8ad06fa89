// SPDX-License-Identifier: EPL-2.0

package noise

import "math"

// Generator produces one noise sample per call, nominally in [-1,1].
type Generator interface {
	Next() float64
}

// Per-color primes used to spread voice indices across the seed space.
const (
	PinkPrime  = 7919
	WhitePrime = 3571
	BrownPrime = 6007
)

// SeedBase derives the stream component of a seed from the stream's
// starting offset: max(1, floor(offsetSeconds*1000)).
func SeedBase(offsetSeconds float64) uint32 {
	base := math.Floor(offsetSeconds * 1000)
	if base < 1 || base != base {
		return 1
	}
	return uint32(uint64(base))
}

// Seed combines a stream seed base with a voice index and a color prime.
// The arithmetic wraps modulo 2^32.
func Seed(base uint32, voiceIndex int, prime uint32) uint32 {
	return base + uint32(voiceIndex)*prime
}

// lcg is the shared uniform source.
type lcg struct {
	seed uint32
}

func newLCG(seed uint32) lcg {
	if seed == 0 {
		seed = 1
	}
	return lcg{seed: seed}
}

// bipolar advances the generator and maps the new state to [-1,1].
func (g *lcg) bipolar() float64 {
	g.seed = 1664525*g.seed + 1013904223
	return float64(g.seed)/0xffffffff*2 - 1
}
