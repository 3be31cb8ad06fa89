// SPDX-License-Identifier: EPL-2.0

package noise

// White is uniform white noise.
type White struct {
	rng lcg
}

// NewWhite returns a white noise generator. A zero seed is replaced by 1.
func NewWhite(seed uint32) *White {
	return &White{rng: newLCG(seed)}
}

func (w *White) Next() float64 {
	return w.rng.bipolar()
}
