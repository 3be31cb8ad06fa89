// SPDX-License-Identifier: EPL-2.0

package noise

// brownStep scales each white increment of the random walk.
const brownStep = 0.02

// Brown is a bounded random walk of white noise increments.
type Brown struct {
	rng  lcg
	last float64
}

// NewBrown returns a brown noise generator. A zero seed is replaced by 1.
func NewBrown(seed uint32) *Brown {
	return &Brown{rng: newLCG(seed)}
}

func (b *Brown) Next() float64 {
	b.last += b.rng.bipolar() * brownStep

	// hard clamp keeps the walk inside the sample range
	if b.last < -1 {
		b.last = -1
	} else if b.last > 1 {
		b.last = 1
	}

	return b.last
}
