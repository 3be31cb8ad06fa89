// SPDX-License-Identifier: EPL-2.0

package noise

// Pink filters white noise through Paul Kellet's 7-pole approximation of
// a -3dB/octave slope.
type Pink struct {
	rng                        lcg
	b0, b1, b2, b3, b4, b5, b6 float64
}

// NewPink returns a pink noise generator. A zero seed is replaced by 1.
func NewPink(seed uint32) *Pink {
	return &Pink{rng: newLCG(seed)}
}

func (p *Pink) Next() float64 {
	white := p.rng.bipolar()

	p.b0 = 0.99886*p.b0 + white*0.0555179
	p.b1 = 0.99332*p.b1 + white*0.0750759
	p.b2 = 0.969*p.b2 + white*0.153852
	p.b3 = 0.8665*p.b3 + white*0.3104856
	p.b4 = 0.55*p.b4 + white*0.5329522
	p.b5 = -0.7616*p.b5 - white*0.016898

	out := p.b0 + p.b1 + p.b2 + p.b3 + p.b4 + p.b5 + p.b6 + white*0.5362
	p.b6 = white * 0.115926

	return out * 0.11
}
