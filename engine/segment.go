// SPDX-License-Identifier: EPL-2.0

package engine

// Segment is one rendered chunk of planar stereo PCM.
type Segment struct {
	Left  []float32
	Right []float32

	SampleCount int
	// Duration is SampleCount divided by the sample rate. It can differ
	// from the requested duration by up to one sample; track buffered time
	// with this value.
	Duration float64
	// Start is the program position of the first sample, in seconds.
	Start float64
}

// End returns the program position just past the last sample.
func (s *Segment) End() float64 {
	return s.Start + s.Duration
}

// Peak returns the largest absolute sample value over both channels.
func (s *Segment) Peak() float32 {
	var peak float32
	for i := range s.Left {
		peak = max(peak, abs32(s.Left[i]), abs32(s.Right[i]))
	}
	return peak
}

// Clone returns a copy that does not share buffers with s.
func (s *Segment) Clone() Segment {
	c := *s
	c.Left = append([]float32(nil), s.Left...)
	c.Right = append([]float32(nil), s.Right...)
	return c
}

// reset sizes both channels to n zeroed samples, reusing capacity.
func (s *Segment) reset(n int) {
	s.Left = resize(s.Left, n)
	s.Right = resize(s.Right, n)
}

func resize(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
