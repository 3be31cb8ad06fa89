// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1,1] to 16-bit PCM, clamping
// anything outside that range.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for the positive side avoids overflow at exactly 1.0
	return int16(x * 32767.0)
}

// InterleaveInt16 writes left/right float samples as interleaved int16 PCM
// into dst and returns the number of values written. When right is nil the
// output is mono. dst must hold len(left) (mono) or 2*len(left) values.
func InterleaveInt16(dst []int16, left, right []float32) int {
	if right == nil {
		for i, v := range left {
			dst[i] = Float32ToInt16(v)
		}
		return len(left)
	}

	for i := range left {
		dst[2*i] = Float32ToInt16(left[i])
		dst[2*i+1] = Float32ToInt16(right[i])
	}
	return 2 * len(left)
}
