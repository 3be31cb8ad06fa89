// SPDX-License-Identifier: EPL-2.0

package schedule

import (
	_ "embed"
	"fmt"
)

//go:embed default.gnaural
var defaultSource []byte

// DefaultSource returns a copy of the built-in program document.
func DefaultSource() []byte {
	return append([]byte(nil), defaultSource...)
}

// Default parses the built-in program: a 4410 second descending binaural
// session over steady pink noise. Every call returns a fresh Schedule.
func Default() *Schedule {
	s, err := ParseBytes(defaultSource)
	if err != nil {
		panic(fmt.Sprintf("schedule: built-in program: %v", err))
	}
	return s
}
