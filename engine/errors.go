// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)
