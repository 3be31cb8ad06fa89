// SPDX-License-Identifier: EPL-2.0

package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedSource  = errors.New("malformed schedule source")
	ErrMissingRoot      = errors.New("missing <schedule> root element")
	ErrUnknownVoiceType = errors.New("unknown voice type")
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	KindMalformedSource ErrorKind = iota
	KindMissingRoot
	KindUnknownVoiceType
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingRoot:
		return ErrMissingRoot
	case KindUnknownVoiceType:
		return ErrUnknownVoiceType
	default:
		return ErrMalformedSource
	}
}

func (k ErrorKind) String() string {
	return k.sentinel().Error()
}

// ParseError is returned for every failed parse. errors.Is matches it
// against the sentinel of its Kind.
type ParseError struct {
	Kind ErrorKind
	// Voice is the zero-based voice index the error refers to, or -1.
	Voice int
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	msg := "schedule: " + e.Kind.String()
	if e.Voice >= 0 {
		msg = fmt.Sprintf("schedule: voice %d: %s", e.Voice+1, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
