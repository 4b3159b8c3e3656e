package codec

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel all codec failures unwrap to.
var ErrParse = errors.New("parse error")

// ParseError describes a malformed document. It covers syntax failures
// from the decoder as well as shape violations such as a missing id or
// an unknown kind. Structurally broken but well-formed graphs are not a
// ParseError; those belong to the validator.
type ParseError struct {
	// Detail names what was malformed.
	Detail string
	// Err is the underlying decoder error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Detail, e.Err)
	}
	return "parse: " + e.Detail
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
