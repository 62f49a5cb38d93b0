package program

import (
	"errors"
	"fmt"
)

// ErrorKind classifies static program errors.
type ErrorKind int

const (
	// UnbalancedBrackets means a loop bracket has no partner.
	UnbalancedBrackets ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case UnbalancedBrackets:
		return "UnbalancedBrackets"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	// ErrUnbalancedBrackets is the sentinel wrapped by every bracket
	// ParseError.
	ErrUnbalancedBrackets = errors.New("unbalanced brackets")

	// ErrInvalidImage is returned when a program image cannot be decoded or
	// does not describe a well-formed program.
	ErrInvalidImage = errors.New("invalid program image")
)

// ParseError reports a static error found before execution.
type ParseError struct {
	Kind ErrorKind

	// Offset is the source byte offset of the offending instruction.
	Offset int

	// Index is the position of the offending instruction in the token
	// sequence.
	Index int

	Symbol byte
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unmatched '%c' at offset %d", e.Kind, e.Symbol, e.Offset)
}

func (e *ParseError) Unwrap() error {
	if e.Kind == UnbalancedBrackets {
		return ErrUnbalancedBrackets
	}

	return nil
}
