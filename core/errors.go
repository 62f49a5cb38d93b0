package core

import (
	"errors"
	"fmt"
)

// RuntimeErrorKind classifies the reasons a run can halt early.
type RuntimeErrorKind int

const (
	// TapeUnderflow means the program moved left of cell 0.
	TapeUnderflow RuntimeErrorKind = iota + 1
	// InternalFault means the jump table disagrees with the instructions.
	InternalFault
	// InputFailure means reading the input stream failed with something
	// other than EOF.
	InputFailure
	// OutputFailure means writing or flushing the output failed.
	OutputFailure
	// StepLimit means the configured step budget ran out.
	StepLimit
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case TapeUnderflow:
		return "TapeUnderflow"
	case InternalFault:
		return "InternalFault"
	case InputFailure:
		return "InputFailure"
	case OutputFailure:
		return "OutputFailure"
	case StepLimit:
		return "StepLimit"
	default:
		return fmt.Sprintf("RuntimeErrorKind(%d)", int(k))
	}
}

var (
	// ErrInternalFault is wrapped by InternalFault errors.
	ErrInternalFault = errors.New("internal consistency fault")

	// ErrStepLimit is wrapped by StepLimit errors.
	ErrStepLimit = errors.New("step limit reached")
)

// RuntimeError reports why a run halted.
type RuntimeError struct {
	Kind RuntimeErrorKind

	// Offset is the source offset of the instruction that failed, or -1
	// when no instruction is to blame.
	Offset int

	// PC is the index of the failing instruction.
	PC int

	Err error
}

func (e *RuntimeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s at pc %d: %v", e.Kind, e.PC, e.Err)
	}

	return fmt.Sprintf("%s at offset %d (pc %d): %v", e.Kind, e.Offset, e.PC, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
