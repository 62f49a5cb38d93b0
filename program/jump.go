package program

import (
	"fmt"

	"github.com/CedoispirDB/BFC/instr"
)

// JumpTable maps every bracket index to the index of its partner. Entries of
// non-bracket instructions hold instr.NoPartner.
type JumpTable []int

// Partner returns the partner of the bracket at index i.
func (j JumpTable) Partner(i int) (int, bool) {
	if i < 0 || i >= len(j) || j[i] == instr.NoPartner {
		return instr.NoPartner, false
	}

	return j[i], true
}

// BuildJumpTable pairs loop brackets in a single left-to-right pass over
// insts, keeping pending LoopStart indices on a stack.
//
// An unmatched LoopEnd fails at its own offset. LoopStarts still pending
// after the pass fail at the offset of the oldest one.
func BuildJumpTable(insts []instr.Inst) (JumpTable, error) {
	jumps := make(JumpTable, len(insts))
	for i := range jumps {
		jumps[i] = instr.NoPartner
	}

	var pending []int

	for i, inst := range insts {
		switch inst.Op {
		case instr.LoopStart:
			pending = append(pending, i)
		case instr.LoopEnd:
			if len(pending) == 0 {
				return nil, &ParseError{
					Kind:   UnbalancedBrackets,
					Offset: inst.Offset,
					Index:  i,
					Symbol: ']',
				}
			}

			open := pending[len(pending)-1]
			pending = pending[:len(pending)-1]

			jumps[open] = i
			jumps[i] = open
		}
	}

	if len(pending) > 0 {
		oldest := pending[0]
		return nil, &ParseError{
			Kind:   UnbalancedBrackets,
			Offset: insts[oldest].Offset,
			Index:  oldest,
			Symbol: '[',
		}
	}

	return jumps, nil
}

// Validate checks that j is a well-nested bijection between the LoopStart
// and LoopEnd instructions of insts.
func (j JumpTable) Validate(insts []instr.Inst) error {
	if len(j) != len(insts) {
		return fmt.Errorf("jump table has %d entries for %d instructions",
			len(j), len(insts))
	}

	var open []int

	for i, inst := range insts {
		switch inst.Op {
		case instr.LoopStart:
			open = append(open, i)
		case instr.LoopEnd:
			if len(open) == 0 {
				return fmt.Errorf("LoopEnd %d has no LoopStart", i)
			}

			start := open[len(open)-1]
			open = open[:len(open)-1]

			if j[start] != i || j[i] != start {
				return fmt.Errorf("brackets %d and %d are not paired", start, i)
			}
		default:
			if j[i] != instr.NoPartner {
				return fmt.Errorf("%s at %d has partner %d", inst.Op, i, j[i])
			}
		}
	}

	if len(open) > 0 {
		return fmt.Errorf("LoopStart %d has no LoopEnd", open[0])
	}

	return nil
}
