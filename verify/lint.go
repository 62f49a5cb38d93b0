package verify

import (
	"fmt"

	"github.com/CedoispirDB/BFC/instr"
)

// RunLint performs static checks on a token sequence. Unlike
// program.BuildJumpTable it does not stop at the first unmatched bracket, so
// every one of them is reported. Returns an empty list if no issues.
func RunLint(insts []instr.Inst) []Issue {
	var issues []Issue

	if len(insts) == 0 {
		return append(issues, Issue{
			Type:    IssueStyle,
			Offset:  -1,
			Index:   -1,
			Message: "Program has no instructions",
		})
	}

	issues = append(issues, checkBrackets(insts)...)
	issues = append(issues, checkEmptyLoops(insts)...)
	issues = append(issues, checkPrefixUnderflow(insts)...)

	return issues
}

// checkBrackets reports every unmatched bracket in source order.
func checkBrackets(insts []instr.Inst) []Issue {
	var (
		issues  []Issue
		pending []int
	)

	for i, inst := range insts {
		switch inst.Op {
		case instr.LoopStart:
			pending = append(pending, i)
		case instr.LoopEnd:
			if len(pending) == 0 {
				issues = append(issues, bracketIssue(insts, i, ']'))
				continue
			}
			pending = pending[:len(pending)-1]
		}
	}

	for _, i := range pending {
		issues = append(issues, bracketIssue(insts, i, '['))
	}

	return issues
}

func bracketIssue(insts []instr.Inst, i int, symbol byte) Issue {
	return Issue{
		Type:    IssueStruct,
		Offset:  insts[i].Offset,
		Index:   i,
		Message: fmt.Sprintf("Unmatched '%c' at offset %d", symbol, insts[i].Offset),
		Details: map[string]interface{}{"symbol": string(symbol)},
	}
}

// checkEmptyLoops reports "[]", which spins forever once entered.
func checkEmptyLoops(insts []instr.Inst) []Issue {
	var issues []Issue

	for i := 0; i+1 < len(insts); i++ {
		if insts[i].Op == instr.LoopStart && insts[i+1].Op == instr.LoopEnd {
			issues = append(issues, Issue{
				Type:    IssueStyle,
				Offset:  insts[i].Offset,
				Index:   i,
				Message: fmt.Sprintf("Empty loop at offset %d never ends if entered", insts[i].Offset),
			})
		}
	}

	return issues
}

// checkPrefixUnderflow follows the pointer through the instructions before
// the first loop, where its position is known, and reports the first move
// left of cell 0.
func checkPrefixUnderflow(insts []instr.Inst) []Issue {
	ptr := 0

	for i, inst := range insts {
		switch inst.Op {
		case instr.LoopStart, instr.LoopEnd:
			return nil
		case instr.MoveRight:
			ptr++
		case instr.MoveLeft:
			ptr--
			if ptr < 0 {
				return []Issue{{
					Type:    IssueRuntime,
					Offset:  inst.Offset,
					Index:   i,
					Message: fmt.Sprintf("Pointer moves left of cell 0 at offset %d", inst.Offset),
				}}
			}
		}
	}

	return nil
}
