package program

import (
	"io"
	"strings"

	"github.com/CedoispirDB/BFC/instr"
)

// Program is a token sequence together with its jump table. A Program
// returned by Load or UnmarshalImage is always well bracketed.
type Program struct {
	Insts []instr.Inst
	Jumps JumpTable
}

// Load tokenizes src and resolves its loop brackets.
func Load(src []byte) (Program, error) {
	return link(Tokenize(src))
}

// LoadReader is Load for a streamed source.
func LoadReader(r io.Reader) (Program, error) {
	insts, err := TokenizeReader(r)
	if err != nil {
		return Program{}, err
	}

	return link(insts)
}

func link(insts []instr.Inst) (Program, error) {
	jumps, err := BuildJumpTable(insts)
	if err != nil {
		return Program{}, err
	}

	for i := range insts {
		insts[i].Partner = jumps[i]
	}

	return Program{Insts: insts, Jumps: jumps}, nil
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.Insts)
}

// String returns the program's instructions as symbols, comments stripped.
func (p Program) String() string {
	var b strings.Builder
	b.Grow(len(p.Insts))

	for _, inst := range p.Insts {
		b.WriteByte(DefaultISA.Symbol(inst.Op))
	}

	return b.String()
}
