package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/CedoispirDB/BFC/instr"
)

const initialCapacity = 1024

// Tokenize scans src with the DefaultISA.
func Tokenize(src []byte) []instr.Inst {
	return DefaultISA.Tokenize(src)
}

// Tokenize emits one instruction per recognized symbol in src, in source
// order. Every other byte is a comment and is skipped.
func (isa *ISA) Tokenize(src []byte) []instr.Inst {
	insts := make([]instr.Inst, 0, min(len(src), initialCapacity))

	for offset, b := range src {
		op, ok := isa.Lookup(b)
		if !ok {
			continue
		}

		insts = append(insts, instr.New(op, offset))
	}

	return insts
}

// TokenizeReader scans r to EOF with the DefaultISA. Read failures are
// returned wrapped together with the instructions scanned so far.
func TokenizeReader(r io.Reader) ([]instr.Inst, error) {
	br := bufio.NewReader(r)
	insts := make([]instr.Inst, 0, initialCapacity)

	for offset := 0; ; offset++ {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return insts, nil
		}

		if err != nil {
			return insts, fmt.Errorf("read source at offset %d: %w", offset, err)
		}

		op, ok := DefaultISA.Lookup(b)
		if !ok {
			continue
		}

		insts = append(insts, instr.New(op, offset))
	}
}
