package program_test

import (
	"errors"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/CedoispirDB/BFC/instr"
	"github.com/CedoispirDB/BFC/program"
)

func opsOf(insts []instr.Inst) []instr.Opcode {
	ops := make([]instr.Opcode, len(insts))
	for i, inst := range insts {
		ops[i] = inst.Op
	}
	return ops
}

var _ = Describe("Tokenize", func() {
	It("should map every symbol to its opcode", func() {
		insts := program.Tokenize([]byte("><+-.,[]"))

		Expect(opsOf(insts)).To(Equal([]instr.Opcode{
			instr.MoveRight, instr.MoveLeft,
			instr.Increment, instr.Decrement,
			instr.Output, instr.Input,
			instr.LoopStart, instr.LoopEnd,
		}))
	})

	It("should skip comments and keep source offsets", func() {
		insts := program.Tokenize([]byte("a+ b\n-# ."))

		Expect(insts).To(Equal([]instr.Inst{
			instr.New(instr.Increment, 1),
			instr.New(instr.Decrement, 5),
			instr.New(instr.Output, 8),
		}))
	})

	It("should return an empty sequence for comment-only source", func() {
		Expect(program.Tokenize([]byte("hello world"))).To(BeEmpty())
		Expect(program.Tokenize(nil)).To(BeEmpty())
	})

	It("should handle sources larger than the initial capacity", func() {
		src := strings.Repeat("+x", 5000)

		insts := program.Tokenize([]byte(src))

		Expect(insts).To(HaveLen(5000))
		Expect(insts[4999].Offset).To(Equal(9998))
	})

	It("should tokenize a reader the same way", func() {
		src := "+[->+<]  comment ."

		fromReader, err := program.TokenizeReader(strings.NewReader(src))

		Expect(err).NotTo(HaveOccurred())
		Expect(fromReader).To(Equal(program.Tokenize([]byte(src))))
	})

	It("should wrap read failures", func() {
		r := iotest.TimeoutReader(iotest.OneByteReader(strings.NewReader("++++")))

		_, err := program.TokenizeReader(r)

		Expect(err).To(MatchError(iotest.ErrTimeout))
	})
})

var _ = Describe("ISA", func() {
	It("should round trip symbols", func() {
		for _, s := range []byte("><+-.,[]") {
			op, ok := program.DefaultISA.Lookup(s)
			Expect(ok).To(BeTrue())
			Expect(program.DefaultISA.Symbol(op)).To(Equal(s))
		}
	})

	It("should not recognize other bytes", func() {
		_, ok := program.DefaultISA.Lookup('x')
		Expect(ok).To(BeFalse())
		Expect(program.DefaultISA.Symbol(instr.Invalid)).To(Equal(byte('?')))
	})
})

var _ = Describe("BuildJumpTable", func() {
	It("should pair nested and sibling loops", func() {
		insts := program.Tokenize([]byte("[[]][]"))

		jumps, err := program.BuildJumpTable(insts)

		Expect(err).NotTo(HaveOccurred())
		Expect(jumps).To(Equal(program.JumpTable{3, 2, 1, 0, 5, 4}))
	})

	It("should leave non-bracket entries unpaired", func() {
		jumps, err := program.BuildJumpTable(program.Tokenize([]byte("+[-]")))

		Expect(err).NotTo(HaveOccurred())
		Expect(jumps[0]).To(Equal(instr.NoPartner))
		_, ok := jumps.Partner(0)
		Expect(ok).To(BeFalse())
		partner, ok := jumps.Partner(1)
		Expect(ok).To(BeTrue())
		Expect(partner).To(Equal(3))
	})

	It("should report an unmatched open bracket at its offset", func() {
		_, err := program.BuildJumpTable(program.Tokenize([]byte("[+")))

		var perr *program.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Kind).To(Equal(program.UnbalancedBrackets))
		Expect(perr.Offset).To(Equal(0))
		Expect(perr.Symbol).To(Equal(byte('[')))
		Expect(err).To(MatchError(program.ErrUnbalancedBrackets))
	})

	It("should report an unmatched close bracket at its offset", func() {
		_, err := program.BuildJumpTable(program.Tokenize([]byte("+]")))

		var perr *program.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Offset).To(Equal(1))
		Expect(perr.Index).To(Equal(1))
		Expect(perr.Symbol).To(Equal(byte(']')))
	})

	It("should report the oldest pending open bracket", func() {
		_, err := program.BuildJumpTable(program.Tokenize([]byte("x[ [ []")))

		var perr *program.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Offset).To(Equal(1))
		Expect(perr.Index).To(Equal(0))
	})
})

var _ = Describe("JumpTable.Validate", func() {
	var insts []instr.Inst

	BeforeEach(func() {
		insts = program.Tokenize([]byte("[[]]"))
	})

	It("should accept the matcher's table", func() {
		jumps, err := program.BuildJumpTable(insts)
		Expect(err).NotTo(HaveOccurred())
		Expect(jumps.Validate(insts)).To(Succeed())
	})

	It("should reject crossed pairs", func() {
		Expect(program.JumpTable{2, 3, 0, 1}.Validate(insts)).NotTo(Succeed())
	})

	It("should reject a table of the wrong length", func() {
		Expect(program.JumpTable{3, 2, 1}.Validate(insts)).NotTo(Succeed())
	})
})

var _ = Describe("Load", func() {
	It("should annotate brackets with their partners", func() {
		p, err := program.Load([]byte("+[>+<-]."))

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(8))
		Expect(p.Insts[1].Partner).To(Equal(6))
		Expect(p.Insts[6].Partner).To(Equal(1))
		Expect(p.Insts[0].Partner).To(Equal(instr.NoPartner))
		Expect(p.String()).To(Equal("+[>+<-]."))
	})

	It("should load from a reader", func() {
		p, err := program.LoadReader(strings.NewReader("a[b]c"))

		Expect(err).NotTo(HaveOccurred())
		Expect(p.String()).To(Equal("[]"))
	})

	It("should fail on unbalanced source", func() {
		_, err := program.Load([]byte("[[]"))
		Expect(err).To(MatchError(program.ErrUnbalancedBrackets))
	})
})

var _ = Describe("Program image", func() {
	It("should restore the program it was made from", func() {
		p, err := program.Load([]byte("++[>++[>+<-]<-] end"))
		Expect(err).NotTo(HaveOccurred())

		data, err := program.MarshalImage(p)
		Expect(err).NotTo(HaveOccurred())

		restored, err := program.UnmarshalImage(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(restored).To(Equal(p))
	})

	It("should reject garbage", func() {
		_, err := program.UnmarshalImage([]byte{0xff, 0x00, 0x13})
		Expect(err).To(MatchError(program.ErrInvalidImage))
	})

	It("should reject an image whose jump table was tampered with", func() {
		p, err := program.Load([]byte("[][]"))
		Expect(err).NotTo(HaveOccurred())
		p.Jumps = program.JumpTable{3, 2, 1, 0}

		data, err := program.MarshalImage(p)
		Expect(err).NotTo(HaveOccurred())

		_, err = program.UnmarshalImage(data)
		Expect(err).To(MatchError(program.ErrInvalidImage))
	})
})
