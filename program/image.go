package program

import (
	"fmt"

	"github.com/CedoispirDB/BFC/instr"
	"github.com/fxamacker/cbor/v2"
)

const imageVersion = 1

// image is the persisted form of a Program. Ops and Offsets are parallel
// arrays; Jumps is stored so that a corrupted image is caught on load.
type image struct {
	Version int    `cbor:"1,keyasint"`
	Ops     []byte `cbor:"2,keyasint"`
	Offsets []int  `cbor:"3,keyasint"`
	Jumps   []int  `cbor:"4,keyasint"`
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

// MarshalImage serializes p to canonical CBOR.
func MarshalImage(p Program) ([]byte, error) {
	img := image{
		Version: imageVersion,
		Ops:     make([]byte, len(p.Insts)),
		Offsets: make([]int, len(p.Insts)),
		Jumps:   []int(p.Jumps),
	}

	for i, inst := range p.Insts {
		img.Ops[i] = byte(inst.Op)
		img.Offsets[i] = inst.Offset
	}

	data, err := imageEncMode.Marshal(img)
	if err != nil {
		return nil, fmt.Errorf("program: marshal image: %w", err)
	}

	return data, nil
}

// UnmarshalImage decodes an image written by MarshalImage and checks that it
// still describes a well-bracketed program.
func UnmarshalImage(data []byte) (Program, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return Program{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if img.Version != imageVersion {
		return Program{}, fmt.Errorf("%w: unsupported version %d",
			ErrInvalidImage, img.Version)
	}

	if len(img.Offsets) != len(img.Ops) {
		return Program{}, fmt.Errorf("%w: %d ops but %d offsets",
			ErrInvalidImage, len(img.Ops), len(img.Offsets))
	}

	insts := make([]instr.Inst, len(img.Ops))
	for i, op := range img.Ops {
		if !instr.Opcode(op).Valid() {
			return Program{}, fmt.Errorf("%w: invalid opcode %d at %d",
				ErrInvalidImage, op, i)
		}

		insts[i] = instr.New(instr.Opcode(op), img.Offsets[i])
	}

	jumps := JumpTable(img.Jumps)
	if jumps == nil {
		jumps = JumpTable{}
	}

	if err := jumps.Validate(insts); err != nil {
		return Program{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	for i := range insts {
		insts[i].Partner = jumps[i]
	}

	return Program{Insts: insts, Jumps: jumps}, nil
}
