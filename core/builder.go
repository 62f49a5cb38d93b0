package core

import (
	"io"

	"github.com/CedoispirDB/BFC/tape"
	"github.com/sarchlab/akita/v4/sim"
)

// DefaultTapeCells is the number of cells allocated before a run starts.
const DefaultTapeCells = 1024

// Builder can create new machines and cores.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	tapeCells int
	eof       EOFPolicy
	maxSteps  uint64
	input     io.Reader
	output    io.Writer
	trace     bool
}

// NewBuilder returns a builder with a 1 GHz clock, DefaultTapeCells cells,
// EOFZero and no step limit.
func NewBuilder() Builder {
	return Builder{
		freq:      1 * sim.GHz,
		tapeCells: DefaultTapeCells,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTapeCells sets the initial tape allocation.
func (b Builder) WithTapeCells(n int) Builder {
	b.tapeCells = n
	return b
}

func (b Builder) WithEOFPolicy(policy EOFPolicy) Builder {
	b.eof = policy
	return b
}

// WithMaxSteps bounds the number of instructions a run may execute. Zero
// means unlimited.
func (b Builder) WithMaxSteps(n uint64) Builder {
	b.maxSteps = n
	return b
}

func (b Builder) WithInput(r io.Reader) Builder {
	b.input = r
	return b
}

func (b Builder) WithOutput(w io.Writer) Builder {
	b.output = w
	return b
}

// WithTrace logs every executed instruction at LevelTrace.
func (b Builder) WithTrace(trace bool) Builder {
	b.trace = trace
	return b
}

// BuildMachine creates a machine with a fresh tape.
func (b Builder) BuildMachine() *Machine {
	return &Machine{
		state: coreState{
			Tape: tape.New(b.tapeCells),
			In:   NewInput(b.input),
			Out:  NewOutput(b.output),
			EOF:  b.eof,
		},
		emu:      newInstEmulator(),
		maxSteps: b.maxSteps,
		trace:    b.trace,
	}
}

// Build creates a core that executes one instruction per cycle.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("core builder needs an engine")
	}

	c := &Core{machine: b.BuildMachine()}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
