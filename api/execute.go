package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/core"
	"github.com/CedoispirDB/BFC/program"
	"github.com/sarchlab/akita/v4/sim"
)

// Status is the outcome class of a run.
type Status int

const (
	// StatusCompleted means the instruction pointer reached the end.
	StatusCompleted Status = iota
	// StatusParseError means the source was rejected before running.
	StatusParseError
	// StatusRuntimeError means the run halted early.
	StatusRuntimeError
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusParseError:
		return "ParseError"
	case StatusRuntimeError:
		return "RuntimeError"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes how a run ended.
type Result struct {
	Status Status

	// Offset is the source offset the failure is attributed to, -1 if the
	// run completed or no instruction is to blame.
	Offset int

	// Kind names the error kind, such as UnbalancedBrackets or
	// TapeUnderflow. Empty on completion.
	Kind string

	Steps  uint64
	Cycles uint64

	Err error
}

func (r Result) String() string {
	if r.Status == StatusCompleted {
		return r.Status.String()
	}

	return fmt.Sprintf("%s{offset: %d, kind: %s}", r.Status, r.Offset, r.Kind)
}

// Execute parses src and runs it with in as the input stream and out as the
// output sink. The output is flushed before Execute returns, whatever the
// outcome. cfg is expected to be valid.
func Execute(src []byte, in io.Reader, out io.Writer, cfg config.Config) Result {
	p, err := program.Load(src)
	if err != nil {
		return ParseResult(err)
	}

	return Run(p, in, out, cfg)
}

// Run runs an already parsed program, in the mode cfg selects.
func Run(p program.Program, in io.Reader, out io.Writer, cfg config.Config) Result {
	if cfg.Mode == config.ModeSim {
		return runSim(p, in, out, cfg)
	}

	return runDirect(p, in, out, cfg)
}

func runDirect(p program.Program, in io.Reader, out io.Writer, cfg config.Config) Result {
	m := cfg.CoreBuilder().
		WithInput(in).
		WithOutput(out).
		BuildMachine()
	m.Load(p)

	err := m.Run()

	return ResultOf(err, m.Steps(), 0)
}

// runSim reads the whole input up front, since the driver is fed in bulk.
func runSim(p program.Program, in io.Reader, out io.Writer, cfg config.Config) Result {
	var data []byte

	if in != nil {
		var err error

		data, err = io.ReadAll(in)
		if err != nil {
			return ResultOf(&core.RuntimeError{
				Kind:   core.InputFailure,
				Offset: -1,
				Err:    err,
			}, 0, 0)
		}
	}

	engine := sim.NewSerialEngine()
	d := DriverBuilder{}.
		WithEngine(engine).
		WithConfig(cfg).
		Build("Driver")

	d.FeedIn(data)
	if out != nil {
		d.Collect(out)
	}
	d.MapProgram(p)

	err := d.Run()

	return ResultOf(err, d.Steps(), d.Cycles())
}

// ParseResult classifies an error returned by program.Load.
func ParseResult(err error) Result {
	r := Result{
		Status: StatusParseError,
		Offset: -1,
		Err:    err,
	}

	var perr *program.ParseError
	if errors.As(err, &perr) {
		r.Offset = perr.Offset
		r.Kind = perr.Kind.String()
	}

	return r
}

// ResultOf classifies the error that ended a run. A nil error is a
// completed run.
func ResultOf(err error, steps, cycles uint64) Result {
	r := Result{
		Status: StatusCompleted,
		Offset: -1,
		Steps:  steps,
		Cycles: cycles,
		Err:    err,
	}

	if err == nil {
		return r
	}

	r.Status = StatusRuntimeError
	r.Kind = core.InternalFault.String()

	var rerr *core.RuntimeError
	if errors.As(err, &rerr) {
		r.Offset = rerr.Offset
		r.Kind = rerr.Kind.String()
	}

	return r
}
