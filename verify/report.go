package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/CedoispirDB/BFC/api"
	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/core"
	"github.com/CedoispirDB/BFC/instr"
	"github.com/CedoispirDB/BFC/program"
)

// DefaultReportSteps bounds the run of a report when the configuration sets
// no step limit.
const DefaultReportSteps = 1_000_000

// tapeRadius is the number of cells shown on each side of the pointer.
const tapeRadius = 8

// Report represents a complete diagnostic report
type Report struct {
	Tokens        int
	Loops         int
	LintIssues    []Issue
	StructIssues  []Issue
	RuntimeIssues []Issue
	StyleIssues   []Issue

	// Ran is false when the program could not be loaded.
	Ran    bool
	Result api.Result
	Output []byte

	machine *core.Machine
}

// GenerateReport lints src and, if it loads, runs it on input with a bounded
// number of steps.
func GenerateReport(src, input []byte, cfg config.Config) *Report {
	insts := program.Tokenize(src)

	report := &Report{
		Tokens:     len(insts),
		LintIssues: RunLint(insts),
	}

	for _, inst := range insts {
		if inst.Op == instr.LoopStart {
			report.Loops++
		}
	}

	report.StructIssues, report.RuntimeIssues, report.StyleIssues =
		splitIssues(report.LintIssues)

	p, err := program.Load(src)
	if err != nil {
		report.Result = api.ParseResult(err)
		return report
	}

	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = DefaultReportSteps
	}

	var out bytes.Buffer

	m := cfg.CoreBuilder().
		WithInput(bytes.NewReader(input)).
		WithOutput(&out).
		BuildMachine()
	m.Load(p)

	err = m.Run()

	report.Ran = true
	report.Result = api.ResultOf(err, m.Steps(), 0)
	report.Output = out.Bytes()
	report.machine = m

	return report
}

// Passed reports whether the program has no structural or runtime issues
// and the bounded run completed.
func (r *Report) Passed() bool {
	return len(r.StructIssues) == 0 &&
		len(r.RuntimeIssues) == 0 &&
		r.Ran &&
		r.Result.Status == api.StatusCompleted
}

// errWriter keeps the first write error and drops every later write.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}

	n, err := ew.w.Write(p)
	ew.err = err

	return n, err
}

// WriteReport writes a formatted report to a writer. It returns the first
// write error.
func (r *Report) WriteReport(out io.Writer) error {
	w := &errWriter{w: out}

	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ Tokenized %d instructions, %d loops\n", r.Tokens, r.Loops)

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))
		writeIssues(w, dash, IssueStruct, r.StructIssues)
		writeIssues(w, dash, IssueRuntime, r.RuntimeIssues)
		writeIssues(w, dash, IssueStyle, r.StyleIssues)
	}

	// STAGE 2: BOUNDED RUN
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: BOUNDED RUN")
	fmt.Fprintln(w, separator)

	if !r.Ran {
		fmt.Fprintf(w, "⚠ Program not run: %v\n", r.Result.Err)
	} else {
		if r.Result.Status == api.StatusCompleted {
			fmt.Fprintf(w, "✓ Completed in %d steps\n", r.Result.Steps)
		} else {
			fmt.Fprintf(w, "⚠ Halted after %d steps: %v\n", r.Result.Steps, r.Result.Err)
		}

		fmt.Fprintf(w, "Output (%d bytes): %s\n", len(r.Output), strconv.Quote(string(r.Output)))
		fmt.Fprintln(w)
		core.PrintState(w, r.machine, tapeRadius)
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d RUNTIME, %d STYLE)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.RuntimeIssues), len(r.StyleIssues))
	fmt.Fprintf(w, "Run Result: %s\n", r.Result)

	if r.Passed() {
		fmt.Fprintln(w, "✓ PROGRAM PASSED ALL CHECKS")
	} else {
		fmt.Fprintln(w, "⚠ PROGRAM HAS PROBLEMS")
	}

	fmt.Fprintln(w)

	return w.err
}

func writeIssues(w io.Writer, dash string, kind IssueType, issues []Issue) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s ISSUES (%d):\n", kind, len(issues))
	fmt.Fprintln(w, dash)

	for _, issue := range issues {
		fmt.Fprintf(w, "  [offset=%d #%d] %s\n", issue.Offset, issue.Index, issue.Message)
	}
}

// SaveReportToFile saves the report to a file
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := r.WriteReport(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	return nil
}
