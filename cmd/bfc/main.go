// Command bfc runs tape-machine programs.
//
//	bfc [flags] program.bf      run a source file ("-" reads stdin)
//	bfc [flags] program.bfi     run a compiled image
//	bfc -emit out.bfi prog.bf   compile to an image
//	bfc -i                      interactive session
//
// Exit status is 0 on success, 1 on a runtime error and 2 on a parse or
// usage error.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CedoispirDB/BFC/api"
	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/core"
	"github.com/CedoispirDB/BFC/program"
	"github.com/CedoispirDB/BFC/verify"
	"github.com/tebeka/atexit"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

const imageExt = ".bfi"

type options struct {
	configPath  string
	inputPath   string
	mode        string
	eof         string
	maxSteps    uint64
	logLevel    string
	logFormat   string
	trace       bool
	lint        bool
	dump        bool
	report      bool
	emit        string
	interactive bool
}

func main() {
	var opts options

	registerFlags(flag.CommandLine, &opts)
	flag.Parse()

	cfg, err := buildConfig(flag.CommandLine, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bfc: %v\n", err)
		atexit.Exit(exitUsage)
	}

	if err := config.InitLoggerFromConfig(cfg, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "bfc: %v\n", err)
		atexit.Exit(exitUsage)
	}

	slog.Debug("Config", "EOF", cfg.EOF.String(), "Mode", cfg.Mode, "MaxSteps", cfg.MaxSteps)

	if opts.interactive {
		atexit.Exit(runRepl(cfg, opts))
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bfc [flags] program.bf|program.bfi|-")
		flag.PrintDefaults()
		atexit.Exit(exitUsage)
	}

	atexit.Exit(run(flag.Arg(0), cfg, opts, os.Stdout, os.Stderr))
}

func registerFlags(fs *flag.FlagSet, opts *options) {
	fs.StringVar(&opts.configPath, "config", "", "YAML or TOML configuration file")
	fs.StringVar(&opts.inputPath, "input", "", "read program input from this file instead of stdin")
	fs.StringVar(&opts.mode, "mode", "", `execution mode, "direct" or "sim"`)
	fs.StringVar(&opts.eof, "eof", "", `value stored on end of input: "zero", "unchanged" or "minus-one"`)
	fs.Uint64Var(&opts.maxSteps, "max-steps", 0, "halt after this many instructions (0 means no limit)")
	fs.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "", "text or json")
	fs.BoolVar(&opts.trace, "trace", false, "log every executed instruction at trace level")
	fs.BoolVar(&opts.lint, "lint", false, "check the program without running it")
	fs.BoolVar(&opts.dump, "dump", false, "print the token table before running")
	fs.BoolVar(&opts.report, "report", false, "print a lint and bounded-run report")
	fs.StringVar(&opts.emit, "emit", "", "write the compiled program image to this file; the program is not run")
	fs.BoolVar(&opts.interactive, "i", false, "start an interactive session")
}

// buildConfig loads the configuration file, if any, and applies the flags
// that were set in fs on top of it.
func buildConfig(fs *flag.FlagSet, opts options) (config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	var err error

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = opts.mode
		case "eof":
			var policy core.EOFPolicy
			if policy, err = core.ParseEOFPolicy(opts.eof); err == nil {
				cfg.EOF = policy
			}
		case "max-steps":
			cfg.MaxSteps = opts.maxSteps
		case "log-level":
			cfg.LogLevel = opts.logLevel
		case "log-format":
			cfg.LogFormat = opts.logFormat
		case "trace":
			cfg.Trace = opts.trace
		}
	})

	if err != nil {
		return cfg, err
	}

	if cfg.Trace && cfg.LogLevel != "trace" {
		cfg.LogLevel = "trace"
	}

	return cfg, cfg.Validate()
}

// run handles one program file and returns the exit status. An image given
// with -emit is written before any lint, report or run, and the program is
// only run when neither -emit, -lint nor -report is set.
func run(path string, cfg config.Config, opts options, stdout, stderr io.Writer) int {
	var (
		src       []byte
		p         program.Program
		fromImage = strings.EqualFold(filepath.Ext(path), imageExt)
		err       error
	)

	if fromImage {
		p, err = loadImage(path)
		if err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			return exitUsage
		}
		src = []byte(p.String())
	} else {
		src, err = readSource(path)
		if err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			return exitUsage
		}
	}

	if opts.dump {
		dump(stdout, src)
	}

	if opts.emit != "" {
		if code := emit(src, opts.emit, stderr); code != exitOK || !(opts.lint || opts.report) {
			return code
		}
	}

	if opts.lint {
		return lint(src, stdout)
	}

	input, err := openInput(opts.inputPath, path == "-")
	if err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		return exitUsage
	}

	if opts.report {
		data, err := readAll(input)
		if err != nil {
			fmt.Fprintf(stderr, "bfc: read input: %v\n", err)
			return exitUsage
		}

		r := verify.GenerateReport(src, data, cfg)
		if err := r.WriteReport(stdout); err != nil {
			fmt.Fprintf(stderr, "bfc: write report: %v\n", err)
			return exitRuntime
		}

		if !r.Passed() {
			return exitRuntime
		}

		return exitOK
	}

	var result api.Result
	if fromImage {
		result = api.Run(p, input, stdout, cfg)
	} else {
		result = api.Execute(src, input, stdout, cfg)
	}
	slog.Info("Finished", "Result", result.String(), "Steps", result.Steps, "Cycles", result.Cycles)

	switch result.Status {
	case api.StatusParseError:
		fmt.Fprintf(stderr, "bfc: %v\n", result.Err)
		return exitUsage
	case api.StatusRuntimeError:
		fmt.Fprintf(stderr, "bfc: %v\n", result.Err)
		return exitRuntime
	default:
		return exitOK
	}
}

// dump prints the token table of src with loop partners resolved. A source
// that does not load is printed unresolved.
func dump(w io.Writer, src []byte) {
	p, err := program.Load(src)
	if err != nil {
		verify.WriteTokens(w, program.Tokenize(src))
		return
	}

	verify.WriteTokens(w, p.Insts)
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read program from stdin: %w", err)
		}
		return src, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}

	return src, nil
}

// openInput returns the program's input stream. Stdin is used unless the
// program itself came from stdin, in which case the input is empty.
func openInput(path string, stdinTaken bool) (io.Reader, error) {
	if path == "" {
		if stdinTaken {
			return nil, nil
		}
		return os.Stdin, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	atexit.Register(func() { _ = f.Close() })

	return f, nil
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	return io.ReadAll(r)
}

func lint(src []byte, w io.Writer) int {
	issues := verify.RunLint(program.Tokenize(src))

	code := exitOK
	for _, issue := range issues {
		fmt.Fprintf(w, "%s offset=%d: %s\n", issue.Type, issue.Offset, issue.Message)

		switch issue.Type {
		case verify.IssueStruct:
			code = exitUsage
		case verify.IssueRuntime:
			if code == exitOK {
				code = exitRuntime
			}
		}
	}

	if len(issues) == 0 {
		fmt.Fprintln(w, "ok")
	}

	return code
}

func loadImage(path string) (program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return program.Program{}, fmt.Errorf("read image: %w", err)
	}

	p, err := program.UnmarshalImage(data)
	if err != nil {
		return program.Program{}, fmt.Errorf("load image %s: %w", path, err)
	}

	return p, nil
}

func emit(src []byte, path string, stderr io.Writer) int {
	p, err := program.Load(src)
	if err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		return exitUsage
	}

	data, err := program.MarshalImage(p)
	if err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		return exitRuntime
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(stderr, "bfc: write image: %v\n", err)
		return exitRuntime
	}

	slog.Info("Image written", "Path", path, "Instructions", p.Len())

	return exitOK
}
