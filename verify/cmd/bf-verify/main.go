package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/verify"
	"github.com/tebeka/atexit"
)

func main() {
	configPath := flag.String("config", "", "YAML or TOML configuration file")
	inputPath := flag.String("input", "", "file fed to the program as input")
	reportPath := flag.String("o", "", "also save the report to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bf-verify [flags] program.bf")
		atexit.Exit(2)
	}

	report, err := generate(*configPath, flag.Arg(0), *inputPath)
	if err != nil {
		atexit.Fatalf("%v", err)
	}

	if err := report.WriteReport(os.Stdout); err != nil {
		atexit.Fatalf("Failed to write report: %v", err)
	}

	if *reportPath != "" {
		if err := report.SaveReportToFile(*reportPath); err != nil {
			atexit.Fatalf("%v", err)
		}
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// generate loads the configuration, the program and its input, and builds
// the report. An empty configPath or inputPath is skipped.
func generate(configPath, programPath, inputPath string) (*verify.Report, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	src, err := os.ReadFile(programPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load program from %s: %w", programPath, err)
	}

	var input []byte
	if inputPath != "" {
		if input, err = os.ReadFile(inputPath); err != nil {
			return nil, fmt.Errorf("failed to load input from %s: %w", inputPath, err)
		}
	}

	return verify.GenerateReport(src, input, cfg), nil
}
