// Package config holds the settings of a run and loads them from YAML or
// TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/CedoispirDB/BFC/core"
	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"
)

// Execution modes.
const (
	// ModeDirect runs programs on a core.Machine.
	ModeDirect = "direct"
	// ModeSim runs programs on an akita core, one instruction per cycle.
	ModeSim = "sim"
)

// Config holds every knob of a run.
type Config struct {
	EOF          core.EOFPolicy `yaml:"eof" toml:"eof"`
	InitialCells int            `yaml:"initial_cells" toml:"initial_cells"`
	MaxSteps     uint64         `yaml:"max_steps" toml:"max_steps"`
	Mode         string         `yaml:"mode" toml:"mode"`
	FreqGHz      float64        `yaml:"freq_ghz" toml:"freq_ghz"`
	LogLevel     string         `yaml:"log_level" toml:"log_level"`
	LogFormat    string         `yaml:"log_format" toml:"log_format"`
	Trace        bool           `yaml:"trace" toml:"trace"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		EOF:          core.EOFZero,
		InitialCells: core.DefaultTapeCells,
		Mode:         ModeDirect,
		FreqGHz:      1,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// Load reads a configuration file. The format is chosen by extension:
// .yaml/.yml or .toml. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return cfg, fmt.Errorf("config: unsupported file type %q", ext)
	}

	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.InitialCells < 1 {
		return fmt.Errorf("initial_cells must be at least 1, got %d", c.InitialCells)
	}

	if c.Mode != ModeDirect && c.Mode != ModeSim {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDirect, ModeSim, c.Mode)
	}

	if c.Mode == ModeSim && c.FreqGHz <= 0 {
		return fmt.Errorf("freq_ghz must be positive, got %g", c.FreqGHz)
	}

	if _, err := c.EOF.MarshalText(); err != nil {
		return err
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if _, err := parseFormat(c.LogFormat); err != nil {
		return err
	}

	return nil
}

// Freq returns the simulated core frequency.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.FreqGHz) * sim.GHz
}

// CoreBuilder returns a core builder carrying the tape, EOF, step limit and
// trace settings.
func (c Config) CoreBuilder() core.Builder {
	return core.NewBuilder().
		WithTapeCells(c.InitialCells).
		WithEOFPolicy(c.EOF).
		WithMaxSteps(c.MaxSteps).
		WithTrace(c.Trace)
}
