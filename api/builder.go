package api

import (
	"github.com/CedoispirDB/BFC/config"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine  sim.Engine
	freq    sim.Freq
	cfg     *config.Config
	monitor *monitoring.Monitor
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core. It overrides the frequency of
// the configuration.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithConfig sets the tape, EOF, step limit and trace settings of the core.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	b.cfg = &cfg
	return b
}

// WithMonitor registers the core with an akita monitor.
func (b DriverBuilder) WithMonitor(monitor *monitoring.Monitor) DriverBuilder {
	b.monitor = monitor
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver builder needs an engine")
	}

	cfg := config.Default()
	if b.cfg != nil {
		cfg = *b.cfg
	}

	freq := b.freq
	if freq == 0 {
		freq = cfg.Freq()
	}

	if freq <= 0 {
		freq = 1 * sim.GHz
	}

	d := &driverImpl{engine: b.engine}
	d.core = cfg.CoreBuilder().
		WithEngine(b.engine).
		WithFreq(freq).
		WithInput(&d.input).
		WithOutput(&d.outputs).
		Build(name + ".Core")

	if b.monitor != nil {
		b.monitor.RegisterComponent(d.core)
	}

	return d
}
