package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/CedoispirDB/BFC/api"
	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/program"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"
)

//go:embed hello.bf
var helloSource []byte

func main() {
	monitorFlag := flag.Bool("monitor", false, "serve the akita monitor while running")
	flag.Parse()

	p, err := program.Load(helloSource)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	engine := sim.NewSerialEngine()

	builder := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithConfig(config.Default())

	var monitor *monitoring.Monitor
	if *monitorFlag {
		monitor = monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		builder = builder.WithMonitor(monitor)
	}

	driver := builder.Build("Driver")

	if monitor != nil {
		monitor.StartServer()
	}

	driver.Collect(os.Stdout)
	driver.MapProgram(p)

	if err := driver.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("%d instructions in %d cycles, %.0f ns simulated\n",
		driver.Steps(), driver.Cycles(), float64(engine.CurrentTime()*1e9))
	atexit.Exit(0)
}
