package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/CedoispirDB/BFC/api"
	"github.com/CedoispirDB/BFC/config"
	"github.com/tebeka/atexit"
)

//go:embed cat.bf
var catSource []byte

func main() {
	result := api.Execute(catSource, os.Stdin, os.Stdout, config.Default())
	if result.Status != api.StatusCompleted {
		fmt.Fprintln(os.Stderr, result.Err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
