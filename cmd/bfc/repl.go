package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/core"
	"github.com/CedoispirDB/BFC/program"
	"github.com/peterh/liner"
)

const (
	historyFile = ".bfc_history"
	promptMain  = "bf> "
	promptCont  = "... "
	tapeRadius  = 8
)

const banner = "bfc interactive session. Programs share one tape. :tape, :reset, :quit."

// session runs successive programs against one machine, so the tape and the
// pointer carry over from one line to the next.
type session struct {
	machine *core.Machine
	out     io.Writer
}

func newSession(cfg config.Config, in io.Reader, out io.Writer) *session {
	return &session{
		machine: cfg.CoreBuilder().
			WithInput(in).
			WithOutput(out).
			BuildMachine(),
		out: out,
	}
}

// incomplete reports whether src only fails to load because a loop is still
// open, in which case more lines are wanted.
func incomplete(src string) bool {
	_, err := program.Load([]byte(src))

	var perr *program.ParseError
	return errors.As(err, &perr) && perr.Symbol == '['
}

// eval runs one entry. It returns false when the session should end.
func (s *session) eval(src string) bool {
	switch strings.ToLower(strings.TrimSpace(src)) {
	case "":
		return true
	case ":quit":
		return false
	case ":tape":
		core.PrintState(s.out, s.machine, tapeRadius)
		return true
	case ":reset":
		s.machine.ResetTape()
		fmt.Fprintln(s.out, "tape reset")
		return true
	}

	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		fmt.Fprintln(s.out, "unknown command. Type :quit to exit.")
		return true
	}

	p, err := program.Load([]byte(src))
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return true
	}

	s.machine.Load(p)
	if err := s.machine.Run(); err != nil {
		fmt.Fprintf(s.out, "\nerror: %v\n", err)
	}

	return true
}

// readEntry prompts until the collected lines form a loadable program or
// one that fails for another reason than an open loop.
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !incomplete(src) {
			return src, true
		}
	}
}

// historyPath returns the history file in the home directory. There is no
// history when the home directory is unknown.
func historyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("No history", "Error", err)
		return "", false
	}

	return filepath.Join(home, historyFile), true
}

func runRepl(cfg config.Config, opts options) int {
	fmt.Println(banner)

	var in io.Reader
	if opts.inputPath != "" {
		f, err := os.Open(opts.inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bfc: open input: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		in = f
	}

	histPath, hasHistory := historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if hasHistory {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	s := newSession(cfg, in, os.Stdout)

	for {
		src, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			break
		}

		if !s.eval(src) {
			break
		}

		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
	}

	return exitOK
}
