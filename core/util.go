package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace sits below Debug. Per-instruction records are logged at this
// level.
const LevelTrace slog.Level = slog.LevelDebug - 4

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState renders the tape cells within radius of the pointer.
func PrintState(w io.Writer, m *Machine, radius int) {
	t := m.Tape()
	ptr := t.Pointer()

	from := max(ptr-radius, 0)
	to := ptr + radius + 1

	tapeTable := table.NewWriter()
	tapeTable.SetTitle(fmt.Sprintf("PC %d/%d  Steps %d  Ptr %d  Cells %d",
		m.PC(), m.Program().Len(), m.Steps(), ptr, t.Len()))

	header := table.Row{"Cell"}
	values := table.Row{"Value"}
	marker := table.Row{""}

	for i := from; i < to; i++ {
		header = append(header, i)
		values = append(values, t.Cell(i))

		if i == ptr {
			marker = append(marker, "^")
		} else {
			marker = append(marker, "")
		}
	}

	tapeTable.AppendHeader(header)
	tapeTable.AppendRow(values)
	tapeTable.AppendRow(marker)

	fmt.Fprintln(w, tapeTable.Render())
}

func LogState(m *Machine) {
	t := m.Tape()
	slog.Debug("StateCheckpoint",
		"PC", m.PC(),
		"Steps", m.Steps(),
		"Ptr", t.Pointer(),
		"Cell", t.Read(),
		"Cells", t.Len(),
		"Done", m.Done(),
	)
}
