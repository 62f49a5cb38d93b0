// Package tape implements the growable byte tape that programs operate on.
//
// All cell reads, writes and pointer moves go through a Tape. Cells are
// 8-bit and wrap modulo 256. The tape grows to the right on demand, never
// shrinks, and refuses to move left of cell 0.
package tape

import "errors"

// ErrUnderflow is returned when the data pointer would move left of cell 0.
var ErrUnderflow = errors.New("tape underflow")

// Tape is a growable sequence of byte cells plus a data pointer.
type Tape struct {
	cells []byte
	ptr   int
}

// New creates a tape with initialCells zeroed cells. At least one cell is
// always allocated.
func New(initialCells int) *Tape {
	if initialCells < 1 {
		initialCells = 1
	}

	return &Tape{cells: make([]byte, initialCells)}
}

// Read returns the cell under the data pointer.
func (t *Tape) Read() byte {
	return t.cells[t.ptr]
}

// Write stores value mod 256 in the current cell. Negative values wrap as
// well, so Write(-1) stores 255.
func (t *Tape) Write(value int) {
	t.cells[t.ptr] = byte(value)
}

// Increment adds one to the current cell, wrapping 255 to 0.
func (t *Tape) Increment() {
	t.cells[t.ptr]++
}

// Decrement subtracts one from the current cell, wrapping 0 to 255.
func (t *Tape) Decrement() {
	t.cells[t.ptr]--
}

// MoveRight advances the data pointer, doubling the allocation when the
// pointer runs past it.
func (t *Tape) MoveRight() {
	t.ptr++
	if t.ptr == len(t.cells) {
		t.grow()
	}
}

func (t *Tape) grow() {
	t.cells = append(t.cells, make([]byte, len(t.cells))...)
}

// MoveLeft moves the data pointer one cell to the left. At cell 0 it returns
// ErrUnderflow and leaves the pointer where it is.
func (t *Tape) MoveLeft() error {
	if t.ptr == 0 {
		return ErrUnderflow
	}

	t.ptr--

	return nil
}

// Pointer returns the index of the current cell.
func (t *Tape) Pointer() int {
	return t.ptr
}

// Len returns the number of allocated cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Cell returns the value of cell i. Cells that were never allocated read as
// zero.
func (t *Tape) Cell(i int) byte {
	if i < 0 || i >= len(t.cells) {
		return 0
	}

	return t.cells[i]
}

// Snapshot copies the cells in [from, to). The range is clipped to the
// allocated region.
func (t *Tape) Snapshot(from, to int) []byte {
	from = max(from, 0)
	to = min(to, len(t.cells))
	if from >= to {
		return []byte{}
	}

	out := make([]byte, to-from)
	copy(out, t.cells[from:to])

	return out
}

// Reset zeroes every cell and returns the pointer to the origin. The
// allocation is kept.
func (t *Tape) Reset() {
	clear(t.cells)
	t.ptr = 0
}
