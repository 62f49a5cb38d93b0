package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Output is the byte sink of a run. It is flushed whenever a run ends,
// successfully or not.
type Output interface {
	io.ByteWriter
	Flush() error
}

// NewOutput adapts w to an Output. Writers that already implement Output
// (such as *bufio.Writer) are used as they are. A nil writer discards.
func NewOutput(w io.Writer) Output {
	if w == nil {
		w = io.Discard
	}

	if out, ok := w.(Output); ok {
		return out
	}

	return bufio.NewWriter(w)
}

// NewInput adapts r to an io.ByteReader. A nil reader is an empty stream.
func NewInput(r io.Reader) io.ByteReader {
	if r == nil {
		return emptyInput{}
	}

	if br, ok := r.(io.ByteReader); ok {
		return br
	}

	return bufio.NewReader(r)
}

type emptyInput struct{}

func (emptyInput) ReadByte() (byte, error) {
	return 0, io.EOF
}

// EOFPolicy decides what the Input instruction stores when the input stream
// is exhausted.
type EOFPolicy int

const (
	// EOFZero stores 0.
	EOFZero EOFPolicy = iota
	// EOFUnchanged leaves the current cell as it is.
	EOFUnchanged
	// EOFMinusOne stores 255.
	EOFMinusOne
)

var eofPolicyNames = map[EOFPolicy]string{
	EOFZero:      "zero",
	EOFUnchanged: "unchanged",
	EOFMinusOne:  "minus-one",
}

func (p EOFPolicy) String() string {
	if name, ok := eofPolicyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("EOFPolicy(%d)", int(p))
}

// ParseEOFPolicy parses "zero", "unchanged" or "minus-one".
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range eofPolicyNames {
		if name == s {
			return p, nil
		}
	}

	return EOFZero, fmt.Errorf("invalid EOF policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p EOFPolicy) MarshalText() ([]byte, error) {
	if _, ok := eofPolicyNames[p]; !ok {
		return nil, fmt.Errorf("invalid EOF policy %d", int(p))
	}

	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *EOFPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseEOFPolicy(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}
