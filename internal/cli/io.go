package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// IO is a command's view of the process streams.
//
// Warnings are collected while the command runs and written to stderr twice:
// once right before the first stdout line, and again when the command
// finishes. Piping stdout through head or tail therefore cannot hide them.
type IO struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	warnings []string
	// announced is set once the warnings seen so far have been written
	// ahead of stdout.
	announced bool
}

// NewIO wraps the given streams. in may be nil.
func NewIO(in io.Reader, out, errOut io.Writer) *IO {
	return &IO{in: in, out: out, errOut: errOut}
}

// Stdin returns the input stream, or an empty reader if there is none.
func (o *IO) Stdin() io.Reader {
	if o.in == nil {
		return strings.NewReader("")
	}

	return o.in
}

// Warn records a non-fatal problem and how to address it. Repeated warnings
// are kept once. Any warning turns the exit code into 1.
func (o *IO) Warn(issue, action string) {
	w := issue + ": " + action
	if slices.Contains(o.warnings, w) {
		return
	}

	o.warnings = append(o.warnings, w)
}

// Println writes a line to stdout.
func (o *IO) Println(a ...any) {
	o.announce()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.announce()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes a line to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish writes the warnings a final time and returns the exit code.
func (o *IO) Finish() int {
	// Warnings raised before any stdout output have not been shown yet.
	o.announce()
	o.writeWarnings()

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) announce() {
	if o.announced || len(o.warnings) == 0 {
		return
	}

	o.announced = true
	o.writeWarnings()
}

func (o *IO) writeWarnings() {
	for _, w := range o.warnings {
		o.ErrPrintln("warning:", w)
	}
}
