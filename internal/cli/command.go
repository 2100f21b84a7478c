package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/keccache/internal/config"
)

// Command is one keccache subcommand.
type Command struct {
	// Flags are the command's own flags, parsed after the command name.
	Flags *flag.FlagSet

	// Usage follows "keccache" in help output and starts with the command
	// name, e.g. "hash [flags] [<input>...]".
	Usage string

	// Short is the one-line summary in the command listing.
	Short string

	// Long is shown by "keccache <cmd> --help". Short is used when empty.
	Long string

	// Exec runs the command with the positional arguments left after flag
	// parsing. A returned error is printed as "error: ..." and exits 1.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// writeHelp writes the command's usage, description and flag defaults to w.
func (c *Command) writeHelp(w io.Writer) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	_, _ = fmt.Fprintf(w, "Usage: keccache %s\n\n%s\n", c.Usage, desc)

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	_, _ = io.WriteString(w, "\nFlags:\n")
	_, _ = io.WriteString(w, c.Flags.FlagUsages())
}

// Run parses args and executes the command, returning the exit code.
//
// --help prints to stdout and exits 0. A flag error prints the error and the
// help text to stderr, leaving stdout empty.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	fs := c.Flags
	if fs == nil {
		fs = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	fs.SetOutput(io.Discard)

	err := fs.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		c.writeHelp(o.out)

		return 0
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.writeHelp(o.errOut)

		return 1
	}

	err = c.Exec(ctx, o, fs.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

// commandSet is the ordered list of commands shown in help.
type commandSet []*Command

// newCommands wires every command to cfg and cache. cache may be nil when
// the set is only used for help output.
func newCommands(cfg *config.Config, cache cacheFunc) commandSet {
	return commandSet{
		HashCmd(cache),
		BenchCmd(cfg, cache),
		ReplCmd(cache),
		PrintConfigCmd(cfg),
	}
}

// lookup returns the command called name, or nil.
func (s commandSet) lookup(name string) *Command {
	for _, c := range s {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// writeList writes one aligned "usage  summary" line per command.
func (s commandSet) writeList(w io.Writer) {
	width := 0
	for _, c := range s {
		width = max(width, len(c.Usage))
	}

	for _, c := range s {
		_, _ = fmt.Fprintf(w, "  %-*s  %s\n", width, c.Usage, c.Short)
	}
}
