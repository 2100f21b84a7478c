// Package cli implements the keccache command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/keccache/internal/config"
	"github.com/calvinalkan/keccache/pkg/keccache"
)

var errNoCommand = errors.New("no command provided")

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. The first signal received cancels the command's context;
// long-running commands (bench, repl) stop at their next check.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("keccache", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	var (
		workDir    = globals.StringP("cwd", "C", "", "Run as if started in `dir`")
		configPath = globals.StringP("config", "c", "", "Use specified config `file`")
		capacity   = globals.Uint64("capacity", 0, "Cache slots, a power of two (overrides config)")
		maxKeyLen  = globals.Int("max-key-len", 0, "Longest cached input in bytes (overrides config)")
		stats      = globals.Bool("stats", false, "Track hit/miss counters")
		help       = globals.BoolP("help", "h", false, "Show help")
	)

	if len(args) < 2 {
		printUsage(out, globals, nil)

		return 0
	}

	err := globals.Parse(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, nil)

		return 1
	}

	if *help {
		printUsage(out, globals, nil)

		return 0
	}

	input := config.LoadInput{
		WorkDirOverride:   *workDir,
		ConfigPath:        *configPath,
		CapacityOverride:  *capacity,
		MaxKeyLenOverride: *maxKeyLen,
		Env:               env,
	}

	if globals.Changed("stats") {
		input.TrackStatsOverride = stats
	}

	cfg, err := config.Load(input)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Built on first use so print-config and help never allocate a table.
	cache := sync.OnceValues(func() (*keccache.Cache, error) {
		return keccache.New(cfg.Options())
	})

	commands := newCommands(&cfg, cache)

	rest := globals.Args()
	if len(rest) == 0 {
		fprintln(errOut, "error:", errNoCommand)
		printUsage(errOut, globals, commands)

		return 1
	}

	cmd := commands.lookup(rest[0])
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", rest[0])
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(stdin, out, errOut), rest[1:])
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// printUsage prints global help. commands is nil before config is loaded;
// the listing then uses commands built from the defaults.
func printUsage(w io.Writer, globals *flag.FlagSet, commands commandSet) {
	if commands == nil {
		cfg := config.Default()
		commands = newCommands(&cfg, nil)
	}

	fprintln(w, `keccache - memoized Keccak-256 hashing

Usage: keccache [flags] <command> [args]

Global flags:`)

	_, _ = io.WriteString(w, globals.FlagUsages())

	fprintln(w)
	fprintln(w, "Commands:")
	commands.writeList(w)

	fprintln(w)
	fprintln(w, `Run "keccache <command> --help" for command flags.`)
}

// cacheFunc returns the command's cache, building it on first call.
type cacheFunc func() (*keccache.Cache, error)
