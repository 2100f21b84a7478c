package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

const replPrompt = "keccache> "

var replCommands = []string{"hash", "uncached", "stats", "len", "clear", "help", "exit"}

// lineReader yields one input line per call. io.EOF ends the session.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// scanReader reads lines from a non-terminal stdin.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.sc.Text(), nil
}

// ReplCmd returns the repl command.
func ReplCmd(cache cacheFunc) *Command {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	history := fs.Bool("history", true, "Load and save ~/.keccache_history (terminal only)")

	return &Command{
		Flags: fs,
		Usage: "repl [flags]",
		Short: "Interactive hashing session on one cache",
		Long: `Start an interactive session. The cache lives for the whole session,
so repeated inputs show up as hits.

Commands: hash <input>, uncached <input>, stats, len [n], clear, help, exit.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			c, err := cache()
			if err != nil {
				return err
			}

			r := &repl{o: o, cache: c}

			return r.run(ctx, *history)
		},
	}
}

type repl struct {
	o     *IO
	cache *keccache.Cache
}

func (r *repl) run(ctx context.Context, useHistory bool) error {
	var in lineReader

	src := r.o.Stdin()

	if f, ok := src.(*os.File); ok && f == os.Stdin {
		state := liner.NewLiner()
		defer state.Close()

		state.SetCtrlCAborts(true)
		state.SetCompleter(completeCommand)

		if useHistory {
			loadHistory(state)
			defer saveHistory(state)
		}

		in = &historyReader{state: state}
	} else {
		in = &scanReader{sc: bufio.NewScanner(src)}
	}

	r.o.Printf("keccache repl (capacity=%d, max_key_len=%d)\n", r.cache.Capacity(), r.cache.MaxKeyLen())
	r.o.Println("Type 'help' for available commands.")

	for ctx.Err() == nil {
		line, err := in.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.o.Println("Bye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		if r.exec(line) {
			r.o.Println("Bye!")

			return nil
		}
	}

	return ctx.Err()
}

// exec runs one REPL line and reports whether the session should end.
func (r *repl) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "exit", "quit", "q":
		return true

	case "help", "?":
		r.o.Println("  hash <input>      digest through the cache (0x... is hex)")
		r.o.Println("  uncached <input>  digest without touching the cache")
		r.o.Println("  stats             hit/miss counters (needs --stats)")
		r.o.Println("  len [n]           occupied slots, or slots holding n-byte keys")
		r.o.Println("  clear             empty the cache")
		r.o.Println("  exit              leave")

	case "hash", "uncached":
		if len(args) == 0 {
			r.o.Println("usage:", cmd, "<input>")

			return false
		}

		in, err := decodeInput(strings.Join(args, " "), false)
		if err != nil {
			r.o.Println("error:", err)

			return false
		}

		if cmd == "hash" {
			r.o.Println(r.cache.Compute(in).Hex())
		} else {
			r.o.Println(r.cache.ComputeUncached(in).Hex())
		}

	case "stats":
		printStats(r.o, r.cache, r.cache.Stats())

	case "len":
		if len(args) == 0 {
			r.o.Println(r.cache.Len())

			return false
		}

		n, err := strconv.Atoi(args[0])
		if err != nil {
			r.o.Println("error: len expects a number:", args[0])

			return false
		}

		r.o.Println(r.cache.LenByKeyLen(n))

	case "clear":
		r.cache.Clear()
		r.o.Println("cleared")

	default:
		r.o.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return false
}

// historyReader records every non-empty line in liner's history.
type historyReader struct {
	state *liner.State
}

func (h *historyReader) Prompt(prompt string) (string, error) {
	line, err := h.state.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		h.state.AppendHistory(line)
	}

	return line, err
}

func completeCommand(line string) []string {
	var out []string

	for _, c := range replCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}

	return out
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".keccache_history")
}

func loadHistory(state *liner.State) {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = state.ReadHistory(f)
}

func saveHistory(state *liner.State) {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = state.WriteHistory(f)
}
