package cli

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

var errInvalidHex = errors.New("invalid hex input")

// HashCmd returns the hash command.
func HashCmd(cache cacheFunc) *Command {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	uncached := fs.Bool("uncached", false, "Bypass the cache")
	text := fs.Bool("text", false, "Hash arguments as raw text, even if they start with 0x")

	return &Command{
		Flags: fs,
		Usage: "hash [flags] [<input>...]",
		Short: "Print the Keccak-256 digest of each input",
		Long: `Print the Keccak-256 digest of each input, one per line.

Inputs starting with 0x are hex-decoded ("0x" alone is the empty input).
Without arguments, each line of stdin is an input.
With --stats, counters are printed after the digests.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			c, err := cache()
			if err != nil {
				return err
			}

			return execHash(o, c, args, *uncached, *text)
		},
	}
}

func execHash(o *IO, c *keccache.Cache, args []string, uncached, text bool) error {
	inputs := args

	if len(inputs) == 0 {
		lines, err := readLines(o)
		if err != nil {
			return err
		}

		inputs = lines
	}

	for _, arg := range inputs {
		in, err := decodeInput(arg, text)
		if err != nil {
			return err
		}

		var d keccache.Digest
		if uncached {
			d = c.ComputeUncached(in)
		} else {
			d = c.Compute(in)
		}

		o.Println(d.Hex())
	}

	if c.TracksStats() {
		printStats(o, c, c.Stats())
	}

	return nil
}

// decodeInput interprets a command-line input: 0x- or 0X-prefixed values are
// hex unless text is set.
func decodeInput(arg string, text bool) ([]byte, error) {
	hexPart, isHex := keccache.CutHexPrefix(arg)
	if text || !isHex {
		return []byte(arg), nil
	}

	b, err := hex.DecodeString(hexPart)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errInvalidHex, arg, err)
	}

	return b, nil
}

func readLines(o *IO) ([]string, error) {
	var lines []string

	sc := bufio.NewScanner(o.Stdin())
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	err := sc.Err()
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}

	return lines, nil
}

// printStats prints counters as "# key=value" comment lines.
func printStats(o *IO, c *keccache.Cache, s keccache.Stats) {
	o.Printf("# hits=%d misses=%d hit_rate=%.2f%%\n", s.Hits, s.Misses, 100*s.HitRate())
	o.Printf("# hits_20=%d hits_32=%d misses_20=%d misses_32=%d\n", s.Hits20, s.Hits32, s.Misses20, s.Misses32)
	o.Printf("# writes=%d evictions=%d dropped=%d bypassed=%d\n", s.Writes, s.Evictions, s.Dropped, s.Bypassed())
	o.Printf("# entries=%d entries_20=%d entries_32=%d capacity=%d\n",
		c.Len(), c.LenByKeyLen(20), c.LenByKeyLen(32), c.Capacity())
}
