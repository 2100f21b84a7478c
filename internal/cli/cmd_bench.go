package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/keccache/internal/bench"
	"github.com/calvinalkan/keccache/internal/config"
	"github.com/calvinalkan/keccache/pkg/keccache"
)

type benchFlags struct {
	iterations int
	workers    int
	addresses  int
	words      int
	scenarios  []string
	report     string
	save       bool
	metrics    string
	verbose    bool
}

// BenchCmd returns the bench command.
func BenchCmd(cfg *config.Config, cache cacheFunc) *Command {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)

	var f benchFlags

	fs.IntVar(&f.iterations, "iterations", bench.DefaultIterations, "Length of the mixed workload")
	fs.IntVar(&f.workers, "workers", 1, "Goroutines hashing each scenario")
	fs.IntVar(&f.addresses, "addresses", bench.DefaultAddresses, "Distinct 20-byte inputs")
	fs.IntVar(&f.words, "words", bench.DefaultWords, "Distinct 32-byte inputs")
	fs.StringArrayVar(&f.scenarios, "scenario", nil, "Scenario to run, repeatable (default all)")
	fs.StringVar(&f.report, "report", "", "Write a JSON report to `path`")
	fs.BoolVar(&f.save, "save", false, "Write the JSON report into the configured report_dir")
	fs.StringVar(&f.metrics, "metrics", "", "Write Prometheus metrics to `path` after the run")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log debug output")

	return &Command{
		Flags: fs,
		Usage: "bench [flags]",
		Short: "Measure cached against uncached hashing",
		Long: fmt.Sprintf(`Run hashing workloads through a fresh cache and print a summary.

Scenarios: %v. A warm scenario runs after its cold counterpart.
Progress is logged to stderr in logfmt.`, bench.ScenarioNames()),
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			c, err := cache()
			if err != nil {
				return err
			}

			return execBench(ctx, o, cfg, c, f)
		},
	}
}

func execBench(ctx context.Context, o *IO, cfg *config.Config, c *keccache.Cache, f benchFlags) error {
	scenarios, err := bench.Select(f.scenarios)
	if err != nil {
		return err
	}

	err = bench.CheckSizes(f.addresses, f.words, f.iterations)
	if err != nil {
		return err
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(o.errOut))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if f.verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	if f.metrics != "" && !cfg.TrackStats {
		o.Warn("stats tracking is off", "counter metrics will be zero; rerun with --stats")
	}

	level.Debug(logger).Log("msg", "generating dataset", "addresses", f.addresses, "words", f.words)

	ds := bench.NewDataset(f.addresses, f.words)

	report, err := bench.Run(ctx, c, ds, bench.Options{
		Iterations: f.iterations,
		Workers:    f.workers,
		Scenarios:  scenarios,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	printReport(o, report)

	reportPath := resolvePath(cfg, f.report)
	if reportPath == "" && f.save {
		reportPath = bench.DefaultReportPath(cfg.ReportDirAbs, report.RunID)
	}

	if reportPath != "" {
		err = bench.WriteReport(reportPath, report)
		if err != nil {
			return err
		}

		level.Info(logger).Log("msg", "report written", "path", reportPath)
		o.Println("report:", reportPath)
	}

	if f.metrics != "" {
		path := resolvePath(cfg, f.metrics)

		err = bench.WriteMetrics(path, c, "bench")
		if err != nil {
			return err
		}

		o.Println("metrics:", path)
	}

	return nil
}

func resolvePath(cfg *config.Config, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(cfg.EffectiveCwd, path)
}

func printReport(o *IO, r bench.Report) {
	o.Printf("run %s (capacity=%d max_key_len=%d workers=%d)\n", r.RunID, r.Capacity, r.MaxKeyLen, r.Workers)
	o.Println()

	perOp := make(map[string]float64, len(r.Results))

	for _, res := range r.Results {
		perOp[res.Scenario] = res.NsPerOp
		o.Printf("  %-8s %8d ops %10.1f ns/op\n", res.Scenario, res.Ops, res.NsPerOp)
	}

	for _, class := range []string{"20", "32"} {
		cold, okCold := perOp["cold-"+class]
		warm, okWarm := perOp["warm-"+class]

		if okCold && okWarm && warm > 0 {
			o.Printf("  speedup (%s-byte): %.2fx\n", class, cold/warm)
		}
	}

	if s := r.Stats; s != (keccache.Stats{}) {
		o.Println()
		o.Printf("  hits=%d misses=%d hit_rate=%.2f%% bypassed=%d\n", s.Hits, s.Misses, 100*s.HitRate(), s.Bypassed())
		o.Printf("  entries=%d entries_20=%d entries_32=%d\n", r.Entries, r.Entries20, r.Entries32)
	}
}
