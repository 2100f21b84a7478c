package bench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/calvinalkan/keccache/internal/metrics"
	"github.com/calvinalkan/keccache/pkg/keccache"
)

const (
	dirPerms  = 0o750
	filePerms = 0o644
)

// WriteReport writes r as indented JSON to path, replacing any existing file
// atomically. Parent directories are created.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return writeFileAtomic(path, append(data, '\n'))
}

// ReadReport loads a report written by [WriteReport].
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}

	var r Report

	err = json.Unmarshal(data, &r)
	if err != nil {
		return Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return r, nil
}

// WriteMetrics writes c's current metrics to path in the Prometheus text
// exposition format, suitable for the node_exporter textfile collector.
func WriteMetrics(path string, c *keccache.Cache, cacheLabel string) error {
	reg := prometheus.NewRegistry()

	_, err := metrics.Register(reg, c, cacheLabel)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}

	err = prometheus.WriteToTextfile(path, reg)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}

func writeFileAtomic(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// atomic.WriteFile doesn't set permissions for new files
	err = os.Chmod(path, filePerms)
	if err != nil {
		return fmt.Errorf("set report permissions: %w", err)
	}

	return nil
}

// DefaultReportPath returns dir/bench-<runID>.json.
func DefaultReportPath(dir, runID string) string {
	return filepath.Join(dir, "bench-"+runID+".json")
}
