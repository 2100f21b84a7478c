// Package config resolves keccache tuning from defaults, JSONC config files
// and command-line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

// Config holds the resolved cache tuning and CLI settings.
type Config struct {
	Capacity   uint64
	MaxKeyLen  int
	TrackStats bool
	ReportDir  string

	// Resolved paths (computed)
	EffectiveCwd string // Absolute working directory (from -C flag or os.Getwd)
	ReportDirAbs string // Absolute path to the bench report directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// fileConfig is the on-disk shape. Pointers distinguish "absent" from an
// explicit zero so a later layer can switch track_stats back off.
type fileConfig struct {
	Capacity   *uint64 `json:"capacity"`
	MaxKeyLen  *int    `json:"max_key_len"`
	TrackStats *bool   `json:"track_stats"`
	ReportDir  *string `json:"report_dir"`
}

// Default returns the default configuration.
func Default() Config {
	opts := keccache.DefaultOptions()

	return Config{
		Capacity:  opts.Capacity,
		MaxKeyLen: opts.MaxKeyLen,
		ReportDir: ".keccache",
	}
}

// FileName is the default project config file name.
const FileName = ".keccache.json"

// Options converts the tuning part of c into cache options.
func (c Config) Options() keccache.Options {
	return keccache.Options{
		Capacity:   c.Capacity,
		MaxKeyLen:  c.MaxKeyLen,
		TrackStats: c.TrackStats,
	}
}

// globalPath returns $XDG_CONFIG_HOME/keccache/config.json if set, otherwise
// ~/.config/keccache/config.json, or "" if neither can be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "keccache", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "keccache", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load. Zero-valued overrides are ignored.
type LoadInput struct {
	WorkDirOverride    string // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath         string // -c/--config flag value
	CapacityOverride   uint64 // --capacity
	MaxKeyLenOverride  int    // --max-key-len
	TrackStatsOverride *bool  // --stats, nil when the flag was not given
	Env                map[string]string
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/keccache/config.json)
// 3. Project config file at default location (.keccache.json, if exists)
// 4. Explicit config file via ConfigPath (replaces 3)
// 5. CLI overrides.
//
// The tuning values are validated as cache options; such errors wrap
// [keccache.ErrInvalidOptions].
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		global, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, global)
			cfg.Sources.Global = path
		}
	}

	projectPath, mustExist := filepath.Join(workDir, FileName), false

	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		_, statErr := os.Stat(projectPath)
		if statErr != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	project, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, project)
		cfg.Sources.Project = projectPath
	}

	if input.CapacityOverride != 0 {
		cfg.Capacity = input.CapacityOverride
	}

	if input.MaxKeyLenOverride != 0 {
		cfg.MaxKeyLen = input.MaxKeyLenOverride
	}

	if input.TrackStatsOverride != nil {
		cfg.TrackStats = *input.TrackStatsOverride
	}

	err = cfg.Options().Validate()
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.ReportDir) {
		cfg.ReportDirAbs = cfg.ReportDir
	} else {
		cfg.ReportDirAbs = filepath.Join(workDir, cfg.ReportDir)
	}

	return cfg, nil
}

// loadFile reads one config file. If mustExist is false, a missing or
// unreadable file is skipped.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return fileConfig{}, false, nil
	}

	fc, parseErr := parse(data)
	if parseErr != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig

	unmarshalErr := json.Unmarshal(standardized, &fc)
	if unmarshalErr != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	if fc.ReportDir != nil && *fc.ReportDir == "" {
		return fileConfig{}, ErrReportDirEmpty
	}

	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.Capacity != nil {
		base.Capacity = *overlay.Capacity
	}

	if overlay.MaxKeyLen != nil {
		base.MaxKeyLen = *overlay.MaxKeyLen
	}

	if overlay.TrackStats != nil {
		base.TrackStats = *overlay.TrackStats
	}

	if overlay.ReportDir != nil {
		base.ReportDir = *overlay.ReportDir
	}

	return base
}
