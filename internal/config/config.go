// Package config loads yahtl configuration from JSONC files, the
// environment and command line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	DataDir   string `json:"data_dir"`
	StateFile string `json:"state_file,omitempty"`
	User      string `json:"user,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`

	// Resolved paths, not serialized.
	EffectiveCwd string `json:"-"`
	DataDirAbs   string `json:"-"`
	StateFileAbs string `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// Log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// FileName is the project config file name.
const FileName = ".yahtl.json"

// EnvDataDir overrides data_dir from config files.
const EnvDataDir = "YAHTL_DATA_DIR"

// Default returns the default configuration. The user defaults to $USER.
func Default(env map[string]string) Config {
	return Config{
		DataDir:  ".yahtl",
		User:     env["USER"],
		LogLevel: LevelWarn,
	}
}

// Slog returns the slog level for LogLevel.
func (c Config) Slog() slog.Level {
	switch c.LogLevel {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// globalPath returns $XDG_CONFIG_HOME/yahtl/config.json, falling back to
// ~/.config/yahtl/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "yahtl", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "yahtl", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride   string // -C/--cwd; os.Getwd() if empty
	ConfigPath        string // -c/--config
	DataDirOverride   string // --data-dir
	StateFileOverride string // --state-file
	UserOverride      string // --user
	Verbose           bool   // -v/--verbose forces debug logging
	Env               map[string]string
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/yahtl/config.json)
//  3. Project config (.yahtl.json in the working directory, if present)
//  4. Explicit config file (--config)
//  5. $YAHTL_DATA_DIR (data_dir only)
//  6. CLI overrides
//
// Paths in the returned Config are resolved against the working directory.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default(in.Env)

	global, globalFile, err := loadOptional(globalPath(in.Env))
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalFile
	cfg = merge(cfg, global)

	project, projectFile, err := loadProject(workDir, in.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectFile
	cfg = merge(cfg, project)

	if dir := in.Env[EnvDataDir]; dir != "" {
		cfg.DataDir = dir
	}

	cfg = merge(cfg, Config{
		DataDir:   in.DataDirOverride,
		StateFile: in.StateFileOverride,
		User:      in.UserOverride,
	})

	if in.Verbose {
		cfg.LogLevel = LevelDebug
	}

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	cfg.DataDirAbs = resolve(workDir, cfg.DataDir)

	if cfg.StateFile != "" {
		cfg.StateFileAbs = resolve(workDir, cfg.StateFile)
	}

	return cfg, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadOptional loads path if it exists. Returns the path when loaded.
func loadOptional(path string) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads the explicit config file, which must exist, or the
// optional project file in workDir.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		return loadOptional(filepath.Join(workDir, FileName))
	}

	path := resolve(workDir, configPath)

	_, statErr := os.Stat(path)
	if statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	cfg, _, err := loadFile(path, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile parses a config file. A missing file is not an error unless
// mustExist is set.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, explicitEmpty, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if explicitEmpty["data_dir"] {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDataDirEmpty)
	}

	if cfg.LogLevel != "" && !validLevel(cfg.LogLevel) {
		return Config{}, false, fmt.Errorf("%w %s: %w: %q", ErrConfigInvalid, path, ErrInvalidLogLevel, cfg.LogLevel)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, ok := raw["data_dir"].(string); ok && val == "" {
		explicitEmpty["data_dir"] = true
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.StateFile != "" {
		base.StateFile = overlay.StateFile
	}

	if overlay.User != "" {
		base.User = overlay.User
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	return base
}

func validLevel(level string) bool {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if !validLevel(cfg.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}
