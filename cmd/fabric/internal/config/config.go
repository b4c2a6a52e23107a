package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// DefaultSurface names the surface when nothing else does.
const DefaultSurface = "fabric"

// Config represents the optional fabric.yaml configuration.
type Config struct {
	Surface string       `yaml:"surface,omitempty"`
	Layout  LayoutConfig `yaml:"layout"`
	Commit  CommitConfig `yaml:"commit"`
	Log     LogConfig    `yaml:"log"`
}

// LayoutConfig contains layout defaults applied to scenes that leave them
// unset.
type LayoutConfig struct {
	Scale float64 `yaml:"scale,omitempty"`
}

// CommitConfig contains publication settings.
type CommitConfig struct {
	MaxAttempts int `yaml:"max_attempts,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	Surface     string
	Scale       float64
	MaxAttempts int
	LogLevel    slog.Level
}

// LoadOptional reads fabric.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "fabric.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read fabric.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fabric.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads fabric.yaml (if present) and resolves defaults. An empty
// dir resolves defaults only.
func Resolve(dir string) (*Resolved, error) {
	var modPath string
	cfg := &Config{}
	if dir != "" {
		var err error
		if modPath, err = modulePath(dir); err != nil {
			return nil, err
		}
		if cfg, err = LoadOptional(dir); err != nil {
			return nil, err
		}
	}

	surface := strings.TrimSpace(cfg.Surface)
	if surface == "" {
		surface = defaultSurface(modPath, dir)
	}

	scale := cfg.Layout.Scale
	if !(scale >= 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("fabric.yaml: invalid layout.scale %g", scale)
	}

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Root:        dir,
		ModulePath:  modPath,
		Surface:     surface,
		Scale:       scale,
		MaxAttempts: cfg.Commit.MaxAttempts,
		LogLevel:    level,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultSurface(modulePath, dir string) string {
	base := ""
	if dir != "" {
		base = filepath.Base(dir)
	}
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return DefaultSurface
	}
	return base
}

func parseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("fabric.yaml: invalid log.level %q", s)
	}
	return level, nil
}
