package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/acme/dashboard/v2\n\ngo 1.24\n")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModulePath != "example.com/acme/dashboard/v2" {
		t.Errorf("unexpected module path %q", cfg.ModulePath)
	}
	if cfg.Surface != "dashboard" {
		t.Errorf("expected surface from module path, got %q", cfg.Surface)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.MaxAttempts != 0 || cfg.Scale != 0 {
		t.Errorf("expected zero overrides, got %+v", cfg)
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n")
	writeFile(t, dir, "fabric.yaml", `
surface: main
layout:
  scale: 2
commit:
  max_attempts: 3
log:
  level: debug
`)

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Surface != "main" || cfg.Scale != 2 || cfg.MaxAttempts != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		gomod  string
		fabric string
	}{
		{"missing go.mod", "", ""},
		{"bad yaml", "module x\n", "surface: [unterminated"},
		{"bad level", "module x\n", "log: {level: loud}"},
		{"negative scale", "module x\n", "layout: {scale: -1}"},
		{"nan scale", "module x\n", "layout: {scale: .nan}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.gomod != "" {
				writeFile(t, dir, "go.mod", tt.gomod)
			}
			if tt.fabric != "" {
				writeFile(t, dir, "fabric.yaml", tt.fabric)
			}
			if _, err := Resolve(dir); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolveWithoutProject(t *testing.T) {
	cfg, err := Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Surface != DefaultSurface {
		t.Errorf("expected default surface, got %q", cfg.Surface)
	}
}
