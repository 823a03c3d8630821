package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if !cfg.Render.EnableCSSSelector {
		t.Error("Selectors are expected to be enabled by default")
	}
	if cfg.Render.WatchDelay != 200*time.Millisecond {
		t.Errorf("Default watch delay = %v", cfg.Render.WatchDelay)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Default console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `version: 1
render:
  enable_css_selector: false
  enable_remove_css_scope: true
  entry_name: card
  view_attributes: 'style="height:100px" class="ssr"'
  output_name_template: "{{ .Name }}-{{ .Entry }}"
  watch_delay: 1s
logging:
  console:
    level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	r := cfg.Render
	if r.EnableCSSSelector || !r.RemoveCSSScope || r.EntryName != "card" {
		t.Errorf("Render = %+v", r)
	}
	if r.ViewAttributes != `style="height:100px" class="ssr"` {
		t.Errorf("ViewAttributes = %q", r.ViewAttributes)
	}
	if r.OutputNameTemplate != "{{ .Name }}-{{ .Entry }}" {
		t.Errorf("OutputNameTemplate = %q, template must not be expanded", r.OutputNameTemplate)
	}
	if r.WatchDelay != time.Second {
		t.Errorf("WatchDelay = %v", r.WatchDelay)
	}
	// not in the file, comes from template
	if !r.DefaultDisplayLinear {
		t.Error("DefaultDisplayLinear lost default value")
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid yaml", "version: [1\n", "decode"},
		{"unknown field", "version: 1\nrender:\n  bogus: true\n", "bogus"},
		{"bad version", "version: 2\n", "Version"},
		{"markup in view attributes", "version: 1\nrender:\n  view_attributes: 'a=\"b\"><script>'\n", "ViewAttributes"},
		{"unbalanced quotes", "version: 1\nrender:\n  view_attributes: 'a=\"b'\n", "ViewAttributes"},
		{"markup in entry", "version: 1\nrender:\n  entry_name: '<x>'\n", "EntryName"},
		{"negative delay", "version: 1\nrender:\n  watch_delay: -1s\n", "WatchDelay"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: loud\n", "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			_, err := LoadConfiguration(configPath)
			if err == nil {
				t.Fatal("LoadConfiguration() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfiguration() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "enable_css_selector:") {
		t.Error("Prepare() did not return configuration template")
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// dumped configuration must load back
	configPath := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	loaded, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() of dumped config error = %v", err)
	}
	if loaded.Render != cfg.Render {
		t.Errorf("Render = %+v, want %+v", loaded.Render, cfg.Render)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"page", "page"},
		{"../secret", "secret"},
		{"  .hidden", "hidden"},
		{"a/b", "ab"},
		{"", "_bad_file_name_"},
		{"...", "_bad_file_name_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
