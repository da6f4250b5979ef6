package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheetlink.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHEETLINK_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Thresholds.HeaderScanRows != 20 {
		t.Errorf("Expected default header scan of 20 rows, got %d", cfg.Thresholds.HeaderScanRows)
	}
	if level, _ := cfg.Level(); level != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", level)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
concurrency: 3
serial_patterns:
  - '\bSN(\d{5})\b'
server:
  addr: ":9090"
  read_timeout: 5s
thresholds:
  header_scan_rows: 40
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Concurrency != 3 || cfg.Server.Addr != ":9090" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Expected 5s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Thresholds.HeaderScanRows != 40 {
		t.Errorf("Expected header scan of 40 rows, got %d", cfg.Thresholds.HeaderScanRows)
	}
	if cfg.Thresholds.ClassifierScanRows != 25 {
		t.Errorf("Expected unset thresholds to keep defaults, got %d", cfg.Thresholds.ClassifierScanRows)
	}
	if cfg.Server.MaxUploadBytes != 50<<20 {
		t.Errorf("Expected default upload limit, got %d", cfg.Server.MaxUploadBytes)
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", level)
	}

	opts := cfg.ParseOptions(slog.Default())
	if opts.Concurrency != 3 || len(opts.SerialPatterns) != 1 || opts.Thresholds.HeaderScanRows != 40 {
		t.Errorf("Unexpected parse options: %+v", opts)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "concurrency: 3\n")
	t.Setenv("SHEETLINK_CONCURRENCY", "8")
	t.Setenv("SHEETLINK_ADDR", ":7000")
	t.Setenv("SHEETLINK_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("SHEETLINK_READ_TIMEOUT", "2m")
	t.Setenv("SHEETLINK_STREAM_THRESHOLD", "not-a-number")
	t.Setenv("SHEETLINK_SERIAL_PATTERNS", `ESN(\d+); ;SN-(\d+)`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Expected env to override the file, got %d", cfg.Concurrency)
	}
	if cfg.Server.Addr != ":7000" || cfg.Server.MaxUploadBytes != 1024 || cfg.Server.ReadTimeout != 2*time.Minute {
		t.Errorf("Unexpected server config: %+v", cfg.Server)
	}
	if cfg.StreamThreshold != Default().StreamThreshold {
		t.Errorf("Expected an unparsable value to keep the default, got %d", cfg.StreamThreshold)
	}
	if len(cfg.SerialPatterns) != 2 || cfg.SerialPatterns[1] != `SN-(\d+)` {
		t.Errorf("Unexpected serial patterns: %q", cfg.SerialPatterns)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.yaml")},
		{"bad yaml", writeConfig(t, "concurrency: [\n")},
		{"bad level", writeConfig(t, "log_level: loud\n")},
		{"negative concurrency", writeConfig(t, "concurrency: -1\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	if err := LoadDotEnv(); err != nil {
		t.Errorf("Expected a missing .env to be ignored, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SHEETLINK_LOG_LEVEL=warn\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Setenv("SHEETLINK_LOG_LEVEL", "")
	os.Unsetenv("SHEETLINK_LOG_LEVEL")
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("SHEETLINK_LOG_LEVEL"); got != "warn" {
		t.Errorf("Expected warn from .env, got %q", got)
	}
}
