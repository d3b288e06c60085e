package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parbids/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "raw") + `"
output_dir = "` + filepath.Join(dir, "bids") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[converter]
timeout_seconds = 120

[classification]
default_session = "02"

[classification.tasks]
Anticipation = "anticipation"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Converter.TimeoutSeconds != 120 {
		t.Fatalf("timeout = %d", cfg.Converter.TimeoutSeconds)
	}
	if cfg.Classification.DefaultSession != "02" {
		t.Fatalf("session = %q", cfg.Classification.DefaultSession)
	}
	// Markers fold to lower case at load time.
	if got := cfg.Classification.Tasks["anticipation"]; got != "anticipation" {
		t.Fatalf("tasks = %v", cfg.Classification.Tasks)
	}
	// Unset fields keep their defaults.
	if cfg.ConverterBinary() != "parrec2nii" {
		t.Fatalf("binary = %q", cfg.ConverterBinary())
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "same data and output dir",
			content: `
[paths]
data_dir = "` + dir + `"
output_dir = "` + dir + `"
`,
			want: "must differ",
		},
		{
			name: "non-alphanumeric session",
			content: `
[classification]
default_session = "ses 01"
`,
			want: "alphanumeric",
		},
		{
			name: "empty task label",
			content: `
[classification.tasks]
anticipation = " "
`,
			want: "task label",
		},
		{
			name: "bad log level",
			content: `
[logging]
level = "loud"
`,
			want: "logging.level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("exists = true for %q", resolved)
	}
	if cfg.Classification.DefaultSession != "01" {
		t.Fatalf("session = %q", cfg.Classification.DefaultSession)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "raw")
	cfg.OutputDir = filepath.Join(dir, "bids")
	cfg.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, created := range []string{cfg.OutputDir, cfg.LogDir} {
		info, err := os.Stat(created)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", created, err)
		}
	}
	// The data directory is the user's; it is never created implicitly.
	if _, err := os.Stat(cfg.DataDir); !os.IsNotExist(err) {
		t.Fatalf("data dir should not be created, stat err = %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := config.ExpandPath("~/mri/raw")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "mri", "raw") {
		t.Fatalf("expanded = %q", got)
	}
}
