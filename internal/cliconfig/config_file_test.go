package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				AdminAddr:         "127.0.0.1:9111",
				DrainFile:         "/run/app/drain",
				StatusFile:        "/run/app/status.json",
				LogLevel:          "debug",
				ShutdownTimeout:   "45s",
				HeartbeatInterval: "2s",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				AdminAddr:         "127.0.0.1:9111",
				DrainFile:         "/run/app/drain",
				StatusFile:        "/run/app/status.json",
				LogLevel:          "debug",
				ShutdownTimeout:   45 * time.Second,
				HeartbeatInterval: 2 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				AdminAddr: "127.0.0.1:9999",
				LogLevel:  "debug",
			},
			changed: map[string]bool{"admin-addr": true},
			initial: Config{
				AdminAddr: "127.0.0.1:9111",
			},
			expected: Config{
				AdminAddr: "127.0.0.1:9111", // unchanged because flag was set
				LogLevel:  "debug",
			},
			wantErr: false,
		},
		{
			name: "empty values leave config untouched",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial: Config{
				AdminAddr:       "127.0.0.1:9111",
				LogLevel:        "warn",
				ShutdownTimeout: 10 * time.Second,
			},
			expected: Config{
				AdminAddr:       "127.0.0.1:9111",
				LogLevel:        "warn",
				ShutdownTimeout: 10 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "invalid duration",
			fileConfig: FileConfig{
				ShutdownTimeout: "not-a-duration",
			},
			changed: map[string]bool{},
			initial: Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := strings.Join([]string{
		`admin_addr = "127.0.0.1:9111"`,
		`drain_file = "/run/app/drain"`,
		`log_level = "debug"`,
		`shutdown_timeout = "1m"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() returned error: %v", err)
	}
	if fc.AdminAddr != "127.0.0.1:9111" {
		t.Errorf("AdminAddr = %q, want %q", fc.AdminAddr, "127.0.0.1:9111")
	}
	if fc.DrainFile != "/run/app/drain" {
		t.Errorf("DrainFile = %q, want %q", fc.DrainFile, "/run/app/drain")
	}
	if fc.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", fc.LogLevel, "debug")
	}
	if fc.ShutdownTimeout != "1m" {
		t.Errorf("ShutdownTimeout = %q, want %q", fc.ShutdownTimeout, "1m")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("LoadFileConfig() on missing file succeeded, want error")
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("admin_addr = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(path); err == nil {
		t.Fatal("LoadFileConfig() on malformed file succeeded, want error")
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if FileExists(path) {
		t.Error("FileExists() = true for missing file")
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
}
