package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OrdersFile != "orders.txt" {
		t.Errorf("orders file: got %q, want %q", cfg.OrdersFile, "orders.txt")
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("session ttl: got %v, want 12h", cfg.SessionTTL)
	}
	if cfg.FirstOrderID != 1000 {
		t.Errorf("first order id: got %d, want 1000", cfg.FirstOrderID)
	}
	if cfg.HashPasswords {
		t.Error("hash passwords should default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RESTO_DATA_DIR", "/var/lib/resto")
	t.Setenv("RESTO_HASH_PASSWORDS", "true")
	t.Setenv("RESTO_SESSION_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.HashPasswords {
		t.Error("hash passwords: got false, want true")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("session ttl: got %v, want 30m", cfg.SessionTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level: got %q", cfg.LogLevel)
	}
	if got := cfg.Path(cfg.UsersFile); got != filepath.Join("/var/lib/resto", "users.txt") {
		t.Errorf("users path: got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty data dir", Config{JWTSecret: "s", SessionTTL: time.Hour}},
		{"empty secret", Config{DataDir: ".", SessionTTL: time.Hour}},
		{"zero ttl", Config{DataDir: ".", JWTSecret: "s"}},
		{"negative first id", Config{DataDir: ".", JWTSecret: "s", SessionTTL: time.Hour, FirstOrderID: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestPathKeepsAbsolute(t *testing.T) {
	cfg := Config{DataDir: "data"}
	abs := filepath.Join(string(filepath.Separator), "tmp", "orders.txt")
	if got := cfg.Path(abs); got != abs {
		t.Errorf("got %q, want %q", got, abs)
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("restore wd: %v", err)
		}
	})
}
