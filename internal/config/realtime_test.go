package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realtime.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadRealtimeDefaults(t *testing.T) {
	cfg, err := LoadRealtime("")
	if err != nil {
		t.Fatalf("LoadRealtime: %v", err)
	}
	if cfg.PingInterval != 30*time.Second {
		t.Errorf("PingInterval = %s, want 30s", cfg.PingInterval)
	}
	if cfg.PongWait != 60*time.Second {
		t.Errorf("PongWait = %s, want 60s", cfg.PongWait)
	}
	if cfg.SendBuffer != 64 {
		t.Errorf("SendBuffer = %d, want 64", cfg.SendBuffer)
	}
}

func TestLoadRealtimePartialOverride(t *testing.T) {
	path := writeConfigFile(t, "ping_interval: 5s\npong_wait: 12s\n")

	cfg, err := LoadRealtime(path)
	if err != nil {
		t.Fatalf("LoadRealtime: %v", err)
	}
	if cfg.PingInterval != 5*time.Second {
		t.Errorf("PingInterval = %s, want 5s", cfg.PingInterval)
	}
	if cfg.PongWait != 12*time.Second {
		t.Errorf("PongWait = %s, want 12s", cfg.PongWait)
	}
	// Unset fields keep their defaults.
	if cfg.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %s, want the default 10s", cfg.WriteTimeout)
	}
	if cfg.MaxMessageSize != 1<<20 {
		t.Errorf("MaxMessageSize = %d, want the default 1MB", cfg.MaxMessageSize)
	}
}

func TestLoadRealtimeRejectsBadKeepalive(t *testing.T) {
	// A pong wait at or below the ping interval would time every
	// connection out.
	path := writeConfigFile(t, "ping_interval: 30s\npong_wait: 30s\n")

	if _, err := LoadRealtime(path); err == nil {
		t.Fatal("pong_wait <= ping_interval should be rejected")
	}
}

func TestLoadRealtimeMissingFile(t *testing.T) {
	if _, err := LoadRealtime(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("a named but missing file should be an error, not a silent default")
	}
}

func TestLoadRealtimeMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "ping_interval: [not a duration\n")

	if _, err := LoadRealtime(path); err == nil {
		t.Fatal("malformed yaml should be rejected")
	}
}
