package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RealtimeConfig tunes the websocket layer: keepalive cadence, write
// deadlines, and the per-message read limit.
type RealtimeConfig struct {
	PingInterval   time.Duration `yaml:"ping_interval"`
	PongWait       time.Duration `yaml:"pong_wait"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxMessageSize int64         `yaml:"max_message_size"`
	// SendBuffer is the per-connection outbound queue; a subscriber that
	// falls this far behind is disconnected rather than queued unboundedly.
	SendBuffer int `yaml:"send_buffer"`
}

// DefaultRealtime returns the built-in websocket tuning.
func DefaultRealtime() *RealtimeConfig {
	return &RealtimeConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 1 << 20, // 1MB - whole-document deltas
		SendBuffer:     64,
	}
}

// LoadRealtime reads websocket tuning from a YAML file, falling back to
// defaults for any unset field. An empty path returns the defaults.
func LoadRealtime(path string) (*RealtimeConfig, error) {
	cfg := DefaultRealtime()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read realtime config: %w", err)
	}

	var file RealtimeConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse realtime config: %w", err)
	}

	if file.PingInterval > 0 {
		cfg.PingInterval = file.PingInterval
	}
	if file.PongWait > 0 {
		cfg.PongWait = file.PongWait
	}
	if file.WriteTimeout > 0 {
		cfg.WriteTimeout = file.WriteTimeout
	}
	if file.MaxMessageSize > 0 {
		cfg.MaxMessageSize = file.MaxMessageSize
	}
	if file.SendBuffer > 0 {
		cfg.SendBuffer = file.SendBuffer
	}

	if cfg.PongWait <= cfg.PingInterval {
		return nil, fmt.Errorf("realtime config: pong_wait (%s) must exceed ping_interval (%s)", cfg.PongWait, cfg.PingInterval)
	}

	return cfg, nil
}
