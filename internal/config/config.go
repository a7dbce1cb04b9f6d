// Package config loads the bridge server's runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/kinectxr/runtime/internal/logging"
)

var log = logging.L("config")

// Config holds the bridge server's tunables. The OpenXR runtime library
// itself is configured only by its environment (XR_RUNTIME_JSON) and the
// application's CreateInstance/CreateSession calls — it has no config file.
type Config struct {
	// Bridge network settings.
	BridgeHost string `mapstructure:"bridge_host"`
	BridgePort int    `mapstructure:"bridge_port"`
	BridgePath string `mapstructure:"bridge_path"`

	// Mock enables the synthetic frame source instead of the real device.
	Mock bool `mapstructure:"mock"`

	// DeviceIndex, MotorRateLimitMS, StatusIntervalMS and
	// BinaryFrameQueueSize are loaded and validated but not passed to the
	// bridge: it always opens device 0 and uses its own fixed motor rate
	// limit (500ms), status interval (5s) and binary queue depth (4).
	// cmd/kinect-bridge only logs DeviceIndex.
	DeviceIndex int `mapstructure:"device_index"`

	MotorRateLimitMS int `mapstructure:"motor_rate_limit_ms"`

	StatusIntervalMS int `mapstructure:"status_interval_ms"`

	BinaryFrameQueueSize int `mapstructure:"binary_frame_queue_size"`

	// Logging configuration.
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`

	// ManifestPath is loaded but not read by any package; manifest
	// discovery (internal/manifest.Locate) uses only XR_RUNTIME_JSON and
	// the platform defaults.
	ManifestPath string `mapstructure:"manifest_path"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		BridgeHost:           "127.0.0.1",
		BridgePort:           8765,
		BridgePath:           "/kinect",
		MotorRateLimitMS:     500,
		StatusIntervalMS:     1000,
		BinaryFrameQueueSize: 30,
		LogLevel:             "info",
		LogFormat:            "text",
		LogMaxSizeMB:         50,
		LogMaxBackups:        3,
	}
}

// Load reads configuration from cfgFile (or the platform default search
// path when empty), applying KINECTXR_-prefixed environment overrides on
// top, then runs tiered validation: fatal errors abort startup, warnings
// are logged and clamped to safe values.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("bridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("KINECTXR")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	result := cfg.ValidateTiered()
	for _, w := range result.Warnings {
		log.Warn("config validation", "error", w)
	}
	if result.HasFatals() {
		for _, f := range result.Fatals {
			log.Error("config validation fatal", "error", f)
		}
		return nil, fmt.Errorf("config has fatal validation errors: %v", result.Fatals[0])
	}

	return cfg, nil
}

// configDir returns the platform-specific directory for the bridge's
// optional config file, mirroring where the runtime manifest itself lives.
func configDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(os.Getenv("HOME"), ".config", "kinectxr")
	default:
		return "/etc/kinectxr"
	}
}
