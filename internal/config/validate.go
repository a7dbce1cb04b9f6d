package config

import (
	"fmt"
	"strings"
)

// ValidationResult separates configuration problems that must abort
// startup (Fatals) from ones that are auto-corrected and merely logged
// (Warnings).
type ValidationResult struct {
	Fatals   []error
	Warnings []error
}

// HasFatals reports whether startup should abort.
func (r ValidationResult) HasFatals() bool {
	return len(r.Fatals) > 0
}

// AllErrors returns fatals followed by warnings, for callers that want a
// single combined list (e.g. the diagnostic CLI).
func (r ValidationResult) AllErrors() []error {
	all := make([]error, 0, len(r.Fatals)+len(r.Warnings))
	all = append(all, r.Fatals...)
	all = append(all, r.Warnings...)
	return all
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// ValidateTiered checks the config for invalid values. Values that would
// make the bridge server unreachable or nonsensical are fatal; anything
// else is clamped to a safe value and reported as a warning.
func (c *Config) ValidateTiered() ValidationResult {
	var result ValidationResult

	if c.BridgeHost == "" {
		result.Fatals = append(result.Fatals, fmt.Errorf("bridge_host must not be empty"))
	}

	if c.BridgePort <= 0 || c.BridgePort > 65535 {
		result.Fatals = append(result.Fatals, fmt.Errorf("bridge_port %d is out of range 1-65535", c.BridgePort))
	}

	if c.BridgePath == "" {
		result.Warnings = append(result.Warnings, fmt.Errorf("bridge_path empty, defaulting to /kinect"))
		c.BridgePath = "/kinect"
	} else if !strings.HasPrefix(c.BridgePath, "/") {
		result.Warnings = append(result.Warnings, fmt.Errorf("bridge_path %q missing leading slash, adding one", c.BridgePath))
		c.BridgePath = "/" + c.BridgePath
	}

	if c.DeviceIndex < 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("device_index %d is negative, clamping to 0", c.DeviceIndex))
		c.DeviceIndex = 0
	}

	if c.MotorRateLimitMS < 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("motor_rate_limit_ms %d is negative, clamping to 500", c.MotorRateLimitMS))
		c.MotorRateLimitMS = 500
	}

	if c.StatusIntervalMS < 100 {
		result.Warnings = append(result.Warnings, fmt.Errorf("status_interval_ms %d below minimum 100, clamping", c.StatusIntervalMS))
		c.StatusIntervalMS = 100
	} else if c.StatusIntervalMS > 60000 {
		result.Warnings = append(result.Warnings, fmt.Errorf("status_interval_ms %d exceeds maximum 60000, clamping", c.StatusIntervalMS))
		c.StatusIntervalMS = 60000
	}

	if c.BinaryFrameQueueSize < 1 {
		result.Warnings = append(result.Warnings, fmt.Errorf("binary_frame_queue_size %d below minimum 1, clamping", c.BinaryFrameQueueSize))
		c.BinaryFrameQueueSize = 1
	} else if c.BinaryFrameQueueSize > 600 {
		result.Warnings = append(result.Warnings, fmt.Errorf("binary_frame_queue_size %d exceeds maximum 600, clamping", c.BinaryFrameQueueSize))
		c.BinaryFrameQueueSize = 600
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}

	return result
}
