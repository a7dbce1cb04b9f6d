package config

import (
	"fmt"
	"testing"
)

func TestValidateTieredInvalidPortIsFatal(t *testing.T) {
	cfg := Default()
	cfg.BridgePort = 0
	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("port 0 should be fatal")
	}
}

func TestValidateTieredEmptyHostIsFatal(t *testing.T) {
	cfg := Default()
	cfg.BridgeHost = ""
	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("empty bridge_host should be fatal")
	}
}

func TestValidateTieredMissingSlashIsWarningAndFixed(t *testing.T) {
	cfg := Default()
	cfg.BridgePath = "kinect"
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("missing leading slash should be a warning, not fatal: %v", result.Fatals)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warning for missing leading slash")
	}
	if cfg.BridgePath != "/kinect" {
		t.Fatalf("BridgePath = %q, want /kinect", cfg.BridgePath)
	}
}

func TestValidateTieredStatusIntervalClamping(t *testing.T) {
	cfg := Default()
	cfg.StatusIntervalMS = 1
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("clamped status interval should be warning: %v", result.Fatals)
	}
	if cfg.StatusIntervalMS != 100 {
		t.Fatalf("StatusIntervalMS = %d, want 100", cfg.StatusIntervalMS)
	}
}

func TestValidateTieredQueueSizeClamping(t *testing.T) {
	cfg := Default()
	cfg.BinaryFrameQueueSize = 0
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("clamped queue size should be warning: %v", result.Fatals)
	}
	if cfg.BinaryFrameQueueSize != 1 {
		t.Fatalf("BinaryFrameQueueSize = %d, want 1", cfg.BinaryFrameQueueSize)
	}
}

func TestValidateTieredUnknownLogLevelIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatal("unknown log level should not be fatal")
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warning for unknown log level")
	}
}

func TestValidateTieredInvalidLogFormatIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatal("invalid log format should not be fatal")
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warning for invalid log format")
	}
}

func TestHasFatals(t *testing.T) {
	r := ValidationResult{}
	if r.HasFatals() {
		t.Fatal("HasFatals() on empty result should be false")
	}
	r.Fatals = append(r.Fatals, fmt.Errorf("test error"))
	if !r.HasFatals() {
		t.Fatal("HasFatals() should be true with a fatal error")
	}
}

func TestAllErrorsReturnsBoth(t *testing.T) {
	cfg := Default()
	cfg.BridgeHost = ""           // fatal
	cfg.LogFormat = "xml"         // warning
	result := cfg.ValidateTiered()

	all := result.AllErrors()
	if len(all) < 2 {
		t.Fatalf("AllErrors() returned %d errors, expected at least 2 (fatals + warnings)", len(all))
	}
}

func TestValidConfigHasNoErrors(t *testing.T) {
	cfg := Default()
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("valid config has fatals: %v", result.Fatals)
	}
	if len(result.Warnings) > 0 {
		t.Fatalf("valid config has warnings: %v", result.Warnings)
	}
}
