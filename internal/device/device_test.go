package device

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestDevice() (*Device, *fakeDriver) {
	fd := newFakeDriver()
	return newWithDriver(fd), fd
}

func TestInitializeSucceeds(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.Initialize(0, FrameHandler{}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if d.State() != StateInitialized {
		t.Fatalf("expected StateInitialized, got %v", d.State())
	}
}

func TestInitializeNoDeviceFound(t *testing.T) {
	d, fd := newTestDevice()
	fd.deviceCount = 0
	if err := d.Initialize(0, FrameHandler{}); !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestInitializeInvalidIndex(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.Initialize(5, FrameHandler{}); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestDoubleInitializeFails(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.Initialize(0, FrameHandler{}); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := d.Initialize(0, FrameHandler{}); !errors.Is(err, ErrInitializationFailed) {
		t.Fatalf("expected ErrInitializationFailed on double init, got %v", err)
	}
}

func TestStartStreamsWithoutInitializeFails(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.StartStreams(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestStopStreamsWithoutInitializeFails(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.StopStreams(); !errors.Is(err, ErrNotStreaming) {
		t.Fatalf("expected ErrNotStreaming, got %v", err)
	}
}

func TestStartStreamsTwiceFails(t *testing.T) {
	d, _ := newTestDevice()
	mustInit(t, d)
	if err := d.StartStreams(); err != nil {
		t.Fatalf("StartStreams failed: %v", err)
	}
	defer d.StopStreams()

	if err := d.StartStreams(); !errors.Is(err, ErrAlreadyStreaming) {
		t.Fatalf("expected ErrAlreadyStreaming, got %v", err)
	}
}

func TestStartStopStreamsLifecycle(t *testing.T) {
	d, _ := newTestDevice()
	mustInit(t, d)

	if err := d.StartStreams(); err != nil {
		t.Fatalf("StartStreams failed: %v", err)
	}
	if d.State() != StateStreaming {
		t.Fatalf("expected StateStreaming, got %v", d.State())
	}
	if !d.IsStreaming() {
		t.Fatal("expected IsStreaming true")
	}

	if err := d.StopStreams(); err != nil {
		t.Fatalf("StopStreams failed: %v", err)
	}
	if d.State() != StateInitialized {
		t.Fatalf("expected StateInitialized after stop, got %v", d.State())
	}
	if d.IsStreaming() {
		t.Fatal("expected IsStreaming false after stop")
	}
}

func TestCloseWhileStreamingStopsCleanly(t *testing.T) {
	d, _ := newTestDevice()
	mustInit(t, d)
	if err := d.StartStreams(); err != nil {
		t.Fatalf("StartStreams failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- d.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return — event loop goroutine leaked")
	}

	if d.State() != StateUninitialized {
		t.Fatalf("expected StateUninitialized after close, got %v", d.State())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.Close(); err != nil {
		t.Fatalf("Close on uninitialized device should be a no-op, got %v", err)
	}
	mustInit(t, d)
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestFrameCallbacksDeliverDuringStreaming(t *testing.T) {
	d, _ := newTestDevice()

	var mu sync.Mutex
	var depthFrames, videoFrames int
	handlers := FrameHandler{
		OnDepth: func(depth []uint16, ts uint32) {
			mu.Lock()
			depthFrames++
			mu.Unlock()
			if len(depth) != MaxKinectWidth*MaxKinectHeight {
				t.Errorf("unexpected depth frame length %d", len(depth))
			}
		},
		OnVideo: func(rgb []byte, ts uint32) {
			mu.Lock()
			videoFrames++
			mu.Unlock()
			if len(rgb) != MaxKinectWidth*MaxKinectHeight*3 {
				t.Errorf("unexpected video frame length %d", len(rgb))
			}
		},
	}

	if err := d.Initialize(0, handlers); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := d.StartStreams(); err != nil {
		t.Fatalf("StartStreams failed: %v", err)
	}
	defer d.StopStreams()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		df, vf := depthFrames, videoFrames
		mu.Unlock()
		if df > 0 && vf > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("did not observe both depth and video frames before deadline")
}

func TestSetTiltClampsToLimits(t *testing.T) {
	d, fd := newTestDevice()
	mustInit(t, d)

	if err := d.SetTilt(90); err != nil {
		t.Fatalf("SetTilt failed: %v", err)
	}
	if fd.tiltDegrees != MaxTiltDegrees {
		t.Fatalf("expected clamp to %d, got %d", MaxTiltDegrees, fd.tiltDegrees)
	}

	if err := d.SetTilt(-90); err != nil {
		t.Fatalf("SetTilt failed: %v", err)
	}
	if fd.tiltDegrees != MinTiltDegrees {
		t.Fatalf("expected clamp to %d, got %d", MinTiltDegrees, fd.tiltDegrees)
	}
}

func TestMotorCommandsRequireInitialized(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.SetTilt(10); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := d.ReadTilt(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := d.ReadAccelerometer(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := d.SetLED(LEDGreen); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestMotorCommandsWorkWhileStreaming(t *testing.T) {
	d, _ := newTestDevice()
	mustInit(t, d)
	if err := d.StartStreams(); err != nil {
		t.Fatalf("StartStreams failed: %v", err)
	}
	defer d.StopStreams()

	if err := d.SetTilt(10); err != nil {
		t.Fatalf("SetTilt while streaming failed: %v", err)
	}
	if err := d.SetLED(LEDRed); err != nil {
		t.Fatalf("SetLED while streaming failed: %v", err)
	}
	if _, err := d.ReadAccelerometer(); err != nil {
		t.Fatalf("ReadAccelerometer while streaming failed: %v", err)
	}
}

func TestOpenFailurePropagatesAsInitializationFailed(t *testing.T) {
	d, fd := newTestDevice()
	fd.failOpen = true
	if err := d.Initialize(0, FrameHandler{}); !errors.Is(err, ErrInitializationFailed) {
		t.Fatalf("expected ErrInitializationFailed, got %v", err)
	}
	if d.State() != StateUninitialized {
		t.Fatalf("failed Initialize must leave state uninitialized, got %v", d.State())
	}
}

func mustInit(t *testing.T, d *Device) {
	t.Helper()
	if err := d.Initialize(0, FrameHandler{}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
}
