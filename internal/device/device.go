// Package device wraps the Kinect's USB camera and motor driver behind a
// small Go API: Initialize/Close, Start/StopStreams, and motor control.
// It owns exactly one hardware device per process and enforces the
// threading contract the underlying C driver requires: the event-loop
// goroutine that pumps USB transfers never holds the motor mutex, and
// every motor command serializes through that dedicated mutex regardless
// of which goroutine issues it.
package device

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kinectxr/runtime/internal/logging"
)

var log = logging.L("device")

// State is the device lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// FrameHandler receives a copy-free, borrowed-for-the-call view of each
// frame. See DepthCallback/VideoCallback for the borrowing contract; Device
// forwards the driver's callback verbatim, it does not buffer frames
// itself — internal/pipeline owns the frame cache.
type FrameHandler struct {
	OnDepth DepthCallback
	OnVideo VideoCallback
	OnError ErrorCallback
}

// Device is the process-wide handle to one physical Kinect.
type Device struct {
	drv driver

	mu    sync.RWMutex
	state State

	// motorMu serializes every motor command (SetTilt/ReadTilt/ReadTiltStatus/
	// ReadAccelerometer/SetLED) independent of which goroutine calls them.
	// It is never taken by the event-loop goroutine, only by callers of the
	// public motor methods, so a slow motor command can never stall frame
	// delivery.
	motorMu sync.Mutex

	handlers FrameHandler

	eventLoopStop chan struct{}
	eventLoopDone chan struct{}
	eventLoopOnce sync.Once

	streamingFlag atomic.Bool
}

// New constructs a Device bound to the platform driver. On darwin this is
// the cgo libfreenect binding (device_darwin.go); elsewhere it is the
// synthetic fakeDriver (device_other.go), so the rest of the runtime can
// be built and tested on any platform.
func New() *Device {
	return &Device{drv: newPlatformDriver()}
}

// newWithDriver builds a Device over an explicit driver, used by tests that
// need to control failure injection on the fake driver directly.
func newWithDriver(d driver) *Device {
	return &Device{drv: d}
}

// Initialize opens the device at index idx and registers the frame/error
// handlers that will receive callbacks once streaming starts. Calling
// Initialize again without an intervening Close returns
// ErrInitializationFailed, whether or not the device is streaming, and
// leaves the device as it was — callers must Close first.
func (d *Device) Initialize(idx int, handlers FrameHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateUninitialized {
		log.Warn("initialize called out of order", slog.String("state", d.state.String()))
		return ErrInitializationFailed
	}

	count, err := d.drv.Enumerate()
	if err != nil {
		return ErrInitializationFailed
	}
	if count == 0 {
		return ErrDeviceNotFound
	}
	if idx < 0 || idx >= count {
		return ErrInvalidParameter
	}

	if err := d.drv.Open(Config{DeviceIndex: idx, EnableCamera: true, EnableMotor: true}); err != nil {
		return ErrInitializationFailed
	}

	d.handlers = handlers
	d.drv.OnDepth(handlers.OnDepth)
	d.drv.OnVideo(handlers.OnVideo)
	d.drv.OnError(handlers.OnError)

	d.state = StateInitialized
	log.Info("device initialized", slog.Int("index", idx))
	return nil
}

// Close stops streaming if active and releases the device. Safe to call
// from StateUninitialized (no-op).
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized {
		return nil
	}
	if d.state == StateStreaming {
		d.stopEventLoopLocked()
		if err := d.drv.StopStreams(); err != nil {
			log.Warn("stop streams during close failed", slog.String("error", err.Error()))
		}
	}
	err := d.drv.Close()
	d.state = StateUninitialized
	log.Info("device closed")
	if err != nil {
		return ErrInitializationFailed
	}
	return nil
}

// StartStreams begins depth+video capture and launches the event-loop
// goroutine that pumps driver callbacks. Requires StateInitialized.
func (d *Device) StartStreams() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateStreaming:
		return ErrAlreadyStreaming
	}

	if err := d.drv.StartStreams(); err != nil {
		return ErrInitializationFailed
	}

	d.eventLoopStop = make(chan struct{})
	d.eventLoopDone = make(chan struct{})
	d.eventLoopOnce = sync.Once{}
	d.streamingFlag.Store(true)
	go d.eventLoop(d.eventLoopStop, d.eventLoopDone)

	d.state = StateStreaming
	log.Info("streams started")
	return nil
}

// StopStreams halts capture and joins the event-loop goroutine. Requires
// StateStreaming.
func (d *Device) StopStreams() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateStreaming {
		return ErrNotStreaming
	}

	d.stopEventLoopLocked()
	if err := d.drv.StopStreams(); err != nil {
		d.state = StateInitialized
		return ErrInitializationFailed
	}

	d.state = StateInitialized
	log.Info("streams stopped")
	return nil
}

// stopEventLoopLocked must be called with d.mu held.
func (d *Device) stopEventLoopLocked() {
	d.streamingFlag.Store(false)
	d.eventLoopOnce.Do(func() {
		close(d.eventLoopStop)
	})
	<-d.eventLoopDone
}

// eventLoop pumps driver events until told to stop. It never acquires
// motorMu — motor commands run independently on whatever goroutine calls
// them so a blocked USB bulk transfer for frames cannot starve tilt/LED
// commands or vice versa.
func (d *Device) eventLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := d.drv.ProcessEvents(); err != nil {
				log.Warn("process events failed", slog.String("error", err.Error()))
				if d.handlers.OnError != nil {
					d.handlers.OnError(err)
				}
				// Fall back to StateInitialized; StopStreams waits on done,
				// which this return closes.
				go d.StopStreams()
				return
			}
		}
	}
}

// State returns the current lifecycle state.
func (d *Device) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// IsStreaming is a lock-free hot-path check for code (e.g. the frame
// pipeline) that only needs to know "are frames currently flowing",
// without contending on d.mu.
func (d *Device) IsStreaming() bool {
	return d.streamingFlag.Load()
}

func (d *Device) requireInitialized() error {
	if d.State() == StateUninitialized {
		return ErrNotInitialized
	}
	return nil
}

// SetTilt clamps degrees to [MinTiltDegrees, MaxTiltDegrees] and commands
// the motor. Safe to call from any goroutine and while streaming.
func (d *Device) SetTilt(degrees int) error {
	if err := d.requireInitialized(); err != nil {
		return err
	}
	if degrees < MinTiltDegrees {
		degrees = MinTiltDegrees
	}
	if degrees > MaxTiltDegrees {
		degrees = MaxTiltDegrees
	}

	d.motorMu.Lock()
	defer d.motorMu.Unlock()
	if err := d.drv.SetTilt(degrees); err != nil {
		return ErrMotorControlFailed
	}
	return nil
}

// ReadTilt returns the last commanded/observed tilt angle in degrees.
func (d *Device) ReadTilt() (int, error) {
	if err := d.requireInitialized(); err != nil {
		return 0, err
	}
	d.motorMu.Lock()
	defer d.motorMu.Unlock()
	v, err := d.drv.ReadTilt()
	if err != nil {
		return 0, ErrMotorControlFailed
	}
	return v, nil
}

// ReadTiltStatus reports whether the motor is moving, stopped, or at a
// mechanical limit.
func (d *Device) ReadTiltStatus() (TiltStatus, error) {
	if err := d.requireInitialized(); err != nil {
		return TiltStopped, err
	}
	d.motorMu.Lock()
	defer d.motorMu.Unlock()
	v, err := d.drv.ReadTiltStatus()
	if err != nil {
		return TiltStopped, ErrMotorControlFailed
	}
	return v, nil
}

// ReadAccelerometer returns the motor's 3-axis accelerometer reading.
func (d *Device) ReadAccelerometer() (Accelerometer, error) {
	if err := d.requireInitialized(); err != nil {
		return Accelerometer{}, err
	}
	d.motorMu.Lock()
	defer d.motorMu.Unlock()
	v, err := d.drv.ReadAccelerometer()
	if err != nil {
		return Accelerometer{}, ErrMotorControlFailed
	}
	return v, nil
}

// SetLED sets the motor's LED state.
func (d *Device) SetLED(state LEDState) error {
	if err := d.requireInitialized(); err != nil {
		return err
	}
	d.motorMu.Lock()
	defer d.motorMu.Unlock()
	if err := d.drv.SetLED(state); err != nil {
		return ErrMotorControlFailed
	}
	return nil
}
