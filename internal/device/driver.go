package device

// LEDState mirrors the Kinect motor's LED color/blink states.
type LEDState int

const (
	LEDOff LEDState = iota
	LEDGreen
	LEDRed
	LEDYellow
	LEDBlinkGreen
	LEDBlinkRedYellow
)

// TiltStatus reports what the motor is currently doing.
type TiltStatus int

const (
	TiltStopped TiltStatus = iota
	TiltAtLimit
	TiltMoving
)

// MinTiltDegrees and MaxTiltDegrees bound every tilt command.
const (
	MinTiltDegrees = -27
	MaxTiltDegrees = 27
)

// MaxKinectWidth and MaxKinectHeight are the sensor's native frame
// dimensions, matching xrtypes.MaxSwapchainWidth/Height.
const (
	MaxKinectWidth  = 640
	MaxKinectHeight = 480
)

// Accelerometer is a single reading in m/s^2 on each axis.
type Accelerometer struct {
	X, Y, Z float64
}

// Config selects which device to open and which subdevices to enable.
type Config struct {
	DeviceIndex  int
	EnableCamera bool
	EnableMotor  bool
}

// DepthCallback receives a borrowed view of the latest depth frame (11-bit
// values in a 16-bit container, W*H samples) and the driver's monotonic
// timestamp. The slice is only valid for the duration of the call — the
// driver may reuse or free the backing buffer immediately after the
// callback returns, so implementations must copy out what they need and
// must never allocate, block, or retain the slice.
type DepthCallback func(depth []uint16, timestamp uint32)

// VideoCallback receives a borrowed view of the latest RGB frame (W*H*3
// bytes, 8-bit R,G,B) under the same borrowing contract as DepthCallback.
type VideoCallback func(rgb []byte, timestamp uint32)

// ErrorCallback reports a best-effort, non-fatal USB error observed while
// streaming. The device transitions back to Initialized; no automatic
// reconnect is attempted.
type ErrorCallback func(err error)

// driver is the narrow interface this package needs from the underlying
// USB depth-camera driver. It is implemented by the real cgo binding on
// darwin (cDriver in device_darwin.go) and by an in-process fake
// (fakeDriver in fake_driver.go) used by every other platform build and by
// unit tests.
//
// driver methods are not expected to be safe for concurrent use by
// multiple goroutines simultaneously except where documented; Device
// serializes access via its own mutexes (see device.go).
type driver interface {
	// Enumerate reports the number of connected devices. Safe to call
	// without a prior Open.
	Enumerate() (int, error)

	// Open acquires driver context and opens the device at cfg.DeviceIndex.
	Open(cfg Config) error

	// Close releases the device and driver context. Idempotent.
	Close() error

	// StartStreams begins depth+video capture and starts delivering frames
	// to the registered callbacks via ProcessEvents.
	StartStreams() error

	// StopStreams halts capture.
	StopStreams() error

	// ProcessEvents services one iteration of the driver's USB event pump.
	// Called in a tight loop by Device's event-loop goroutine. Returns an
	// error if the underlying transport failed.
	ProcessEvents() error

	// SetTilt commands the motor. Degrees must already be clamped to
	// [MinTiltDegrees, MaxTiltDegrees] by the caller.
	SetTilt(degrees int) error
	ReadTilt() (int, error)
	ReadTiltStatus() (TiltStatus, error)
	ReadAccelerometer() (Accelerometer, error)
	SetLED(state LEDState) error

	OnDepth(cb DepthCallback)
	OnVideo(cb VideoCallback)
	OnError(cb ErrorCallback)
}
