package device

import "errors"

// Device-layer error taxonomy. These are returned as plain Go
// errors from this package; internal/xrcore translates them into the
// OpenXR-facing xrtypes.Result taxonomy at the session boundary.
var (
	ErrDeviceNotFound      = errors.New("device: no Kinect found")
	ErrInitializationFailed = errors.New("device: initialization failed")
	ErrNotInitialized      = errors.New("device: not initialized")
	ErrAlreadyStreaming    = errors.New("device: already streaming")
	ErrNotStreaming        = errors.New("device: not streaming")
	ErrMotorControlFailed  = errors.New("device: motor control failed")
	ErrInvalidParameter    = errors.New("device: invalid parameter")
)
