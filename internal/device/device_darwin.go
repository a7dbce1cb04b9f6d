//go:build darwin

package device

// #cgo pkg-config: libfreenect
// #include "libfreenect.h"
// #include <stdlib.h>
//
// void xr_depth_cb_cgo(freenect_device *dev, void *depth, uint32_t timestamp);
// void xr_video_cb_cgo(freenect_device *dev, void *video, uint32_t timestamp);
//
// static void xr_register_callbacks(freenect_device *dev) {
//   freenect_set_depth_callback(dev, xr_depth_cb_cgo);
//   freenect_set_video_callback(dev, xr_video_cb_cgo);
// }
import "C"

import (
	"sync"
	"unsafe"
)

// cDriver wraps libfreenect via cgo. The freenect context pumps depth and
// video frames from a background USB thread into the C callbacks below,
// which look up the owning cDriver by the freenect_device user pointer and
// forward into the registered Go callback with a borrowed slice over the C
// buffer — no copy, no retained pointer past the call per the DepthCallback/
// VideoCallback contract.
type cDriver struct {
	mu  sync.Mutex
	ctx *C.freenect_context
	dev *C.freenect_device

	onDepth DepthCallback
	onVideo VideoCallback
	onError ErrorCallback
}

func newPlatformDriver() driver {
	return &cDriver{}
}

// registry maps the freenect_device user pointer (set via freenect_set_user)
// back to its owning cDriver so the C trampolines can dispatch without
// passing Go pointers across the cgo boundary.
var (
	registryMu sync.Mutex
	registry   = map[uintptr]*cDriver{}
)

func (c *cDriver) Enumerate() (int, error) {
	var ctx *C.freenect_context
	if C.freenect_init(&ctx, nil) < 0 {
		return 0, ErrInitializationFailed
	}
	defer C.freenect_shutdown(ctx)
	n := C.freenect_num_devices(ctx)
	return int(n), nil
}

func (c *cDriver) Open(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if C.freenect_init(&c.ctx, nil) < 0 {
		return ErrInitializationFailed
	}

	var flags C.freenect_device_flags
	if cfg.EnableMotor {
		flags |= C.FREENECT_DEVICE_MOTOR
	}
	if cfg.EnableCamera {
		flags |= C.FREENECT_DEVICE_CAMERA
	}
	C.freenect_select_subdevices(c.ctx, flags)

	if C.freenect_num_devices(c.ctx) < 1 {
		C.freenect_shutdown(c.ctx)
		c.ctx = nil
		return ErrDeviceNotFound
	}

	if C.freenect_open_device(c.ctx, &c.dev, C.int(cfg.DeviceIndex)) < 0 {
		C.freenect_shutdown(c.ctx)
		c.ctx = nil
		return ErrDeviceNotFound
	}

	key := uintptr(unsafe.Pointer(c.dev))
	registryMu.Lock()
	registry[key] = c
	registryMu.Unlock()
	C.freenect_set_user(c.dev, unsafe.Pointer(c.dev))

	C.freenect_set_video_mode(c.dev, C.freenect_find_video_mode(C.FREENECT_RESOLUTION_MEDIUM, C.FREENECT_VIDEO_RGB))
	C.freenect_set_depth_mode(c.dev, C.freenect_find_depth_mode(C.FREENECT_RESOLUTION_MEDIUM, C.FREENECT_DEPTH_11BIT))
	C.xr_register_callbacks(c.dev)

	return nil
}

func (c *cDriver) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dev != nil {
		key := uintptr(unsafe.Pointer(c.dev))
		registryMu.Lock()
		delete(registry, key)
		registryMu.Unlock()
		C.freenect_close_device(c.dev)
		c.dev = nil
	}
	if c.ctx != nil {
		C.freenect_shutdown(c.ctx)
		c.ctx = nil
	}
	return nil
}

func (c *cDriver) StartStreams() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if C.freenect_start_depth(c.dev) < 0 {
		return ErrInitializationFailed
	}
	if C.freenect_start_video(c.dev) < 0 {
		C.freenect_stop_depth(c.dev)
		return ErrInitializationFailed
	}
	return nil
}

func (c *cDriver) StopStreams() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	C.freenect_stop_depth(c.dev)
	C.freenect_stop_video(c.dev)
	return nil
}

func (c *cDriver) ProcessEvents() error {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil {
		return ErrNotInitialized
	}
	if C.freenect_process_events(ctx) < 0 {
		return ErrInitializationFailed
	}
	return nil
}

func (c *cDriver) SetTilt(degrees int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if C.freenect_set_tilt_degs(c.dev, C.double(degrees)) < 0 {
		return ErrMotorControlFailed
	}
	return nil
}

func (c *cDriver) ReadTilt() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var state *C.freenect_raw_tilt_state
	if C.freenect_update_tilt_state(c.dev) < 0 {
		return 0, ErrMotorControlFailed
	}
	state = C.freenect_get_tilt_state(c.dev)
	if state == nil {
		return 0, ErrMotorControlFailed
	}
	return int(C.freenect_get_tilt_degs(state)), nil
}

func (c *cDriver) ReadTiltStatus() (TiltStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := C.freenect_get_tilt_state(c.dev)
	if state == nil {
		return TiltStopped, ErrMotorControlFailed
	}
	switch C.freenect_get_tilt_status(state) {
	case C.TILT_STATUS_MOVING:
		return TiltMoving, nil
	case C.TILT_STATUS_LIMIT:
		return TiltAtLimit, nil
	default:
		return TiltStopped, nil
	}
}

func (c *cDriver) ReadAccelerometer() (Accelerometer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := C.freenect_get_tilt_state(c.dev)
	if state == nil {
		return Accelerometer{}, ErrMotorControlFailed
	}
	var x, y, z C.double
	C.freenect_get_mks_accel(state, &x, &y, &z)
	return Accelerometer{X: float64(x), Y: float64(y), Z: float64(z)}, nil
}

func (c *cDriver) SetLED(state LEDState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	led := ledToC(state)
	if C.freenect_set_led(c.dev, led) < 0 {
		return ErrMotorControlFailed
	}
	return nil
}

func ledToC(s LEDState) C.freenect_led_options {
	switch s {
	case LEDGreen:
		return C.LED_GREEN
	case LEDRed:
		return C.LED_RED
	case LEDYellow:
		return C.LED_YELLOW
	case LEDBlinkGreen:
		return C.LED_BLINK_GREEN
	case LEDBlinkRedYellow:
		return C.LED_BLINK_RED_YELLOW
	default:
		return C.LED_OFF
	}
}

func (c *cDriver) OnDepth(cb DepthCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDepth = cb
}

func (c *cDriver) OnVideo(cb VideoCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onVideo = cb
}

func (c *cDriver) OnError(cb ErrorCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = cb
}

func lookupDriver(dev unsafe.Pointer) *cDriver {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[uintptr(dev)]
}

//export xr_depth_cb_cgo
func xr_depth_cb_cgo(dev *C.freenect_device, depth unsafe.Pointer, timestamp C.uint32_t) {
	c := lookupDriver(unsafe.Pointer(dev))
	if c == nil {
		return
	}
	c.mu.Lock()
	cb := c.onDepth
	c.mu.Unlock()
	if cb == nil {
		return
	}
	const samples = MaxKinectWidth * MaxKinectHeight
	slice := unsafe.Slice((*uint16)(depth), samples)
	cb(slice, uint32(timestamp))
}

//export xr_video_cb_cgo
func xr_video_cb_cgo(dev *C.freenect_device, video unsafe.Pointer, timestamp C.uint32_t) {
	c := lookupDriver(unsafe.Pointer(dev))
	if c == nil {
		return
	}
	c.mu.Lock()
	cb := c.onVideo
	c.mu.Unlock()
	if cb == nil {
		return
	}
	const bytes = MaxKinectWidth * MaxKinectHeight * 3
	slice := unsafe.Slice((*byte)(video), bytes)
	cb(slice, uint32(timestamp))
}
