package device

import (
	"sync"
)

// fakeDriver is an in-process stand-in for the libfreenect-style C driver.
// It backs every non-darwin build (device_other.go) and the unit tests in
// this package. It generates deterministic synthetic frames rather than
// reading from USB.
type fakeDriver struct {
	mu sync.Mutex

	deviceCount int
	opened      bool
	streaming   bool

	tiltDegrees int
	tiltStatus  TiltStatus
	led         LEDState
	accel       Accelerometer

	onDepth DepthCallback
	onVideo VideoCallback
	onError ErrorCallback

	// failOpen/failStart let tests simulate hardware failure paths.
	failOpen  bool
	failStart bool

	frameSeq uint32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		deviceCount: 1,
		accel:       Accelerometer{X: 0, Y: 0, Z: 9.8},
	}
}

func (f *fakeDriver) Enumerate() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deviceCount, nil
}

func (f *fakeDriver) Open(cfg Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOpen {
		return ErrInitializationFailed
	}
	if cfg.DeviceIndex < 0 || cfg.DeviceIndex >= f.deviceCount {
		return ErrDeviceNotFound
	}
	f.opened = true
	return nil
}

func (f *fakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = false
	f.streaming = false
	return nil
}

func (f *fakeDriver) StartStreams() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStart {
		return ErrInitializationFailed
	}
	f.streaming = true
	return nil
}

func (f *fakeDriver) StopStreams() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streaming = false
	return nil
}

// ProcessEvents emits one synthetic depth and video frame per call when
// streaming, mimicking a single pass through libfreenect's event pump.
func (f *fakeDriver) ProcessEvents() error {
	f.mu.Lock()
	if !f.streaming {
		f.mu.Unlock()
		return nil
	}
	f.frameSeq++
	seq := f.frameSeq
	depthCB := f.onDepth
	videoCB := f.onVideo
	f.mu.Unlock()

	const w, h = 640, 480

	if depthCB != nil {
		depth := make([]uint16, w*h)
		for i := range depth {
			depth[i] = uint16((i + int(seq)) % 2048)
		}
		depthCB(depth, seq)
	}
	if videoCB != nil {
		rgb := make([]byte, w*h*3)
		for i := 0; i < len(rgb); i += 3 {
			rgb[i] = byte(seq)
			rgb[i+1] = byte(seq * 2)
			rgb[i+2] = byte(seq * 3)
		}
		videoCB(rgb, seq)
	}
	return nil
}

func (f *fakeDriver) SetTilt(degrees int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tiltDegrees = degrees
	f.tiltStatus = TiltStopped
	return nil
}

func (f *fakeDriver) ReadTilt() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tiltDegrees, nil
}

func (f *fakeDriver) ReadTiltStatus() (TiltStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tiltStatus, nil
}

func (f *fakeDriver) ReadAccelerometer() (Accelerometer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accel, nil
}

func (f *fakeDriver) SetLED(state LEDState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.led = state
	return nil
}

func (f *fakeDriver) OnDepth(cb DepthCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onDepth = cb
}

func (f *fakeDriver) OnVideo(cb VideoCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onVideo = cb
}

func (f *fakeDriver) OnError(cb ErrorCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onError = cb
}
