//go:build !darwin

package device

// newPlatformDriver returns the synthetic driver on every platform without
// a native libfreenect cgo binding (device_darwin.go covers darwin). It
// produces deterministic generated frames instead of reading USB, which is
// enough to exercise the rest of the runtime (pipeline, xrcore, bridge)
// without real hardware.
func newPlatformDriver() driver {
	return newFakeDriver()
}
