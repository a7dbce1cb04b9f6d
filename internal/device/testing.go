package device

// NewFake returns a Device backed by an in-process synthetic driver
// instead of the platform binding, regardless of build target. Other
// packages' tests (internal/xrcore, internal/bridge) use this to drive a
// full session lifecycle without real hardware.
func NewFake() *Device {
	return newWithDriver(newFakeDriver())
}
