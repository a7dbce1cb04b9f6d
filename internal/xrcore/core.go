// Package xrcore is the process-wide runtime core: the
// registry of instances, systems, sessions, spaces, and swapchains, and
// the policy enforcer for handle validity, session state transitions,
// and the swapchain/frame-loop contracts. cmd/kinect-openxr-runtime
// marshals the C-ABI entry points onto these methods; internal/xrabi uses
// InstanceValid for name dispatch, and cmd/xr-diag calls the core directly.
package xrcore

import (
	"github.com/kinectxr/runtime/internal/device"
	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/internal/logging"
)

var log = logging.L("xrcore")

// Core owns every live entity in the process. Exactly one Core exists
// per loaded runtime shared object; cmd/kinect-openxr-runtime constructs
// it once at load time.
type Core struct {
	instances  *registry[*Instance]
	systems    *registry[*System]
	sessions   *registry[*Session]
	spaces     *registry[*Space]
	swapchains *registry[*Swapchain]

	graphics *graphics.Helper

	// newDevice is overridden in tests to inject a fake device rather
	// than touching real hardware.
	newDevice func() *device.Device
}

// New constructs an empty Core against the real platform device and
// graphics backends.
func New() *Core {
	return &Core{
		instances:  newRegistry[*Instance](),
		systems:    newRegistry[*System](),
		sessions:   newRegistry[*Session](),
		spaces:     newRegistry[*Space](),
		swapchains: newRegistry[*Swapchain](),
		graphics:   graphics.New(),
		newDevice:  device.New,
	}
}
