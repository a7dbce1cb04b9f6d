package xrcore

import "github.com/kinectxr/runtime/pkg/xrtypes"

// System represents the Kinect as a single HMD-form-factor system.
// Properties are constant.
type System struct {
	formFactor xrtypes.FormFactor
}

// SystemProperties mirrors XrSystemProperties' fields relevant here.
type SystemProperties struct {
	SystemID        xrtypes.Handle
	VendorID        uint32
	SystemName      string
	MaxSwapchainWidth  int
	MaxSwapchainHeight int
	MaxLayerCount      int
	TrackingOrientation bool
	TrackingPosition    bool
}

// GetSystem returns a stable handle for formFactor, lazily creating the
// system's registry entry on first call for that instance. Only
// HeadMountedDisplay is supported.
func (c *Core) GetSystem(instanceHandle xrtypes.Handle, formFactor xrtypes.FormFactor) (xrtypes.Handle, xrtypes.Result) {
	inst, ok := c.instances.get(instanceHandle)
	if !ok {
		return xrtypes.NullHandle, xrtypes.ErrHandleInvalid
	}
	if formFactor != xrtypes.FormFactorHeadMountedDisplay {
		return xrtypes.NullHandle, xrtypes.ErrFormFactorUnsupported
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.systemID != xrtypes.NullHandle {
		return inst.systemID, xrtypes.Success
	}
	sys := &System{formFactor: formFactor}
	h := c.systems.insert(sys)
	inst.systemID = h
	return h, xrtypes.Success
}

// GetSystemProperties returns the constant properties of systemHandle.
func (c *Core) GetSystemProperties(systemHandle xrtypes.Handle) (SystemProperties, xrtypes.Result) {
	if _, ok := c.systems.get(systemHandle); !ok {
		return SystemProperties{}, xrtypes.ErrHandleInvalid
	}
	return SystemProperties{
		SystemID:           systemHandle,
		VendorID:           xrtypes.VendorID,
		SystemName:         "Kinect XR System",
		MaxSwapchainWidth:  xrtypes.MaxSwapchainWidth,
		MaxSwapchainHeight: xrtypes.MaxSwapchainHeight,
		MaxLayerCount:      1,
	}, xrtypes.Success
}

// ViewConfigurationProperties describes the single supported view
// configuration.
type ViewConfigurationProperties struct {
	Type        xrtypes.ViewConfigurationType
	Width       int
	Height      int
	SampleCount int
}

// EnumerateViewConfigurations implements the two-call idiom over the
// single supported view configuration type.
func (c *Core) EnumerateViewConfigurations(systemHandle xrtypes.Handle, capacityInput int) (int, []xrtypes.ViewConfigurationType, xrtypes.Result) {
	if _, ok := c.systems.get(systemHandle); !ok {
		return 0, nil, xrtypes.ErrHandleInvalid
	}
	return twoCall(capacityInput, []xrtypes.ViewConfigurationType{xrtypes.ViewConfigurationTypePrimaryMono})
}

// GetViewConfigurationProperties returns the fixed properties of
// viewConfigType, or ErrViewConfigurationTypeUnsupported for anything
// but PrimaryMono.
func (c *Core) GetViewConfigurationProperties(systemHandle xrtypes.Handle, viewConfigType xrtypes.ViewConfigurationType) (ViewConfigurationProperties, xrtypes.Result) {
	if _, ok := c.systems.get(systemHandle); !ok {
		return ViewConfigurationProperties{}, xrtypes.ErrHandleInvalid
	}
	if viewConfigType != xrtypes.ViewConfigurationTypePrimaryMono {
		return ViewConfigurationProperties{}, xrtypes.ErrViewConfigurationTypeUnsupported
	}
	return ViewConfigurationProperties{
		Type:        xrtypes.ViewConfigurationTypePrimaryMono,
		Width:       xrtypes.MaxSwapchainWidth,
		Height:      xrtypes.MaxSwapchainHeight,
		SampleCount: 1,
	}, xrtypes.Success
}

// EnumerateReferenceSpaceTypes implements the two-call idiom over the
// three fixed reference space types.
func (c *Core) EnumerateReferenceSpaceTypes(sessionHandle xrtypes.Handle, capacityInput int) (int, []xrtypes.ReferenceSpaceType, xrtypes.Result) {
	if _, ok := c.sessions.get(sessionHandle); !ok {
		return 0, nil, xrtypes.ErrHandleInvalid
	}
	types := []xrtypes.ReferenceSpaceType{
		xrtypes.ReferenceSpaceView,
		xrtypes.ReferenceSpaceLocal,
		xrtypes.ReferenceSpaceStage,
	}
	return twoCall(capacityInput, types)
}
