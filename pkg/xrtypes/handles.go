package xrtypes

// Handle is an opaque, process-unique identifier for a runtime-owned
// entity. It is never a pointer and is never reused within the process
// lifetime — see internal/xrcore's per-kind counters.
type Handle uint64

// NullHandle denotes "no handle" / an uninitialized field.
const NullHandle Handle = 0

// FormFactor mirrors XrFormFactor. The Kinect system only supports HMD.
type FormFactor int32

const (
	FormFactorHeadMountedDisplay FormFactor = 1
	FormFactorHandheldDisplay    FormFactor = 2
)

// ViewConfigurationType mirrors XrViewConfigurationType. Only primary mono
// is supported.
type ViewConfigurationType int32

const (
	ViewConfigurationTypePrimaryMono ViewConfigurationType = 1
)

// SwapchainFormat is the runtime's own pixel-format enum for swapchains,
// distinct from the platform graphics API's native format constant.
type SwapchainFormat int32

const (
	SwapchainFormatColor SwapchainFormat = 1 // platform-native BGRA8-unorm
	SwapchainFormatDepth SwapchainFormat = 2 // 16-bit unsigned red
)

// SwapchainUsageFlags mirrors the XrSwapchainUsageFlagBits bits this
// runtime inspects.
type SwapchainUsageFlags uint64

const (
	SwapchainUsageColorAttachment SwapchainUsageFlags = 1 << 0
	SwapchainUsageDepthStencilAttachment SwapchainUsageFlags = 1 << 1
)

// ReferenceSpaceType mirrors XrReferenceSpaceType.
type ReferenceSpaceType int32

const (
	ReferenceSpaceView  ReferenceSpaceType = 1
	ReferenceSpaceLocal ReferenceSpaceType = 2
	ReferenceSpaceStage ReferenceSpaceType = 3
)

// SessionState mirrors XrSessionState, restricted to the states this
// runtime ever enters (no LOSS_PENDING/EXITING — the Kinect never forces
// an application exit on its own).
type SessionState int32

const (
	SessionStateUnknown      SessionState = 0
	SessionStateIdle         SessionState = 1
	SessionStateReady        SessionState = 2
	SessionStateSynchronized SessionState = 3
	SessionStateVisible      SessionState = 4
	SessionStateFocused      SessionState = 5
	SessionStateStopping     SessionState = 6
)

func (s SessionState) String() string {
	switch s {
	case SessionStateIdle:
		return "IDLE"
	case SessionStateReady:
		return "READY"
	case SessionStateSynchronized:
		return "SYNCHRONIZED"
	case SessionStateVisible:
		return "VISIBLE"
	case SessionStateFocused:
		return "FOCUSED"
	case SessionStateStopping:
		return "STOPPING"
	default:
		return "UNKNOWN"
	}
}

// EnvironmentBlendMode mirrors XrEnvironmentBlendMode. Only Opaque is
// supported — the Kinect has no see-through optics.
type EnvironmentBlendMode int32

const (
	EnvironmentBlendModeOpaque EnvironmentBlendMode = 1
)

// Extension name strings this runtime advertises and accepts. Both
// EnumerateInstanceExtensionProperties and CreateInstance's acceptance
// check read from this single slice so the two paths cannot drift apart.
const (
	ExtensionCompositionLayerDepth = "XR_KHR_composition_layer_depth"
	ExtensionMetalEnable           = "XR_KHR_metal_enable"
)

var SupportedExtensions = []ExtensionProperties{
	{Name: ExtensionCompositionLayerDepth, Version: 1},
	{Name: ExtensionMetalEnable, Version: 1},
}

// ExtensionProperties mirrors XrExtensionProperties' fields relevant here.
type ExtensionProperties struct {
	Name    string
	Version uint32
}

// VendorID is the USB vendor ID the Kinect XR System reports.
const VendorID = 0x045E

// MaxSwapchainWidth and MaxSwapchainHeight bound every swapchain this
// runtime will create, matching the sensor's native resolution.
const (
	MaxSwapchainWidth  = 640
	MaxSwapchainHeight = 480
)

// SwapchainImageCount is the fixed triple-buffering depth (§3 Swapchain).
const SwapchainImageCount = 3

// FrameIntervalNanos is the nominal Kinect sensor period (30 Hz).
const FrameIntervalNanos int64 = 33_333_333
