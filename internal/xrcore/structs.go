package xrcore

import (
	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// StructureType tags every create-info / chain struct the core accepts,
// mirroring XrStructureType. The core validates this tag before touching
// any other field.
type StructureType string

const (
	StructTypeInstanceCreateInfo          StructureType = "XR_TYPE_INSTANCE_CREATE_INFO"
	StructTypeSessionCreateInfo           StructureType = "XR_TYPE_SESSION_CREATE_INFO"
	StructTypeSwapchainCreateInfo         StructureType = "XR_TYPE_SWAPCHAIN_CREATE_INFO"
	StructTypeFrameEndInfo                StructureType = "XR_TYPE_FRAME_END_INFO"
	StructTypeReferenceSpaceCreateInfo    StructureType = "XR_TYPE_REFERENCE_SPACE_CREATE_INFO"
	StructTypeViewLocateInfo              StructureType = "XR_TYPE_VIEW_LOCATE_INFO"
	StructTypeGraphicsBindingMetal        StructureType = "XR_TYPE_GRAPHICS_BINDING_METAL"
	StructTypeGraphicsRequirementsMetal   StructureType = "XR_TYPE_GRAPHICS_REQUIREMENTS_METAL"
	StructTypeCompositionLayerProjection  StructureType = "XR_TYPE_COMPOSITION_LAYER_PROJECTION"
	StructTypeCompositionLayerDepthInfoKHR StructureType = "XR_TYPE_COMPOSITION_LAYER_DEPTH_INFO_KHR"
)

// CurrentApiVersion is the only API version this runtime accepts in
// InstanceCreateInfo.ApiVersion.
const CurrentApiVersion uint64 = 1<<48 // major=1, minor=0, patch=0

// InstanceCreateInfo mirrors XrInstanceCreateInfo's fields relevant to
// this runtime.
type InstanceCreateInfo struct {
	StructType            StructureType
	ApplicationName       string
	EngineName            string
	ApiVersion            uint64
	EnabledExtensionNames []string
}

// GraphicsBindingMetal mirrors XrGraphicsBindingMetalKHR. CommandQueue
// must be non-null; in unit tests it may be a fabricated sentinel value
// since the graphics helper's fake backend never dereferences it.
type GraphicsBindingMetal struct {
	StructType   StructureType
	CommandQueue graphics.CommandQueue
}

// SessionCreateInfo mirrors XrSessionCreateInfo. Next must be a
// *GraphicsBindingMetal.
type SessionCreateInfo struct {
	StructType StructureType
	SystemID   xrtypes.Handle
	Next       *GraphicsBindingMetal
}

// SwapchainCreateInfo mirrors XrSwapchainCreateInfo.
type SwapchainCreateInfo struct {
	StructType  StructureType
	UsageFlags  xrtypes.SwapchainUsageFlags
	Format      xrtypes.SwapchainFormat
	Width       int
	Height      int
	SampleCount int
	ArraySize   int
}

// ReferenceSpaceCreateInfo mirrors XrReferenceSpaceCreateInfo. Pose is
// ignored: every reference space this runtime creates is identity-posed.
type ReferenceSpaceCreateInfo struct {
	StructType    StructureType
	ReferenceType xrtypes.ReferenceSpaceType
}

// CompositionLayerDepthInfo mirrors XrCompositionLayerDepthInfoKHR.
type CompositionLayerDepthInfo struct {
	StructType StructureType
	Swapchain  xrtypes.Handle
	Width      int
	Height     int
}

// CompositionLayer mirrors one entry of XrFrameEndInfo.layers: a
// projection layer with an optional depth info in its next-chain.
type CompositionLayer struct {
	StructType StructureType
	ColorWidth int
	ColorHeight int
	DepthInfo  *CompositionLayerDepthInfo
}

// FrameEndInfo mirrors XrFrameEndInfo.
type FrameEndInfo struct {
	StructType           StructureType
	DisplayTime          int64
	EnvironmentBlendMode xrtypes.EnvironmentBlendMode
	Layers               []CompositionLayer
}

// ViewLocateInfo mirrors XrViewLocateInfo.
type ViewLocateInfo struct {
	StructType            StructureType
	ViewConfigurationType xrtypes.ViewConfigurationType
	DisplayTime           int64
}

// View mirrors one entry of the XrView array returned by LocateViews.
type View struct {
	PoseValid   bool
	PoseTracked bool
	// Position and orientation are identity: the sensor never moves.
	FovAngleLeftDeg, FovAngleRightDeg float64
	FovAngleUpDeg, FovAngleDownDeg    float64
}
