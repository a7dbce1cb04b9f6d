// Package xrabi holds the portable half of the OpenXR loader-runtime ABI
// boundary: function-name dispatch and loader-negotiation record
// validation. Neither file in this package imports "C" — the cgo export
// trampolines and the real C struct marshaling live in
// cmd/kinect-openxr-runtime, the only package built with
// -buildmode=c-shared. Keeping this half pure Go makes it unit-testable
// without a C compiler in the loop.
package xrabi

import (
	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// FunctionID names one of the runtime's exported OpenXR entry points.
// cmd/kinect-openxr-runtime holds the actual C function pointer for each
// ID; this package only decides which ID (if any) a name resolves to.
type FunctionID int

const (
	FuncUnknown FunctionID = iota
	FuncGetInstanceProcAddr
	FuncEnumerateInstanceExtensionProperties
	FuncEnumerateApiLayerProperties
	FuncCreateInstance
	FuncDestroyInstance
	FuncPollEvent
	FuncGetSystem
	FuncGetSystemProperties
	FuncEnumerateViewConfigurations
	FuncGetViewConfigurationProperties
	FuncEnumerateReferenceSpaceTypes
	FuncGetMetalGraphicsRequirementsKHR
	FuncCreateSession
	FuncDestroySession
	FuncBeginSession
	FuncEndSession
	FuncCreateReferenceSpace
	FuncDestroySpace
	FuncEnumerateSwapchainFormats
	FuncCreateSwapchain
	FuncDestroySwapchain
	FuncEnumerateSwapchainImages
	FuncAcquireSwapchainImage
	FuncWaitSwapchainImage
	FuncReleaseSwapchainImage
	FuncWaitFrame
	FuncBeginFrame
	FuncEndFrame
	FuncLocateViews
)

// functionEntry records whether name may be queried with a null instance
// handle (EnumerateInstanceExtensionProperties,
// EnumerateApiLayerProperties, CreateInstance, and xrGetInstanceProcAddr
// itself are instance-agnostic; every other function requires a valid
// instance).
type functionEntry struct {
	id               FunctionID
	instanceAgnostic bool
}

var functionTable = map[string]functionEntry{
	"xrGetInstanceProcAddr":                  {FuncGetInstanceProcAddr, true},
	"xrEnumerateInstanceExtensionProperties": {FuncEnumerateInstanceExtensionProperties, true},
	"xrEnumerateApiLayerProperties":          {FuncEnumerateApiLayerProperties, true},
	"xrCreateInstance":                       {FuncCreateInstance, true},

	"xrDestroyInstance":                 {FuncDestroyInstance, false},
	"xrPollEvent":                       {FuncPollEvent, false},
	"xrGetSystem":                       {FuncGetSystem, false},
	"xrGetSystemProperties":             {FuncGetSystemProperties, false},
	"xrEnumerateViewConfigurations":     {FuncEnumerateViewConfigurations, false},
	"xrGetViewConfigurationProperties":  {FuncGetViewConfigurationProperties, false},
	"xrEnumerateReferenceSpaceTypes":    {FuncEnumerateReferenceSpaceTypes, false},
	"xrGetMetalGraphicsRequirementsKHR": {FuncGetMetalGraphicsRequirementsKHR, false},
	"xrCreateSession":                   {FuncCreateSession, false},
	"xrDestroySession":                  {FuncDestroySession, false},
	"xrBeginSession":                    {FuncBeginSession, false},
	"xrEndSession":                      {FuncEndSession, false},
	"xrCreateReferenceSpace":            {FuncCreateReferenceSpace, false},
	"xrDestroySpace":                    {FuncDestroySpace, false},
	"xrEnumerateSwapchainFormats":       {FuncEnumerateSwapchainFormats, false},
	"xrCreateSwapchain":                 {FuncCreateSwapchain, false},
	"xrDestroySwapchain":                {FuncDestroySwapchain, false},
	"xrEnumerateSwapchainImages":        {FuncEnumerateSwapchainImages, false},
	"xrAcquireSwapchainImage":           {FuncAcquireSwapchainImage, false},
	"xrWaitSwapchainImage":              {FuncWaitSwapchainImage, false},
	"xrReleaseSwapchainImage":           {FuncReleaseSwapchainImage, false},
	"xrWaitFrame":                       {FuncWaitFrame, false},
	"xrBeginFrame":                      {FuncBeginFrame, false},
	"xrEndFrame":                        {FuncEndFrame, false},
	"xrLocateViews":                     {FuncLocateViews, false},
}

// Dispatcher resolves xrGetInstanceProcAddr lookups against a live Core.
type Dispatcher struct {
	core *xrcore.Core
}

// NewDispatcher wraps core for name dispatch.
func NewDispatcher(core *xrcore.Core) *Dispatcher {
	return &Dispatcher{core: core}
}

// GetInstanceProcAddr resolves name to a FunctionID, enforcing the
// instance-handle requirement: unknown names return FunctionUnsupported;
// names that require an instance return HandleInvalid when instance is
// null or does not denote a live instance.
func (d *Dispatcher) GetInstanceProcAddr(instance xrtypes.Handle, name string) (FunctionID, xrtypes.Result) {
	entry, ok := functionTable[name]
	if !ok {
		return FuncUnknown, xrtypes.ErrFunctionUnsupported
	}
	if entry.instanceAgnostic {
		return entry.id, xrtypes.Success
	}
	if instance == xrtypes.NullHandle || !d.core.InstanceValid(instance) {
		return FuncUnknown, xrtypes.ErrHandleInvalid
	}
	return entry.id, xrtypes.Success
}
