// Command kinect-openxr-runtime is the loadable OpenXR runtime: built with
// -buildmode=c-shared, it is the only package in this module that exports
// C entry points (the darwin builds of internal/device and
// internal/graphics also import "C", to call their drivers). internal/xrabi resolves entry-point names to FunctionID values and
// internal/xrcore holds all runtime state; this package's job is purely
// the C ABI boundary — marshaling C structs in both directions and handing
// back real C function pointers from xrGetInstanceProcAddr, mirroring the
// registry/export-trampoline pattern internal/device/device_darwin.go and
// internal/graphics/graphics_darwin.go use for their own cgo boundaries.
package main

// #include "abi.h"
// #include <string.h>
//
// static PFN_xrVoidFunction xr_resolve(const char *name) {
//   if (strcmp(name, "xrGetInstanceProcAddr") == 0) return (PFN_xrVoidFunction)xrGetInstanceProcAddr;
//   if (strcmp(name, "xrEnumerateInstanceExtensionProperties") == 0) return (PFN_xrVoidFunction)xrEnumerateInstanceExtensionProperties;
//   if (strcmp(name, "xrEnumerateApiLayerProperties") == 0) return (PFN_xrVoidFunction)xrEnumerateApiLayerProperties;
//   if (strcmp(name, "xrCreateInstance") == 0) return (PFN_xrVoidFunction)xrCreateInstance;
//   if (strcmp(name, "xrDestroyInstance") == 0) return (PFN_xrVoidFunction)xrDestroyInstance;
//   if (strcmp(name, "xrPollEvent") == 0) return (PFN_xrVoidFunction)xrPollEvent;
//   if (strcmp(name, "xrGetSystem") == 0) return (PFN_xrVoidFunction)xrGetSystem;
//   if (strcmp(name, "xrGetSystemProperties") == 0) return (PFN_xrVoidFunction)xrGetSystemProperties;
//   if (strcmp(name, "xrEnumerateViewConfigurations") == 0) return (PFN_xrVoidFunction)xrEnumerateViewConfigurations;
//   if (strcmp(name, "xrGetViewConfigurationProperties") == 0) return (PFN_xrVoidFunction)xrGetViewConfigurationProperties;
//   if (strcmp(name, "xrEnumerateReferenceSpaceTypes") == 0) return (PFN_xrVoidFunction)xrEnumerateReferenceSpaceTypes;
//   if (strcmp(name, "xrGetMetalGraphicsRequirementsKHR") == 0) return (PFN_xrVoidFunction)xrGetMetalGraphicsRequirementsKHR;
//   if (strcmp(name, "xrCreateSession") == 0) return (PFN_xrVoidFunction)xrCreateSession;
//   if (strcmp(name, "xrDestroySession") == 0) return (PFN_xrVoidFunction)xrDestroySession;
//   if (strcmp(name, "xrBeginSession") == 0) return (PFN_xrVoidFunction)xrBeginSession;
//   if (strcmp(name, "xrEndSession") == 0) return (PFN_xrVoidFunction)xrEndSession;
//   if (strcmp(name, "xrCreateReferenceSpace") == 0) return (PFN_xrVoidFunction)xrCreateReferenceSpace;
//   if (strcmp(name, "xrDestroySpace") == 0) return (PFN_xrVoidFunction)xrDestroySpace;
//   if (strcmp(name, "xrEnumerateSwapchainFormats") == 0) return (PFN_xrVoidFunction)xrEnumerateSwapchainFormats;
//   if (strcmp(name, "xrCreateSwapchain") == 0) return (PFN_xrVoidFunction)xrCreateSwapchain;
//   if (strcmp(name, "xrDestroySwapchain") == 0) return (PFN_xrVoidFunction)xrDestroySwapchain;
//   if (strcmp(name, "xrEnumerateSwapchainImages") == 0) return (PFN_xrVoidFunction)xrEnumerateSwapchainImages;
//   if (strcmp(name, "xrAcquireSwapchainImage") == 0) return (PFN_xrVoidFunction)xrAcquireSwapchainImage;
//   if (strcmp(name, "xrWaitSwapchainImage") == 0) return (PFN_xrVoidFunction)xrWaitSwapchainImage;
//   if (strcmp(name, "xrReleaseSwapchainImage") == 0) return (PFN_xrVoidFunction)xrReleaseSwapchainImage;
//   if (strcmp(name, "xrWaitFrame") == 0) return (PFN_xrVoidFunction)xrWaitFrame;
//   if (strcmp(name, "xrBeginFrame") == 0) return (PFN_xrVoidFunction)xrBeginFrame;
//   if (strcmp(name, "xrEndFrame") == 0) return (PFN_xrVoidFunction)xrEndFrame;
//   if (strcmp(name, "xrLocateViews") == 0) return (PFN_xrVoidFunction)xrLocateViews;
//   return 0;
// }
import "C"

import (
	"log/slog"
	"unsafe"

	"github.com/kinectxr/runtime/internal/logging"
	"github.com/kinectxr/runtime/internal/xrabi"
	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

var log = logging.L("kinect-openxr-runtime")

// core and dispatcher are process-wide singletons: the loader dlopen()s
// exactly one copy of this shared object per process, and OpenXR's own
// ABI gives every entry point no way to pass a "which runtime instance"
// context beyond the instance/session/etc. handles that core itself
// hands out.
var (
	core       = xrcore.New()
	dispatcher = xrabi.NewDispatcher(core)
)

func resultToC(r xrtypes.Result) C.XrResult {
	return C.XrResult(r)
}

func handleToC(h xrtypes.Handle) C.XrHandle {
	return C.XrHandle(h)
}

func handleFromC(h C.XrHandle) xrtypes.Handle {
	return xrtypes.Handle(h)
}

//export NegotiateLoaderRuntimeInterface
func NegotiateLoaderRuntimeInterface(loaderInfo *C.XrNegotiateLoaderInfo, runtimeRequest *C.XrNegotiateRuntimeRequest) C.XrResult {
	if loaderInfo == nil || runtimeRequest == nil {
		return resultToC(xrtypes.ErrInitializationFailed)
	}

	info := xrabi.NegotiateLoaderInfo{
		StructType:          xrabi.NegotiateStructureType(C.GoString(loaderInfo.structType)),
		StructVersion:       uint32(loaderInfo.structVersion),
		StructSize:          uint64(loaderInfo.structSize),
		MinInterfaceVersion: uint32(loaderInfo.minInterfaceVersion),
		MaxInterfaceVersion: uint32(loaderInfo.maxInterfaceVersion),
		MinApiVersion:       uint64(loaderInfo.minApiVersion),
		MaxApiVersion:       uint64(loaderInfo.maxApiVersion),
	}

	req, result := xrabi.Negotiate(info)
	if !result.IsSuccess() {
		log.Warn("loader negotiation rejected", slog.String("result", result.String()))
		return resultToC(result)
	}

	runtimeRequest.structType = C.CString(string(req.StructType))
	runtimeRequest.structVersion = C.uint32_t(req.StructVersion)
	runtimeRequest.structSize = C.uint64_t(req.StructSize)
	runtimeRequest.runtimeInterfaceVersion = C.uint32_t(req.RuntimeInterfaceVersion)
	runtimeRequest.runtimeApiVersion = C.XrVersion(req.RuntimeApiVersion)
	runtimeRequest.getInstanceProcAddr = C.PFN_xrVoidFunction(unsafe.Pointer(C.xrGetInstanceProcAddr))

	log.Info("loader negotiation accepted")
	return resultToC(xrtypes.Success)
}

//export xrGetInstanceProcAddr
func xrGetInstanceProcAddr(instance C.XrHandle, name *C.char, function *C.PFN_xrVoidFunction) C.XrResult {
	if name == nil || function == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}
	goName := C.GoString(name)

	_, result := dispatcher.GetInstanceProcAddr(handleFromC(instance), goName)
	if !result.IsSuccess() {
		*function = nil
		return resultToC(result)
	}

	addr := C.xr_resolve(name)
	if addr == nil {
		*function = nil
		return resultToC(xrtypes.ErrFunctionUnsupported)
	}
	*function = addr
	return resultToC(xrtypes.Success)
}

func main() {}
