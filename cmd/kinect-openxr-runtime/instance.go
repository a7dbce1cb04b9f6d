package main

// #include "abi.h"
import "C"

import (
	"unsafe"

	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// cStringArray borrows count C strings out of a const char *const* array.
// The returned slice of Go strings copies the bytes; nothing from arr is
// retained past this call, matching the borrowed-slice contract the
// driver callbacks use elsewhere in this module.
func cStringArray(arr **C.char, count C.uint32_t) []string {
	if arr == nil || count == 0 {
		return nil
	}
	ptrs := unsafe.Slice(arr, int(count))
	out := make([]string, count)
	for i, p := range ptrs {
		out[i] = C.GoString(p)
	}
	return out
}

//export xrEnumerateInstanceExtensionProperties
func xrEnumerateInstanceExtensionProperties(layerName *C.char, propertyCapacityInput C.uint32_t, propertyCountOutput *C.uint32_t, properties *C.XrExtensionProperties) C.XrResult {
	count, out, result := core.EnumerateInstanceExtensionProperties(int(propertyCapacityInput))
	if propertyCountOutput != nil {
		*propertyCountOutput = C.uint32_t(count)
	}
	if result.IsSuccess() && out != nil && properties != nil {
		dst := unsafe.Slice(properties, len(out))
		for i, ext := range out {
			dst[i]._type = 0
			writeCString(dst[i].extensionName[:], ext.Name)
			dst[i].extensionVersion = C.uint32_t(ext.Version)
		}
	}
	return resultToC(result)
}

// xrEnumerateApiLayerProperties always reports zero layers: this runtime
// ships no API layers of its own.
//
//export xrEnumerateApiLayerProperties
func xrEnumerateApiLayerProperties(propertyCapacityInput C.uint32_t, propertyCountOutput *C.uint32_t, properties *C.XrApiLayerProperties) C.XrResult {
	if propertyCountOutput != nil {
		*propertyCountOutput = 0
	}
	return resultToC(xrtypes.Success)
}

//export xrCreateInstance
func xrCreateInstance(createInfo *C.XrInstanceCreateInfo, instance *C.XrHandle) C.XrResult {
	if createInfo == nil || instance == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}

	info := xrcore.InstanceCreateInfo{
		StructType:            xrcore.StructTypeInstanceCreateInfo,
		ApplicationName:       C.GoString(&createInfo.applicationInfo.applicationName[0]),
		EngineName:            C.GoString(&createInfo.applicationInfo.engineName[0]),
		ApiVersion:            uint64(createInfo.applicationInfo.apiVersion),
		EnabledExtensionNames: cStringArray(createInfo.enabledExtensionNames, createInfo.enabledExtensionCount),
	}

	h, result := core.CreateInstance(info)
	*instance = handleToC(h)
	return resultToC(result)
}

//export xrDestroyInstance
func xrDestroyInstance(instance C.XrHandle) C.XrResult {
	return resultToC(core.DestroyInstance(handleFromC(instance)))
}

//export xrPollEvent
func xrPollEvent(instance C.XrHandle, eventData *C.XrEventDataSessionStateChanged) C.XrResult {
	e, result := core.PollEvent(handleFromC(instance))
	if !result.IsSuccess() {
		return resultToC(result)
	}
	if eventData != nil {
		eventData._type = 0
		eventData.session = handleToC(e.Session)
		eventData.state = C.int32_t(e.State)
		eventData.time = C.int64_t(e.TimeNs)
	}
	return resultToC(result)
}

//export xrGetSystem
func xrGetSystem(instance C.XrHandle, getInfo *C.XrSystemGetInfo, systemId *C.XrHandle) C.XrResult {
	if getInfo == nil || systemId == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}
	h, result := core.GetSystem(handleFromC(instance), xrtypes.FormFactor(getInfo.formFactor))
	*systemId = handleToC(h)
	return resultToC(result)
}

//export xrGetSystemProperties
func xrGetSystemProperties(instance C.XrHandle, systemId C.XrHandle, properties *C.XrSystemProperties) C.XrResult {
	props, result := core.GetSystemProperties(handleFromC(systemId))
	if result.IsSuccess() && properties != nil {
		properties.systemId = handleToC(props.SystemID)
		properties.vendorId = C.uint32_t(props.VendorID)
		writeCString(properties.systemName[:], props.SystemName)
		properties.maxSwapchainWidth = C.uint32_t(props.MaxSwapchainWidth)
		properties.maxSwapchainHeight = C.uint32_t(props.MaxSwapchainHeight)
		properties.maxLayerCount = C.uint32_t(props.MaxLayerCount)
	}
	return resultToC(result)
}

// writeCString copies s into dst as a NUL-terminated C string, truncating
// to len(dst)-1 bytes if necessary. dst is a fixed-size array field
// inside a struct shared across the cgo boundary.
func writeCString(dst []C.char, s string) {
	if len(dst) == 0 {
		return
	}
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	for i := 0; i < n; i++ {
		dst[i] = C.char(s[i])
	}
	dst[n] = 0
}
