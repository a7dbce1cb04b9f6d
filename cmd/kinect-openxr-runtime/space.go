package main

// #include "abi.h"
import "C"

import (
	"unsafe"

	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

//export xrEnumerateViewConfigurations
func xrEnumerateViewConfigurations(instance C.XrHandle, systemId C.XrHandle, viewConfigurationTypeCapacityInput C.uint32_t, viewConfigurationTypeCountOutput *C.uint32_t, viewConfigurationTypes *C.int32_t) C.XrResult {
	count, out, result := core.EnumerateViewConfigurations(handleFromC(systemId), int(viewConfigurationTypeCapacityInput))
	if viewConfigurationTypeCountOutput != nil {
		*viewConfigurationTypeCountOutput = C.uint32_t(count)
	}
	if result.IsSuccess() && out != nil && viewConfigurationTypes != nil {
		dst := unsafe.Slice(viewConfigurationTypes, len(out))
		for i, t := range out {
			dst[i] = C.int32_t(t)
		}
	}
	return resultToC(result)
}

//export xrGetViewConfigurationProperties
func xrGetViewConfigurationProperties(instance C.XrHandle, systemId C.XrHandle, viewConfigurationType C.int32_t, configurationProperties *C.XrViewConfigurationProperties) C.XrResult {
	props, result := core.GetViewConfigurationProperties(handleFromC(systemId), xrtypes.ViewConfigurationType(viewConfigurationType))
	if result.IsSuccess() && configurationProperties != nil {
		configurationProperties.viewConfigurationType = C.int32_t(props.Type)
		configurationProperties.width = C.uint32_t(props.Width)
		configurationProperties.height = C.uint32_t(props.Height)
		configurationProperties.sampleCount = C.uint32_t(props.SampleCount)
	}
	return resultToC(result)
}

//export xrEnumerateReferenceSpaceTypes
func xrEnumerateReferenceSpaceTypes(session C.XrHandle, spaceTypeCapacityInput C.uint32_t, spaceTypeCountOutput *C.uint32_t, spaces *C.int32_t) C.XrResult {
	count, out, result := core.EnumerateReferenceSpaceTypes(handleFromC(session), int(spaceTypeCapacityInput))
	if spaceTypeCountOutput != nil {
		*spaceTypeCountOutput = C.uint32_t(count)
	}
	if result.IsSuccess() && out != nil && spaces != nil {
		dst := unsafe.Slice(spaces, len(out))
		for i, t := range out {
			dst[i] = C.int32_t(t)
		}
	}
	return resultToC(result)
}

//export xrCreateReferenceSpace
func xrCreateReferenceSpace(session C.XrHandle, createInfo *C.XrReferenceSpaceCreateInfo, space *C.XrHandle) C.XrResult {
	if createInfo == nil || space == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}
	info := xrcore.ReferenceSpaceCreateInfo{
		StructType:    xrcore.StructTypeReferenceSpaceCreateInfo,
		ReferenceType: xrtypes.ReferenceSpaceType(createInfo.referenceSpaceType),
	}
	h, result := core.CreateReferenceSpace(handleFromC(session), info)
	*space = handleToC(h)
	return resultToC(result)
}

//export xrDestroySpace
func xrDestroySpace(space C.XrHandle) C.XrResult {
	return resultToC(core.DestroySpace(handleFromC(space)))
}
