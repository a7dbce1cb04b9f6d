package main

// #include "abi.h"
import "C"

import (
	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

//export xrCreateSession
func xrCreateSession(instance C.XrHandle, createInfo *C.XrSessionCreateInfo, session *C.XrHandle) C.XrResult {
	if createInfo == nil || session == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}

	info := xrcore.SessionCreateInfo{
		StructType: xrcore.StructTypeSessionCreateInfo,
		SystemID:   handleFromC(createInfo.systemId),
	}
	if createInfo.next != nil {
		info.Next = &xrcore.GraphicsBindingMetal{
			StructType:   xrcore.StructTypeGraphicsBindingMetal,
			CommandQueue: graphics.CommandQueue(uintptr(createInfo.next.commandQueue)),
		}
	}

	h, result := core.CreateSession(handleFromC(instance), info)
	*session = handleToC(h)
	return resultToC(result)
}

//export xrDestroySession
func xrDestroySession(session C.XrHandle) C.XrResult {
	return resultToC(core.DestroySession(handleFromC(session)))
}

//export xrBeginSession
func xrBeginSession(session C.XrHandle, beginInfo *C.XrSessionBeginInfo) C.XrResult {
	if beginInfo == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}
	return resultToC(core.BeginSession(handleFromC(session), xrtypes.ViewConfigurationType(beginInfo.primaryViewConfigurationType)))
}

//export xrEndSession
func xrEndSession(session C.XrHandle) C.XrResult {
	return resultToC(core.EndSession(handleFromC(session)))
}

//export xrGetMetalGraphicsRequirementsKHR
func xrGetMetalGraphicsRequirementsKHR(instance C.XrHandle, systemId C.XrHandle, graphicsRequirements *C.XrGraphicsRequirementsMetal) C.XrResult {
	_, result := core.GetMetalGraphicsRequirements(handleFromC(systemId))
	if result.IsSuccess() && graphicsRequirements != nil {
		graphicsRequirements.next = nil
	}
	return resultToC(result)
}
