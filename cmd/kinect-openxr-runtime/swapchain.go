package main

// #include "abi.h"
import "C"

import (
	"unsafe"

	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

//export xrEnumerateSwapchainFormats
func xrEnumerateSwapchainFormats(session C.XrHandle, formatCapacityInput C.uint32_t, formatCountOutput *C.uint32_t, formats *C.int64_t) C.XrResult {
	count, out, result := core.EnumerateSwapchainFormats(handleFromC(session), int(formatCapacityInput))
	if formatCountOutput != nil {
		*formatCountOutput = C.uint32_t(count)
	}
	if result.IsSuccess() && out != nil && formats != nil {
		dst := unsafe.Slice(formats, len(out))
		for i, f := range out {
			dst[i] = C.int64_t(f)
		}
	}
	return resultToC(result)
}

//export xrCreateSwapchain
func xrCreateSwapchain(session C.XrHandle, createInfo *C.XrSwapchainCreateInfo, swapchain *C.XrHandle) C.XrResult {
	if createInfo == nil || swapchain == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}
	info := xrcore.SwapchainCreateInfo{
		StructType:  xrcore.StructTypeSwapchainCreateInfo,
		UsageFlags:  xrtypes.SwapchainUsageFlags(createInfo.usageFlags),
		Format:      xrtypes.SwapchainFormat(createInfo.format),
		Width:       int(createInfo.width),
		Height:      int(createInfo.height),
		SampleCount: int(createInfo.sampleCount),
		ArraySize:   int(createInfo.arraySize),
	}
	h, result := core.CreateSwapchain(handleFromC(session), info)
	*swapchain = handleToC(h)
	return resultToC(result)
}

//export xrDestroySwapchain
func xrDestroySwapchain(swapchain C.XrHandle) C.XrResult {
	return resultToC(core.DestroySwapchain(handleFromC(swapchain)))
}

//export xrEnumerateSwapchainImages
func xrEnumerateSwapchainImages(swapchain C.XrHandle, imageCapacityInput C.uint32_t, imageCountOutput *C.uint32_t, images *C.XrSwapchainImage) C.XrResult {
	count, out, result := core.EnumerateSwapchainImages(handleFromC(swapchain), int(imageCapacityInput))
	if imageCountOutput != nil {
		*imageCountOutput = C.uint32_t(count)
	}
	if result.IsSuccess() && out != nil && images != nil {
		dst := unsafe.Slice(images, len(out))
		for i, img := range out {
			dst[i]._type = 0
			dst[i].texture = unsafe.Pointer(uintptr(img.Texture))
		}
	}
	return resultToC(result)
}

//export xrAcquireSwapchainImage
func xrAcquireSwapchainImage(swapchain C.XrHandle, index *C.uint32_t) C.XrResult {
	i, result := core.AcquireSwapchainImage(handleFromC(swapchain))
	if index != nil {
		*index = C.uint32_t(i)
	}
	return resultToC(result)
}

//export xrWaitSwapchainImage
func xrWaitSwapchainImage(swapchain C.XrHandle, waitInfo *C.XrSwapchainImageWaitInfo) C.XrResult {
	return resultToC(core.WaitSwapchainImage(handleFromC(swapchain)))
}

//export xrReleaseSwapchainImage
func xrReleaseSwapchainImage(swapchain C.XrHandle) C.XrResult {
	return resultToC(core.ReleaseSwapchainImage(handleFromC(swapchain)))
}
