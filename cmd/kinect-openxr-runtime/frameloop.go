package main

// #include "abi.h"
import "C"

import (
	"unsafe"

	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

//export xrWaitFrame
func xrWaitFrame(session C.XrHandle, frameWaitInfo unsafe.Pointer, frameState *C.XrFrameState) C.XrResult {
	res, result := core.WaitFrame(handleFromC(session))
	if result.IsSuccess() && frameState != nil {
		frameState._type = 0
		frameState.predictedDisplayTime = C.int64_t(res.PredictedDisplayTimeNs)
		frameState.predictedDisplayPeriod = C.int64_t(res.PredictedDisplayPeriod)
		if res.ShouldRender {
			frameState.shouldRender = 1
		} else {
			frameState.shouldRender = 0
		}
	}
	return resultToC(result)
}

//export xrBeginFrame
func xrBeginFrame(session C.XrHandle, frameBeginInfo unsafe.Pointer) C.XrResult {
	return resultToC(core.BeginFrame(handleFromC(session)))
}

//export xrEndFrame
func xrEndFrame(session C.XrHandle, frameEndInfo *C.XrFrameEndInfo) C.XrResult {
	if frameEndInfo == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}

	info := xrcore.FrameEndInfo{
		StructType:           xrcore.StructTypeFrameEndInfo,
		DisplayTime:          int64(frameEndInfo.displayTime),
		EnvironmentBlendMode: xrtypes.EnvironmentBlendMode(frameEndInfo.environmentBlendMode),
	}

	if frameEndInfo.layerCount > 0 && frameEndInfo.layers == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}

	if frameEndInfo.layerCount > 0 && frameEndInfo.layers != nil {
		cLayers := unsafe.Slice(frameEndInfo.layers, int(frameEndInfo.layerCount))
		for _, cLayer := range cLayers {
			if cLayer == nil {
				continue
			}
			layer := xrcore.CompositionLayer{
				StructType:  xrcore.StructTypeCompositionLayerProjection,
				ColorWidth:  int(cLayer.colorWidth),
				ColorHeight: int(cLayer.colorHeight),
			}
			if cLayer.depthInfo != nil {
				layer.DepthInfo = &xrcore.CompositionLayerDepthInfo{
					StructType: xrcore.StructTypeCompositionLayerDepthInfoKHR,
					Swapchain:  handleFromC(cLayer.depthInfo.swapchain),
					Width:      int(cLayer.depthInfo.width),
					Height:     int(cLayer.depthInfo.height),
				}
			}
			info.Layers = append(info.Layers, layer)
		}
	}

	return resultToC(core.EndFrame(handleFromC(session), info))
}

//export xrLocateViews
func xrLocateViews(session C.XrHandle, viewLocateInfo *C.XrViewLocateInfo, viewCapacityInput C.uint32_t, viewCountOutput *C.uint32_t, views *C.XrView) C.XrResult {
	if viewLocateInfo == nil {
		return resultToC(xrtypes.ErrValidationFailure)
	}

	info := xrcore.ViewLocateInfo{
		StructType:            xrcore.StructTypeViewLocateInfo,
		ViewConfigurationType: xrtypes.ViewConfigurationType(viewLocateInfo.viewConfigurationType),
		DisplayTime:           int64(viewLocateInfo.displayTime),
	}

	out, result := core.LocateViews(handleFromC(session), info)
	if viewCountOutput != nil {
		*viewCountOutput = C.uint32_t(len(out))
	}
	if !result.IsSuccess() {
		return resultToC(result)
	}
	if int(viewCapacityInput) == 0 {
		return resultToC(result)
	}
	if int(viewCapacityInput) < len(out) {
		return resultToC(xrtypes.ErrSizeInsufficient)
	}
	if views != nil {
		dst := unsafe.Slice(views, len(out))
		for i, v := range out {
			dst[i]._type = 0
			if v.PoseValid {
				dst[i].poseValid = 1
			} else {
				dst[i].poseValid = 0
			}
			if v.PoseTracked {
				dst[i].poseTracked = 1
			} else {
				dst[i].poseTracked = 0
			}
			dst[i].fov.angleLeft = C.float(v.FovAngleLeftDeg)
			dst[i].fov.angleRight = C.float(v.FovAngleRightDeg)
			dst[i].fov.angleUp = C.float(v.FovAngleUpDeg)
			dst[i].fov.angleDown = C.float(v.FovAngleDownDeg)
		}
	}
	return resultToC(result)
}
