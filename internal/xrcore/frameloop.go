package xrcore

import (
	"time"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// minFramePeriod matches xrtypes.FrameIntervalNanos; WaitFrame blocks
// until at least this much time has passed since the previous call on
// the same session.
const minFramePeriod = time.Duration(xrtypes.FrameIntervalNanos)

// WaitFrameResult mirrors XrFrameState's fields relevant here.
type WaitFrameResult struct {
	PredictedDisplayTimeNs int64
	PredictedDisplayPeriod int64
	ShouldRender           bool
}

func sessionRunning(state xrtypes.SessionState) bool {
	switch state {
	case xrtypes.SessionStateSynchronized, xrtypes.SessionStateVisible, xrtypes.SessionStateFocused:
		return true
	default:
		return false
	}
}

// WaitFrame paces the session at 30 Hz: it blocks until at least
// minFramePeriod has elapsed since the previous WaitFrame return on this
// session, then stamps and returns the new predicted display time.
func (c *Core) WaitFrame(sessionHandle xrtypes.Handle) (WaitFrameResult, xrtypes.Result) {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return WaitFrameResult{}, xrtypes.ErrHandleInvalid
	}
	if !sessionRunning(xrtypes.SessionState(sess.state.Load())) {
		return WaitFrameResult{}, xrtypes.ErrSessionNotRunning
	}

	sess.mu.Lock()
	last := sess.frameLoop.lastDisplayTimeNs
	sess.mu.Unlock()

	now := time.Now()
	if last != 0 {
		elapsed := now.Sub(time.Unix(0, last))
		if elapsed < minFramePeriod {
			time.Sleep(minFramePeriod - elapsed)
			now = time.Now()
		}
	}

	sess.mu.Lock()
	sess.frameLoop.lastDisplayTimeNs = now.UnixNano()
	sess.frameLoop.frameCounter++
	sess.mu.Unlock()

	return WaitFrameResult{
		PredictedDisplayTimeNs: now.UnixNano(),
		PredictedDisplayPeriod: xrtypes.FrameIntervalNanos,
		ShouldRender:           true,
	}, xrtypes.Success
}

// BeginFrame marks the session's frame as in progress. Requires the
// session running and no frame already in progress.
func (c *Core) BeginFrame(sessionHandle xrtypes.Handle) xrtypes.Result {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	if !sessionRunning(xrtypes.SessionState(sess.state.Load())) {
		return xrtypes.ErrSessionNotRunning
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.frameLoop.frameInProgress {
		return xrtypes.ErrCallOrderInvalid
	}
	sess.frameLoop.frameInProgress = true
	return xrtypes.Success
}

// EndFrame validates info and the application's composition layers,
// then clears the frame-in-progress flag.
func (c *Core) EndFrame(sessionHandle xrtypes.Handle, info FrameEndInfo) xrtypes.Result {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	if info.StructType != StructTypeFrameEndInfo {
		return xrtypes.ErrValidationFailure
	}

	sess.mu.Lock()
	inProgress := sess.frameLoop.frameInProgress
	sess.mu.Unlock()
	if !inProgress {
		return xrtypes.ErrCallOrderInvalid
	}
	defer func() {
		sess.mu.Lock()
		sess.frameLoop.frameInProgress = false
		sess.mu.Unlock()
	}()

	if info.EnvironmentBlendMode != xrtypes.EnvironmentBlendModeOpaque {
		return xrtypes.ErrEnvironmentBlendModeUnsupported
	}

	for _, layer := range info.Layers {
		if layer.StructType != StructTypeCompositionLayerProjection {
			return xrtypes.ErrValidationFailure
		}
		if layer.DepthInfo == nil {
			continue
		}
		if layer.DepthInfo.StructType != StructTypeCompositionLayerDepthInfoKHR {
			return xrtypes.ErrValidationFailure
		}
		depthSC, ok := c.swapchains.get(layer.DepthInfo.Swapchain)
		if !ok {
			return xrtypes.ErrHandleInvalid
		}
		if depthSC.format != xrtypes.SwapchainFormatDepth {
			return xrtypes.ErrSwapchainFormatUnsupported
		}
		if layer.DepthInfo.Width != layer.ColorWidth || layer.DepthInfo.Height != layer.ColorHeight {
			return xrtypes.ErrValidationFailure
		}
	}

	return xrtypes.Success
}

// LocateViews returns the single supported view's pose and FOV. The
// Kinect reports no tracking, but this runtime always reports
// pose/orientation as tracked with an identity pose.
func (c *Core) LocateViews(sessionHandle xrtypes.Handle, info ViewLocateInfo) ([]View, xrtypes.Result) {
	if _, ok := c.sessions.get(sessionHandle); !ok {
		return nil, xrtypes.ErrHandleInvalid
	}
	if info.StructType != StructTypeViewLocateInfo {
		return nil, xrtypes.ErrValidationFailure
	}
	if info.ViewConfigurationType != xrtypes.ViewConfigurationTypePrimaryMono {
		return nil, xrtypes.ErrViewConfigurationTypeUnsupported
	}

	return []View{{
		PoseValid:        true,
		PoseTracked:      true,
		FovAngleLeftDeg:  -28.5,
		FovAngleRightDeg: 28.5,
		FovAngleUpDeg:    21.5,
		FovAngleDownDeg:  -21.5,
	}}, xrtypes.Success
}
