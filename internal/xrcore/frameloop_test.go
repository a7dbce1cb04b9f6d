package xrcore

import (
	"testing"
	"time"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

func beginTestSession(t *testing.T, c *Core) xrtypes.Handle {
	t.Helper()
	_, _, sess := createTestSession(t, c)
	if result := c.BeginSession(sess, xrtypes.ViewConfigurationTypePrimaryMono); result != xrtypes.Success {
		t.Fatalf("BeginSession failed: %v", result)
	}
	return sess
}

func TestWaitFrameRequiresRunningSession(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	if _, result := c.WaitFrame(sess); result != xrtypes.ErrSessionNotRunning {
		t.Fatalf("expected ErrSessionNotRunning, got %v", result)
	}
}

// TestFramePacingScenarioE implements spec scenario E: successive
// WaitFrame calls on a running session are spaced at least 30ms apart,
// with strictly increasing predicted display times. The upper bound of
// 200ms leaves room for scheduler jitter on a loaded machine.
func TestFramePacingScenarioE(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)

	var prev int64
	var prevReturn time.Time
	for i := 0; i < 3; i++ {
		res, result := c.WaitFrame(sess)
		wallAfter := time.Now()
		if result != xrtypes.Success {
			t.Fatalf("WaitFrame %d failed: %v", i, result)
		}
		if i > 0 {
			if res.PredictedDisplayTimeNs <= prev {
				t.Fatalf("predicted display time did not increase: %d -> %d", prev, res.PredictedDisplayTimeNs)
			}
			elapsed := wallAfter.Sub(prevReturn)
			if elapsed < 30*time.Millisecond {
				t.Fatalf("frames paced too tight: %v", elapsed)
			}
			if elapsed > 200*time.Millisecond {
				t.Fatalf("frames paced too loose: %v", elapsed)
			}
		}
		prev = res.PredictedDisplayTimeNs
		prevReturn = wallAfter
		if res.PredictedDisplayPeriod != xrtypes.FrameIntervalNanos {
			t.Fatalf("unexpected predicted display period: %d", res.PredictedDisplayPeriod)
		}
	}
}

func TestBeginFrameRejectsDoubleBegin(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	if result := c.BeginFrame(sess); result != xrtypes.Success {
		t.Fatalf("BeginFrame failed: %v", result)
	}
	if result := c.BeginFrame(sess); result != xrtypes.ErrCallOrderInvalid {
		t.Fatalf("expected ErrCallOrderInvalid, got %v", result)
	}
}

func TestEndFrameRejectsWithoutBegin(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	info := FrameEndInfo{StructType: StructTypeFrameEndInfo, EnvironmentBlendMode: xrtypes.EnvironmentBlendModeOpaque}
	if result := c.EndFrame(sess, info); result != xrtypes.ErrCallOrderInvalid {
		t.Fatalf("expected ErrCallOrderInvalid, got %v", result)
	}
}

func TestEndFrameRejectsUnsupportedBlendMode(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	c.BeginFrame(sess)
	info := FrameEndInfo{StructType: StructTypeFrameEndInfo, EnvironmentBlendMode: xrtypes.EnvironmentBlendMode(99)}
	if result := c.EndFrame(sess, info); result != xrtypes.ErrEnvironmentBlendModeUnsupported {
		t.Fatalf("expected ErrEnvironmentBlendModeUnsupported, got %v", result)
	}
}

func TestEndFrameClearsFrameInProgressOnSuccess(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	c.BeginFrame(sess)
	info := FrameEndInfo{StructType: StructTypeFrameEndInfo, EnvironmentBlendMode: xrtypes.EnvironmentBlendModeOpaque}
	if result := c.EndFrame(sess, info); result != xrtypes.Success {
		t.Fatalf("EndFrame failed: %v", result)
	}
	if result := c.BeginFrame(sess); result != xrtypes.Success {
		t.Fatalf("expected BeginFrame to succeed after EndFrame cleared the flag: %v", result)
	}
}

func TestEndFrameClearsFrameInProgressOnValidationFailure(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	c.BeginFrame(sess)
	info := FrameEndInfo{StructType: StructTypeFrameEndInfo, EnvironmentBlendMode: xrtypes.EnvironmentBlendMode(99)}
	c.EndFrame(sess, info)
	if result := c.BeginFrame(sess); result != xrtypes.Success {
		t.Fatalf("expected frame-in-progress flag cleared even on failure: %v", result)
	}
}

func TestEndFrameValidatesDepthLayerAgainstSwapchain(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)

	colorSC, _ := c.CreateSwapchain(sess, colorSwapchainInfo())
	depthInfo := colorSwapchainInfo()
	depthInfo.Format = xrtypes.SwapchainFormatDepth
	depthInfo.UsageFlags = xrtypes.SwapchainUsageDepthStencilAttachment
	depthSC, _ := c.CreateSwapchain(sess, depthInfo)

	c.BeginFrame(sess)
	info := FrameEndInfo{
		StructType:           StructTypeFrameEndInfo,
		EnvironmentBlendMode: xrtypes.EnvironmentBlendModeOpaque,
		Layers: []CompositionLayer{{
			StructType:  StructTypeCompositionLayerProjection,
			ColorWidth:  xrtypes.MaxSwapchainWidth,
			ColorHeight: xrtypes.MaxSwapchainHeight,
			DepthInfo: &CompositionLayerDepthInfo{
				StructType: StructTypeCompositionLayerDepthInfoKHR,
				Swapchain:  depthSC,
				Width:      xrtypes.MaxSwapchainWidth,
				Height:     xrtypes.MaxSwapchainHeight,
			},
		}},
	}
	if result := c.EndFrame(sess, info); result != xrtypes.Success {
		t.Fatalf("EndFrame with valid depth layer failed: %v", result)
	}

	c.BeginFrame(sess)
	info.Layers[0].DepthInfo.Swapchain = colorSC
	if result := c.EndFrame(sess, info); result != xrtypes.ErrSwapchainFormatUnsupported {
		t.Fatalf("expected ErrSwapchainFormatUnsupported for a color swapchain used as depth, got %v", result)
	}
}

func TestLocateViewsReturnsSingleTrackedView(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	views, result := c.LocateViews(sess, ViewLocateInfo{
		StructType:            StructTypeViewLocateInfo,
		ViewConfigurationType: xrtypes.ViewConfigurationTypePrimaryMono,
	})
	if result != xrtypes.Success {
		t.Fatalf("LocateViews failed: %v", result)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if !views[0].PoseValid || !views[0].PoseTracked {
		t.Fatal("expected the single view to be valid and tracked")
	}
}

func TestLocateViewsRejectsUnsupportedViewConfig(t *testing.T) {
	c := newTestCore()
	sess := beginTestSession(t, c)
	_, result := c.LocateViews(sess, ViewLocateInfo{
		StructType:            StructTypeViewLocateInfo,
		ViewConfigurationType: xrtypes.ViewConfigurationType(99),
	})
	if result != xrtypes.ErrViewConfigurationTypeUnsupported {
		t.Fatalf("expected ErrViewConfigurationTypeUnsupported, got %v", result)
	}
}
