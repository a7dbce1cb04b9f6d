package xrcore

import (
	"testing"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

func colorSwapchainInfo() SwapchainCreateInfo {
	return SwapchainCreateInfo{
		StructType:  StructTypeSwapchainCreateInfo,
		UsageFlags:  xrtypes.SwapchainUsageColorAttachment,
		Format:      xrtypes.SwapchainFormatColor,
		Width:       xrtypes.MaxSwapchainWidth,
		Height:      xrtypes.MaxSwapchainHeight,
		SampleCount: 1,
		ArraySize:   1,
	}
}

func TestCreateSwapchainRejectsOversizedDimensions(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	info := colorSwapchainInfo()
	info.Width = xrtypes.MaxSwapchainWidth + 1
	if _, result := c.CreateSwapchain(sess, info); result != xrtypes.ErrSizeInsufficient {
		t.Fatalf("expected ErrSizeInsufficient, got %v", result)
	}
}

func TestCreateSwapchainRejectsMultisample(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	info := colorSwapchainInfo()
	info.SampleCount = 4
	if _, result := c.CreateSwapchain(sess, info); result != xrtypes.ErrFeatureUnsupported {
		t.Fatalf("expected ErrFeatureUnsupported, got %v", result)
	}
}

func TestCreateSwapchainRejectsUsageFormatMismatch(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	info := colorSwapchainInfo()
	info.UsageFlags = xrtypes.SwapchainUsageDepthStencilAttachment
	if _, result := c.CreateSwapchain(sess, info); result != xrtypes.ErrFeatureUnsupported {
		t.Fatalf("expected ErrFeatureUnsupported, got %v", result)
	}
}

func TestCreateSwapchainSucceedsAndEnumeratesThreeImages(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	sc, result := c.CreateSwapchain(sess, colorSwapchainInfo())
	if result != xrtypes.Success {
		t.Fatalf("CreateSwapchain failed: %v", result)
	}
	n, images, result := c.EnumerateSwapchainImages(sc, xrtypes.SwapchainImageCount)
	if result != xrtypes.Success {
		t.Fatalf("EnumerateSwapchainImages failed: %v", result)
	}
	if n != xrtypes.SwapchainImageCount || len(images) != xrtypes.SwapchainImageCount {
		t.Fatalf("expected %d images, got %d/%d", xrtypes.SwapchainImageCount, n, len(images))
	}
	for _, img := range images {
		if img.Texture == 0 {
			t.Fatal("expected non-zero texture handle")
		}
	}
}

// TestSwapchainCyclingScenarioD implements spec scenario D: acquiring and
// releasing five times in a row cycles indices 0,1,2,0,1.
func TestSwapchainCyclingScenarioD(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	sc, _ := c.CreateSwapchain(sess, colorSwapchainInfo())

	want := []int{0, 1, 2, 0, 1}
	for i, w := range want {
		idx, result := c.AcquireSwapchainImage(sc)
		if result != xrtypes.Success {
			t.Fatalf("acquire %d failed: %v", i, result)
		}
		if idx != w {
			t.Fatalf("acquire %d: expected index %d, got %d", i, w, idx)
		}
		if result := c.WaitSwapchainImage(sc); result != xrtypes.Success {
			t.Fatalf("wait %d failed: %v", i, result)
		}
		if result := c.ReleaseSwapchainImage(sc); result != xrtypes.Success {
			t.Fatalf("release %d failed: %v", i, result)
		}
	}
}

func TestAcquireSwapchainImageRejectsDoubleAcquire(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	sc, _ := c.CreateSwapchain(sess, colorSwapchainInfo())

	if _, result := c.AcquireSwapchainImage(sc); result != xrtypes.Success {
		t.Fatalf("first acquire failed: %v", result)
	}
	if _, result := c.AcquireSwapchainImage(sc); result != xrtypes.ErrCallOrderInvalid {
		t.Fatalf("expected ErrCallOrderInvalid, got %v", result)
	}
}

func TestReleaseSwapchainImageRejectsWithoutAcquire(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	sc, _ := c.CreateSwapchain(sess, colorSwapchainInfo())
	if result := c.ReleaseSwapchainImage(sc); result != xrtypes.ErrCallOrderInvalid {
		t.Fatalf("expected ErrCallOrderInvalid, got %v", result)
	}
}

func TestDestroySwapchainReleasesTextures(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	sc, _ := c.CreateSwapchain(sess, colorSwapchainInfo())
	if result := c.DestroySwapchain(sc); result != xrtypes.Success {
		t.Fatalf("DestroySwapchain failed: %v", result)
	}
	if _, result := c.AcquireSwapchainImage(sc); result != xrtypes.ErrHandleInvalid {
		t.Fatalf("expected ErrHandleInvalid after destroy, got %v", result)
	}
}

func TestEnumerateSwapchainFormatsTwoCall(t *testing.T) {
	c := newTestCore()
	_, _, sess := createTestSession(t, c)
	n, _, result := c.EnumerateSwapchainFormats(sess, 0)
	if result != xrtypes.Success || n != 2 {
		t.Fatalf("expected count 2, got %d/%v", n, result)
	}
	_, formats, result := c.EnumerateSwapchainFormats(sess, 2)
	if result != xrtypes.Success || len(formats) != 2 {
		t.Fatalf("expected 2 formats, got %v/%v", formats, result)
	}
}
