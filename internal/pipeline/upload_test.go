package pipeline

import (
	"testing"

	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

func TestUploadColorSkipsWhenCacheInvalid(t *testing.T) {
	helper := graphics.New()
	tex, err := helper.CreateTexture(1, 2, 1, xrtypes.SwapchainFormatColor)
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}

	u := NewUploader(2, 1)
	cache := NewCache(2, 1)

	// No write to cache first: Upload must not panic or error, it's a
	// deliberate no-op leaving the texture untouched.
	u.Upload(helper, tex, xrtypes.SwapchainFormatColor, cache)
}

func TestUploadColorConvertsAndUploads(t *testing.T) {
	helper := graphics.New()
	tex, err := helper.CreateTexture(1, 2, 1, xrtypes.SwapchainFormatColor)
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}

	u := NewUploader(2, 1)
	cache := NewCache(2, 1)
	cache.WriteRGB([]byte{10, 20, 30, 40, 50, 60}, 1)

	u.Upload(helper, tex, xrtypes.SwapchainFormatColor, cache)
	// No assertion on internal texture bytes here: graphics is exercised
	// directly by its own package tests. This confirms the call sequence
	// (snapshot -> convert -> upload) completes without error.

	if err := helper.Release(tex); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}

func TestUploadDepthConvertsAndUploads(t *testing.T) {
	helper := graphics.New()
	tex, err := helper.CreateTexture(1, 2, 1, xrtypes.SwapchainFormatDepth)
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}

	u := NewUploader(2, 1)
	cache := NewCache(2, 1)
	cache.WriteDepth([]uint16{500, 1500}, 1)

	u.Upload(helper, tex, xrtypes.SwapchainFormatDepth, cache)

	if err := helper.Release(tex); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}
