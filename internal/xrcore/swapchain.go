package xrcore

import (
	"sync"

	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// Swapchain is a ring of graphics textures for composition. Image
// indices cycle 0->1->2->0; at most one is acquired
// at a time.
type Swapchain struct {
	session xrtypes.Handle
	width   int
	height  int
	format  xrtypes.SwapchainFormat

	mu           sync.Mutex
	textures     [xrtypes.SwapchainImageCount]graphics.Handle
	currentIndex int
	acquired     bool
}

// SwapchainImage wraps one texture handle in the platform-image record
// shape EnumerateSwapchainImages returns.
type SwapchainImage struct {
	Texture graphics.Handle
}

// EnumerateSwapchainFormats implements the two-call idiom over the two
// supported pixel formats, Color then Depth.
func (c *Core) EnumerateSwapchainFormats(sessionHandle xrtypes.Handle, capacityInput int) (int, []xrtypes.SwapchainFormat, xrtypes.Result) {
	if _, ok := c.sessions.get(sessionHandle); !ok {
		return 0, nil, xrtypes.ErrHandleInvalid
	}
	formats := []xrtypes.SwapchainFormat{xrtypes.SwapchainFormatColor, xrtypes.SwapchainFormatDepth}
	return twoCall(capacityInput, formats)
}

// CreateSwapchain validates info and allocates three textures through
// the graphics helper.
func (c *Core) CreateSwapchain(sessionHandle xrtypes.Handle, info SwapchainCreateInfo) (xrtypes.Handle, xrtypes.Result) {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.NullHandle, xrtypes.ErrHandleInvalid
	}
	if info.StructType != StructTypeSwapchainCreateInfo {
		return xrtypes.NullHandle, xrtypes.ErrValidationFailure
	}
	if info.Format != xrtypes.SwapchainFormatColor && info.Format != xrtypes.SwapchainFormatDepth {
		return xrtypes.NullHandle, xrtypes.ErrSwapchainFormatUnsupported
	}
	if info.Width > xrtypes.MaxSwapchainWidth || info.Height > xrtypes.MaxSwapchainHeight || info.Width <= 0 || info.Height <= 0 {
		return xrtypes.NullHandle, xrtypes.ErrSizeInsufficient
	}
	if info.SampleCount != 1 || info.ArraySize != 1 {
		return xrtypes.NullHandle, xrtypes.ErrFeatureUnsupported
	}
	switch info.Format {
	case xrtypes.SwapchainFormatColor:
		if info.UsageFlags&xrtypes.SwapchainUsageColorAttachment == 0 {
			return xrtypes.NullHandle, xrtypes.ErrFeatureUnsupported
		}
	case xrtypes.SwapchainFormatDepth:
		if info.UsageFlags&xrtypes.SwapchainUsageDepthStencilAttachment == 0 {
			return xrtypes.NullHandle, xrtypes.ErrFeatureUnsupported
		}
	}

	sc := &Swapchain{
		session: sessionHandle,
		width:   info.Width,
		height:  info.Height,
		format:  info.Format,
	}
	for i := 0; i < xrtypes.SwapchainImageCount; i++ {
		tex, err := c.graphics.CreateTexture(sess.commandQueue, info.Width, info.Height, info.Format)
		if err != nil {
			for j := 0; j < i; j++ {
				c.graphics.Release(sc.textures[j])
			}
			return xrtypes.NullHandle, xrtypes.ErrGraphicsDeviceInvalid
		}
		sc.textures[i] = tex
	}

	h := c.swapchains.insert(sc)
	sess.mu.Lock()
	sess.swapchains[h] = struct{}{}
	sess.mu.Unlock()
	return h, xrtypes.Success
}

// EnumerateSwapchainImages implements the two-call idiom over the
// swapchain's three texture handles.
func (c *Core) EnumerateSwapchainImages(swapchainHandle xrtypes.Handle, capacityInput int) (int, []SwapchainImage, xrtypes.Result) {
	sc, ok := c.swapchains.get(swapchainHandle)
	if !ok {
		return 0, nil, xrtypes.ErrHandleInvalid
	}
	sc.mu.Lock()
	images := make([]SwapchainImage, xrtypes.SwapchainImageCount)
	for i, tex := range sc.textures {
		images[i] = SwapchainImage{Texture: tex}
	}
	sc.mu.Unlock()
	return twoCall(capacityInput, images)
}

// AcquireSwapchainImage returns the current image index, uploads the
// latest cached frame into it via the frame pipeline, and advances the
// index (i+1) mod 3. Fails with ErrCallOrderInvalid if an image is
// already acquired.
func (c *Core) AcquireSwapchainImage(swapchainHandle xrtypes.Handle) (int, xrtypes.Result) {
	sc, ok := c.swapchains.get(swapchainHandle)
	if !ok {
		return 0, xrtypes.ErrHandleInvalid
	}

	sc.mu.Lock()
	if sc.acquired {
		sc.mu.Unlock()
		return 0, xrtypes.ErrCallOrderInvalid
	}
	index := sc.currentIndex
	texture := sc.textures[index]
	sc.acquired = true
	sc.currentIndex = (sc.currentIndex + 1) % xrtypes.SwapchainImageCount
	sc.mu.Unlock()

	if sess, ok := c.sessions.get(sc.session); ok {
		sess.uploader.Upload(c.graphics, texture, sc.format, sess.cache)
	}

	return index, xrtypes.Success
}

// WaitSwapchainImage always succeeds immediately: this runtime is a
// single-producer model with no GPU pipelining, so there is never a
// reason to wait.
func (c *Core) WaitSwapchainImage(swapchainHandle xrtypes.Handle) xrtypes.Result {
	if _, ok := c.swapchains.get(swapchainHandle); !ok {
		return xrtypes.ErrHandleInvalid
	}
	return xrtypes.Success
}

// ReleaseSwapchainImage clears the acquired flag. Fails with
// ErrCallOrderInvalid if nothing was acquired.
func (c *Core) ReleaseSwapchainImage(swapchainHandle xrtypes.Handle) xrtypes.Result {
	sc, ok := c.swapchains.get(swapchainHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.acquired {
		return xrtypes.ErrCallOrderInvalid
	}
	sc.acquired = false
	return xrtypes.Success
}

// DestroySwapchain releases the swapchain's textures and removes it.
func (c *Core) DestroySwapchain(swapchainHandle xrtypes.Handle) xrtypes.Result {
	sc, ok := c.swapchains.get(swapchainHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	c.releaseSwapchainTextures(sc)
	c.swapchains.delete(swapchainHandle)
	if sess, ok := c.sessions.get(sc.session); ok {
		sess.mu.Lock()
		delete(sess.swapchains, swapchainHandle)
		sess.mu.Unlock()
	}
	return xrtypes.Success
}

func (c *Core) releaseSwapchainTextures(sc *Swapchain) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for i, tex := range sc.textures {
		if tex != 0 {
			c.graphics.Release(tex)
			sc.textures[i] = 0
		}
	}
}
