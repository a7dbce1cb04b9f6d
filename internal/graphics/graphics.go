// Package graphics is a thin, platform-specific wrapper over the
// application-provided Metal command queue: create a 2-D texture of a
// given pixel format, upload a CPU buffer into it, release it. It is the
// only package in this module that touches the graphics API directly;
// internal/pipeline and internal/xrcore both depend on the Helper
// interface, never on a concrete backend, so they can be exercised on
// any platform against the fake backend.
package graphics

import (
	"errors"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// ErrTextureCreateFailed is returned when the platform texture allocator
// rejects a CreateTexture call (e.g. the underlying
// newTextureWithDescriptor: call returns nil).
var ErrTextureCreateFailed = errors.New("graphics: texture creation failed")

// ErrUploadFailed is returned when a pixel upload into an existing
// texture fails. Uploads fail closed: the caller must treat
// the texture's contents as unchanged and drop the frame rather than
// retry mid-upload.
var ErrUploadFailed = errors.New("graphics: texture upload failed")

// ErrInvalidHandle is returned by Upload/Release when passed a handle
// this Helper did not create (including a handle already released).
var ErrInvalidHandle = errors.New("graphics: invalid texture handle")

// CommandQueue is the opaque Metal command queue pointer the application
// supplies in its graphics binding. The Helper never dereferences it
// directly: it is passed straight to the platform backend's device
// resolution. The fake backend used on non-darwin builds never
// dereferences it, so fabricated values work there. The darwin Metal
// backend has no sentinel range: it treats every non-zero value as a real
// MTLCommandQueue. A CommandQueue value of 0 is never valid.
type CommandQueue uintptr

// Handle identifies one texture owned by a Helper. The zero Handle never
// denotes a live texture.
type Handle uintptr

// backend is implemented by the real Metal binding (graphics_darwin.go)
// and by the fake backend (fake_backend.go, selected by graphics_other.go)
// used on every other platform and in unit tests.
type backend interface {
	CreateTexture(queue CommandQueue, width, height int, format xrtypes.SwapchainFormat) (Handle, error)
	Upload(h Handle, offsetX, offsetY, width, height int, pixels []byte, bytesPerRow int) error
	Release(h Handle) error
}

// Helper is the Graphics Helper component. It is safe for
// concurrent use: CreateTexture/Upload/Release may be called from any
// goroutine, though callers are responsible for not racing Upload and
// Release on the same handle.
type Helper struct {
	b backend
}

// New constructs a Helper bound to the platform Metal backend.
func New() *Helper {
	return &Helper{b: newPlatformBackend()}
}

// newWithBackend is used by tests that need an explicit fake backend.
func newWithBackend(b backend) *Helper {
	return &Helper{b: b}
}

// CreateTexture allocates a 2-D texture of the given pixel format.
// format must be xrtypes.SwapchainFormatColor (native BGRA8-unorm) or
// xrtypes.SwapchainFormatDepth (16-bit unsigned red); any other value is
// rejected without reaching the platform backend.
func (g *Helper) CreateTexture(queue CommandQueue, width, height int, format xrtypes.SwapchainFormat) (Handle, error) {
	if format != xrtypes.SwapchainFormatColor && format != xrtypes.SwapchainFormatDepth {
		return 0, ErrInvalidHandle
	}
	if width <= 0 || height <= 0 {
		return 0, ErrInvalidHandle
	}
	return g.b.CreateTexture(queue, width, height, format)
}

// Upload writes pixels into the region [offsetX,offsetY)-[offsetX+width,
// offsetY+height) of the texture named by h. bytesPerRow is the stride
// of pixels; if zero it defaults to width times the format's bytes per
// pixel, i.e. a tightly packed upload.
func (g *Helper) Upload(h Handle, offsetX, offsetY, width, height int, pixels []byte, bytesPerRow int) error {
	if h == 0 {
		return ErrInvalidHandle
	}
	return g.b.Upload(h, offsetX, offsetY, width, height, pixels, bytesPerRow)
}

// Release frees the texture named by h. Must be called exactly once per
// texture, at swapchain destruction.
func (g *Helper) Release(h Handle) error {
	if h == 0 {
		return ErrInvalidHandle
	}
	return g.b.Release(h)
}

// BytesPerPixel returns the native byte stride of one pixel in format.
func BytesPerPixel(format xrtypes.SwapchainFormat) int {
	switch format {
	case xrtypes.SwapchainFormatColor:
		return 4
	case xrtypes.SwapchainFormatDepth:
		return 2
	default:
		return 0
	}
}
