//go:build darwin

package graphics

/*
#cgo CFLAGS: -Werror -xobjective-c -fmodules -fobjc-arc
#cgo LDFLAGS: -framework CoreGraphics

@import Metal;

#include <CoreFoundation/CoreFoundation.h>
#include <Metal/Metal.h>

static CFTypeRef xr_device_from_queue(CFTypeRef queueRef) {
	@autoreleasepool {
		id<MTLCommandQueue> queue = (__bridge id<MTLCommandQueue>)queueRef;
		return CFBridgingRetain(queue.device);
	}
}

static CFTypeRef xr_new_texture(CFTypeRef devRef, NSUInteger width, NSUInteger height, MTLPixelFormat format) {
	@autoreleasepool {
		id<MTLDevice> dev = (__bridge id<MTLDevice>)devRef;
		MTLTextureDescriptor *desc = [MTLTextureDescriptor texture2DDescriptorWithPixelFormat:format width:width height:height mipmapped:NO];
		desc.usage = MTLTextureUsageShaderRead | MTLTextureUsageRenderTarget;
		desc.storageMode = MTLStorageModeManaged;
		return CFBridgingRetain([dev newTextureWithDescriptor:desc]);
	}
}

static void xr_texture_replace_region(CFTypeRef texRef, NSUInteger x, NSUInteger y, NSUInteger w, NSUInteger h, const void *bytes, NSUInteger bytesPerRow) {
	@autoreleasepool {
		id<MTLTexture> tex = (__bridge id<MTLTexture>)texRef;
		MTLRegion region = MTLRegionMake2D(x, y, w, h);
		[tex replaceRegion:region mipmapLevel:0 withBytes:bytes bytesPerRow:bytesPerRow];
	}
}
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// metalTexture owns one CFBridgingRetain'd MTLTexture reference. release
// must be called exactly once; Go never frees the C side implicitly.
type metalTexture struct {
	ref           C.CFTypeRef
	width, height int
	format        xrtypes.SwapchainFormat
}

// metalBackend implements backend against the real Metal framework.
// Texture handles are small integers, not pointers, so Handle never
// exposes a CFTypeRef value to callers outside this file — the graphics
// helper always returns an owned handle.
type metalBackend struct {
	mu       sync.Mutex
	textures map[Handle]*metalTexture
	nextID   atomic.Uint64

	devMu   sync.Mutex
	devices map[CommandQueue]C.CFTypeRef
}

func newPlatformBackend() backend {
	return &metalBackend{
		textures: make(map[Handle]*metalTexture),
		devices:  make(map[CommandQueue]C.CFTypeRef),
	}
}

func (m *metalBackend) deviceForQueue(queue CommandQueue) C.CFTypeRef {
	m.devMu.Lock()
	defer m.devMu.Unlock()
	if dev, ok := m.devices[queue]; ok {
		return dev
	}
	dev := C.xr_device_from_queue(C.CFTypeRef(unsafe.Pointer(queue)))
	m.devices[queue] = dev
	return dev
}

func pixelFormatFor(format xrtypes.SwapchainFormat) C.MTLPixelFormat {
	switch format {
	case xrtypes.SwapchainFormatColor:
		return C.MTLPixelFormatBGRA8Unorm
	case xrtypes.SwapchainFormatDepth:
		return C.MTLPixelFormatR16Uint
	default:
		return 0
	}
}

func (m *metalBackend) CreateTexture(queue CommandQueue, width, height int, format xrtypes.SwapchainFormat) (Handle, error) {
	if queue == 0 {
		return 0, ErrTextureCreateFailed
	}
	dev := m.deviceForQueue(queue)
	if dev == 0 {
		return 0, ErrTextureCreateFailed
	}

	mformat := pixelFormatFor(format)
	ref := C.xr_new_texture(dev, C.NSUInteger(width), C.NSUInteger(height), mformat)
	if ref == 0 {
		return 0, ErrTextureCreateFailed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := Handle(m.nextID.Add(1))
	m.textures[id] = &metalTexture{ref: ref, width: width, height: height, format: format}
	return id, nil
}

func (m *metalBackend) Upload(h Handle, offsetX, offsetY, width, height int, pixels []byte, bytesPerRow int) error {
	if len(pixels) == 0 {
		return nil
	}
	m.mu.Lock()
	tex, ok := m.textures[h]
	m.mu.Unlock()
	if !ok {
		return ErrInvalidHandle
	}

	bpp := BytesPerPixel(tex.format)
	if bytesPerRow == 0 {
		bytesPerRow = width * bpp
	}
	if offsetX < 0 || offsetY < 0 || offsetX+width > tex.width || offsetY+height > tex.height {
		return ErrUploadFailed
	}

	C.xr_texture_replace_region(
		tex.ref,
		C.NSUInteger(offsetX), C.NSUInteger(offsetY),
		C.NSUInteger(width), C.NSUInteger(height),
		unsafe.Pointer(&pixels[0]),
		C.NSUInteger(bytesPerRow),
	)
	return nil
}

func (m *metalBackend) Release(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tex, ok := m.textures[h]
	if !ok {
		return ErrInvalidHandle
	}
	C.CFRelease(tex.ref)
	delete(m.textures, h)
	return nil
}
