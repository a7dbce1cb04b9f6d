package graphics

import (
	"sync"
	"sync/atomic"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// fakeTexture is a plain CPU-side stand-in for a Metal texture.
type fakeTexture struct {
	width, height int
	format        xrtypes.SwapchainFormat
	pixels        []byte
	released      bool
}

// fakeBackend implements backend without touching any graphics API. It
// is the real backend on every non-darwin build and the only backend
// reachable from this package's tests — the only place fabricated
// sentinel command queue pointers used by unit tests need to be
// recognizable by the helper is here, and since
// this backend never dereferences the queue at all, any value — real or
// fabricated — is accepted uniformly.
type fakeBackend struct {
	mu       sync.Mutex
	textures map[Handle]*fakeTexture
	nextID   atomic.Uint64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{textures: make(map[Handle]*fakeTexture)}
}

func (f *fakeBackend) CreateTexture(queue CommandQueue, width, height int, format xrtypes.SwapchainFormat) (Handle, error) {
	bpp := BytesPerPixel(format)
	if bpp == 0 {
		return 0, ErrTextureCreateFailed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := Handle(f.nextID.Add(1))
	f.textures[id] = &fakeTexture{
		width:  width,
		height: height,
		format: format,
		pixels: make([]byte, width*height*bpp),
	}
	return id, nil
}

func (f *fakeBackend) Upload(h Handle, offsetX, offsetY, width, height int, pixels []byte, bytesPerRow int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tex, ok := f.textures[h]
	if !ok || tex.released {
		return ErrInvalidHandle
	}
	bpp := BytesPerPixel(tex.format)
	if bytesPerRow == 0 {
		bytesPerRow = width * bpp
	}
	if offsetX < 0 || offsetY < 0 || offsetX+width > tex.width || offsetY+height > tex.height {
		return ErrUploadFailed
	}
	dstStride := tex.width * bpp
	for row := 0; row < height; row++ {
		srcStart := row * bytesPerRow
		srcEnd := srcStart + width*bpp
		if srcEnd > len(pixels) {
			return ErrUploadFailed
		}
		dstStart := (offsetY+row)*dstStride + offsetX*bpp
		copy(tex.pixels[dstStart:dstStart+width*bpp], pixels[srcStart:srcEnd])
	}
	return nil
}

func (f *fakeBackend) Release(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tex, ok := f.textures[h]
	if !ok || tex.released {
		return ErrInvalidHandle
	}
	tex.released = true
	delete(f.textures, h)
	return nil
}

// snapshot returns a copy of the texture's current pixel buffer, for test
// assertions only.
func (f *fakeBackend) snapshot(h Handle) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tex, ok := f.textures[h]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(tex.pixels))
	copy(out, tex.pixels)
	return out, true
}
