//go:build !darwin

package graphics

// newPlatformBackend returns the fake backend on every platform without a
// native Metal binding (graphics_darwin.go covers darwin). It backs
// textures with plain Go byte slices, which is enough to exercise
// internal/pipeline's conversion and upload paths without a GPU.
func newPlatformBackend() backend {
	return newFakeBackend()
}
