// Package pipeline bridges device-layer frame callbacks to swapchain
// textures: a mutex-protected cache of the latest RGB/depth frames, a
// byte-exact RGB→BGRA8 conversion, and an uploader that snapshots the
// cache and pushes it through the graphics helper without holding the
// cache lock during the GPU call.
package pipeline

import "sync"

// Cache holds the most recently received RGB and depth frame for one
// session. Buffers are preallocated at NewCache and never reallocated;
// writes and snapshots copy into/out of them under mu.
type Cache struct {
	mu     sync.Mutex
	width  int
	height int

	rgb        []byte
	rgbValid   bool
	rgbStamp   uint32
	depth      []uint16
	depthValid bool
	depthStamp uint32
}

// NewCache allocates a cache sized for width x height frames.
func NewCache(width, height int) *Cache {
	return &Cache{
		width:  width,
		height: height,
		rgb:    make([]byte, width*height*3),
		depth:  make([]uint16, width*height),
	}
}

// WriteRGB copies buf into the cache's RGB buffer and marks it valid.
// Called from the device's video callback; must not allocate or block.
// buf must be exactly width*height*3 bytes.
func (c *Cache) WriteRGB(buf []byte, timestamp uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := copy(c.rgb, buf)
	if n < len(c.rgb) {
		// Short buffer from the driver: leave the tail untouched but do
		// not mark valid on a partial frame.
		return
	}
	c.rgbStamp = timestamp
	c.rgbValid = true
}

// WriteDepth copies buf into the cache's depth buffer and marks it
// valid. Called from the device's depth callback under the same
// constraints as WriteRGB.
func (c *Cache) WriteDepth(buf []uint16, timestamp uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := copy(c.depth, buf)
	if n < len(c.depth) {
		return
	}
	c.depthStamp = timestamp
	c.depthValid = true
}

// SnapshotRGB copies the current RGB buffer into dst (which must be at
// least width*height*3 bytes) and reports whether the cache held valid
// data. The mutex is held only for the copy, never across I/O.
func (c *Cache) SnapshotRGB(dst []byte) (timestamp uint32, valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.rgbValid {
		return 0, false
	}
	copy(dst, c.rgb)
	return c.rgbStamp, true
}

// SnapshotDepth copies the current depth buffer into dst (which must be
// at least width*height samples) and reports whether the cache held
// valid data.
func (c *Cache) SnapshotDepth(dst []uint16) (timestamp uint32, valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.depthValid {
		return 0, false
	}
	copy(dst, c.depth)
	return c.depthStamp, true
}

// Dimensions returns the frame size the cache was constructed with.
func (c *Cache) Dimensions() (width, height int) {
	return c.width, c.height
}
