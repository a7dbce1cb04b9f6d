package pipeline

// RGBToBGRA converts a tightly packed W*H*3 RGB buffer into a
// preallocated W*H*4 BGRA buffer, dst, writing (B,G,R,255) for each
// source (R,G,B) triple. The mapping is bijective on each pixel's color
// channels: BGRAToRGB inverts it.
func RGBToBGRA(rgb []byte, dst []byte) {
	pixels := len(rgb) / 3
	for i := 0; i < pixels; i++ {
		r := rgb[i*3]
		g := rgb[i*3+1]
		b := rgb[i*3+2]
		dst[i*4] = b
		dst[i*4+1] = g
		dst[i*4+2] = r
		dst[i*4+3] = 255
	}
}

// BGRAToRGB inverts RGBToBGRA, recovering the original (R,G,B) triples
// from a BGRA buffer and discarding the alpha channel. Used only by
// tests to assert the conversion is bijective.
func BGRAToRGB(bgra []byte, dst []byte) {
	pixels := len(bgra) / 4
	for i := 0; i < pixels; i++ {
		b := bgra[i*4]
		g := bgra[i*4+1]
		r := bgra[i*4+2]
		dst[i*3] = r
		dst[i*3+1] = g
		dst[i*3+2] = b
	}
}

// DepthToBytes serializes a depth buffer to little-endian bytes with no
// value transformation (the 11-bit samples already sit in a 16-bit
// container). dst must be at least 2*len(depth) bytes.
func DepthToBytes(depth []uint16, dst []byte) {
	for i, v := range depth {
		dst[i*2] = byte(v)
		dst[i*2+1] = byte(v >> 8)
	}
}
