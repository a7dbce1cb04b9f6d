package pipeline

import (
	"bytes"
	"testing"
)

func TestRGBToBGRA_2x1(t *testing.T) {
	rgb := []byte{
		10, 20, 30,
		40, 50, 60,
	}
	dst := make([]byte, 2*4)
	RGBToBGRA(rgb, dst)

	want := []byte{
		30, 20, 10, 255,
		60, 50, 40, 255,
	}
	if !bytes.Equal(dst, want) {
		t.Fatalf("RGBToBGRA = %v, want %v", dst, want)
	}
}

func TestRGBToBGRA_BGRAToRGB_RoundTrip(t *testing.T) {
	rgb := []byte{
		1, 2, 3,
		250, 251, 252,
		0, 0, 0,
		255, 255, 255,
	}
	bgra := make([]byte, 4*4)
	RGBToBGRA(rgb, bgra)

	back := make([]byte, 4*3)
	BGRAToRGB(bgra, back)

	if !bytes.Equal(back, rgb) {
		t.Fatalf("round trip = %v, want %v", back, rgb)
	}
}

func TestDepthToBytesLittleEndian(t *testing.T) {
	depth := []uint16{0x0102, 0xFFFF, 0x0000}
	dst := make([]byte, 6)
	DepthToBytes(depth, dst)

	want := []byte{0x02, 0x01, 0xFF, 0xFF, 0x00, 0x00}
	if !bytes.Equal(dst, want) {
		t.Fatalf("DepthToBytes = %v, want %v", dst, want)
	}
}
