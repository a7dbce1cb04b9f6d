package bridge

import "encoding/binary"

// Stream type tags carried in byte 4-5 of the binary frame header.
const (
	StreamTypeRGB   uint16 = 0x0001
	StreamTypeDepth uint16 = 0x0002
)

// frameHeaderSize is the fixed 8-byte binary header every frame payload
// is prefixed with.
const frameHeaderSize = 8

// encodeFrame builds one binary WebSocket message: an 8-byte
// little-endian header (frame_id, stream_type, 2 reserved bytes) followed
// by payload verbatim.
func encodeFrame(frameID uint32, streamType uint16, payload []byte) []byte {
	msg := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(msg[0:4], frameID)
	binary.LittleEndian.PutUint16(msg[4:6], streamType)
	// bytes 6-7 reserved, left zero.
	copy(msg[frameHeaderSize:], payload)
	return msg
}

// decodeFrameHeader parses the fixed header off the front of msg. Used
// only by tests asserting the wire format; the server only ever encodes,
// never decodes, binary frames.
func decodeFrameHeader(msg []byte) (frameID uint32, streamType uint16, ok bool) {
	if len(msg) < frameHeaderSize {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(msg[0:4]), binary.LittleEndian.Uint16(msg[4:6]), true
}
