package bridge

import (
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kinectxr/runtime/internal/device"
)

// newTestServer spins up a mock-source Server on an httptest listener
// and returns it already streaming, along with a cleanup func.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	s := NewMockServer("", "")
	if err := s.startSource(); err != nil {
		t.Fatalf("startSource: %v", err)
	}
	go s.broadcastLoop()
	go s.statusLoop()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown()
		s.stopSource()
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + s.path
	return s, wsURL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHelloHandshakeOnConnect(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var hello HelloMessage
	if err := json.Unmarshal(raw, &hello); err != nil {
		t.Fatalf("unmarshal hello: %v", err)
	}
	if hello.Type != TypeHello {
		t.Fatalf("Type = %q, want %q", hello.Type, TypeHello)
	}
	if hello.ProtocolVersion != ProtocolVersion {
		t.Fatalf("ProtocolVersion = %q, want %q", hello.ProtocolVersion, ProtocolVersion)
	}

	wantStreams := []string{"rgb", "depth"}
	if !reflect.DeepEqual(hello.Capabilities.Streams, wantStreams) {
		t.Fatalf("Capabilities.Streams = %v, want %v", hello.Capabilities.Streams, wantStreams)
	}

	rgb, ok := hello.Streams["rgb"]
	if !ok {
		t.Fatal("hello message missing rgb stream descriptor")
	}
	if want := device.MaxKinectWidth * device.MaxKinectHeight * 3; rgb.BytesPerFrame != want {
		t.Fatalf("rgb BytesPerFrame = %d, want %d", rgb.BytesPerFrame, want)
	}

	depth, ok := hello.Streams["depth"]
	if !ok {
		t.Fatal("hello message missing depth stream descriptor")
	}
	if want := device.MaxKinectWidth * device.MaxKinectHeight * 2; depth.BytesPerFrame != want {
		t.Fatalf("depth BytesPerFrame = %d, want %d", depth.BytesPerFrame, want)
	}
}

// TestSubscribeDepthReceivesBinaryFrames drives the subscribe-to-depth
// scenario: after subscribing, the client must see binary frames whose
// header reports stream_type == StreamTypeDepth, a payload length of
// exactly width*height*2 bytes, and a strictly increasing frame_id.
func TestSubscribeDepthReceivesBinaryFrames(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	sub := marshal(SubscribeMessage{Type: TypeSubscribe, Streams: []string{"depth"}})
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}

	wantLen := device.MaxKinectWidth*device.MaxKinectHeight*2 + frameHeaderSize
	var lastFrameID uint32
	var sawFirst bool

	for i := 0; i < 5; i++ {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue // a status message may interleave
		}

		if len(raw) != wantLen {
			t.Fatalf("frame length = %d, want %d", len(raw), wantLen)
		}
		frameID, streamType, ok := decodeFrameHeader(raw)
		if !ok {
			t.Fatal("decodeFrameHeader: ok = false")
		}
		if streamType != StreamTypeDepth {
			t.Fatalf("streamType = %#x, want %#x", streamType, StreamTypeDepth)
		}
		if sawFirst && frameID <= lastFrameID {
			t.Fatalf("frame_id did not increase: %d -> %d", lastFrameID, frameID)
		}
		lastFrameID = frameID
		sawFirst = true
	}
	if !sawFirst {
		t.Fatal("never received a binary depth frame")
	}
}

func TestUnsubscribedStreamReceivesNoFrames(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("expected a read timeout with no subscriptions active")
	}
}

func TestMotorCommandsRejectedInMockMode(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	cmd := marshal(MotorSetTiltMessage{Type: TypeMotorSetTilt, Angle: 10})
	if err := conn.WriteMessage(websocket.TextMessage, cmd); err != nil {
		t.Fatalf("write motor.set_tilt: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var motorErr MotorErrorMessage
	if err := json.Unmarshal(raw, &motorErr); err != nil {
		t.Fatalf("unmarshal motor error: %v", err)
	}
	if motorErr.Type != TypeMotorError || motorErr.Code != ErrCodeDeviceNotFound {
		t.Fatalf("got %+v, want type %q code %q", motorErr, TypeMotorError, ErrCodeDeviceNotFound)
	}
}

func TestUnknownMessageTypeReturnsProtocolError(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"not_a_real_type"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var errMsg ErrorMessage
	if err := json.Unmarshal(raw, &errMsg); err != nil {
		t.Fatalf("unmarshal error message: %v", err)
	}
	if errMsg.Type != TypeError || errMsg.Code != ErrCodeProtocolError {
		t.Fatalf("got %+v, want type %q code %q", errMsg, TypeError, ErrCodeProtocolError)
	}
}
