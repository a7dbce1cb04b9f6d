package bridge

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeDecodesType(t *testing.T) {
	raw := []byte(`{"type":"subscribe","streams":["rgb"]}`)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != TypeSubscribe {
		t.Fatalf("Type = %q, want %q", env.Type, TypeSubscribe)
	}
}

func TestMarshalProducesValidJSON(t *testing.T) {
	data := marshal(HelloMessage{
		Type:            TypeHello,
		ProtocolVersion: ProtocolVersion,
		Capabilities:    Capabilities{Streams: []string{"rgb", "depth"}},
		Streams:         map[string]StreamInfo{},
	})

	var decoded HelloMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal marshaled hello: %v", err)
	}
	if decoded.Type != TypeHello || decoded.ProtocolVersion != ProtocolVersion {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestMarshalPanicsOnUnsupportedValue(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on unmarshalable value")
		}
	}()
	marshal(func() {})
}
