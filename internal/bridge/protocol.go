package bridge

import "encoding/json"

// ProtocolVersion is reported in every hello message.
const ProtocolVersion = "1.0"

// Message type discriminators.
const (
	TypeHello       = "hello"
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypeStatus      = "status"
	TypeError       = "error"
	TypeGoodbye     = "goodbye"

	TypeMotorSetTilt   = "motor.set_tilt"
	TypeMotorSetLED    = "motor.set_led"
	TypeMotorReset     = "motor.reset"
	TypeMotorGetStatus = "motor.get_status"
	TypeMotorStatus    = "motor.status"
	TypeMotorError     = "motor.error"
)

// Error codes used in the error and motor.error vocabularies.
const (
	ErrCodeDeviceDisconnected = "DEVICE_DISCONNECTED"
	ErrCodeDeviceNotFound     = "DEVICE_NOT_FOUND"
	ErrCodeStreamFailure      = "STREAM_FAILURE"
	ErrCodeProtocolError      = "PROTOCOL_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeMotorFailed        = "MOTOR_FAILED"
)

// envelope is decoded first to learn a message's type before unmarshaling
// its full payload.
type envelope struct {
	Type string `json:"type"`
}

// StreamInfo describes one stream's shape in the hello message.
type StreamInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	BytesPerFrame int    `json:"bytes_per_frame"`
	FrameRate     int    `json:"frame_rate"`
}

// Capabilities names the streams a connection may subscribe to.
type Capabilities struct {
	Streams []string `json:"streams"`
}

// HelloMessage is sent once, immediately on connect.
type HelloMessage struct {
	Type            string                `json:"type"`
	ProtocolVersion string                `json:"protocol_version"`
	Capabilities    Capabilities          `json:"capabilities"`
	Streams         map[string]StreamInfo `json:"streams"`
}

// SubscribeMessage requests that one or more streams start flowing.
type SubscribeMessage struct {
	Type    string   `json:"type"`
	Streams []string `json:"streams"`
}

// UnsubscribeMessage pauses one or more streams without closing the
// connection.
type UnsubscribeMessage struct {
	Type    string   `json:"type"`
	Streams []string `json:"streams"`
}

// StatusMessage is emitted periodically with fan-out health and host load.
type StatusMessage struct {
	Type          string  `json:"type"`
	DroppedFrames uint64  `json:"dropped_frames"`
	SentFrames    uint64  `json:"sent_frames"`
	ServerLoad    float64 `json:"server_load"`
}

// ErrorMessage reports a stream-level or protocol-level error.
type ErrorMessage struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// GoodbyeMessage precedes a clean server-initiated close.
type GoodbyeMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// MotorSetTiltMessage requests a tilt angle change, in whole degrees.
type MotorSetTiltMessage struct {
	Type  string `json:"type"`
	Angle int    `json:"angle"`
}

// MotorSetLEDMessage requests an LED state change.
type MotorSetLEDMessage struct {
	Type  string `json:"type"`
	State string `json:"state"`
}

// MotorStatusMessage reports the motor's current tilt and movement state;
// pushed unsolicited while the motor is moving, or in reply to
// motor.get_status.
type MotorStatusMessage struct {
	Type   string `json:"type"`
	Angle  int    `json:"angle"`
	Status string `json:"status"`
}

// MotorErrorMessage reports a rejected or failed motor command.
type MotorErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func marshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Every type passed to marshal in this package is a fixed struct
		// with only JSON-safe field types; a marshal failure here would be
		// a programming error, not a runtime condition to recover from.
		panic("bridge: marshal: " + err.Error())
	}
	return data
}
