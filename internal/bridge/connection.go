package bridge

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kinectxr/runtime/internal/logging"
)

var log = logging.L("bridge")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	sendQueueDepth   = 64
	binaryQueueDepth = 4
)

// subscriptionSet tracks which named streams a connection currently
// wants pushed to it.
type subscriptionSet map[string]bool

// connection is one accepted WebSocket client of the bridge server. Its
// read/write pump shape mirrors a WebSocket client's pump pair, adapted
// to the server side: writePump drains two outgoing queues (JSON
// control messages, binary frames) plus a ping ticker, and readPump
// only ever receives control/command messages — the server never reads
// binary frames from a client.
type connection struct {
	id   string
	conn *websocket.Conn

	send   chan []byte
	binary chan []byte
	done   chan struct{}
	stop   sync.Once

	subMu sync.Mutex
	subs  subscriptionSet

	motorLimiter motorRateLimiter

	sentFrames    atomic.Uint64
	droppedFrames atomic.Uint64
}

func newConnection(id string, conn *websocket.Conn) *connection {
	return &connection{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendQueueDepth),
		binary: make(chan []byte, binaryQueueDepth),
		done:   make(chan struct{}),
		subs:   make(subscriptionSet),
	}
}

// close tears down the connection exactly once, safe to call from any
// goroutine (the read pump on a read error, the server on shutdown).
func (c *connection) close() {
	c.stop.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// sendJSON enqueues v for delivery as a text message. Non-blocking: if
// the send queue is full the message is dropped rather than stalling
// the caller, matching the fail-fast backpressure policy every other
// outgoing path in this package uses.
func (c *connection) sendJSON(v any) {
	data := marshal(v)
	select {
	case c.send <- data:
	case <-c.done:
	default:
		log.Warn("send queue full, dropping message", "connection", c.id)
	}
}

// sendFrame enqueues one binary frame. Drops and counts the drop if the
// binary queue is full — a slow reader should lose frames, not stall
// the broadcaster for every other connection.
func (c *connection) sendFrame(frameID uint32, streamType uint16, payload []byte) {
	msg := encodeFrame(frameID, streamType, payload)
	select {
	case c.binary <- msg:
		c.sentFrames.Add(1)
	case <-c.done:
	default:
		c.droppedFrames.Add(1)
	}
}

func (c *connection) subscribed(stream string) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.subs[stream]
}

func (c *connection) setSubscribed(streams []string, on bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, s := range streams {
		if on {
			c.subs[s] = true
		} else {
			delete(c.subs, s)
		}
	}
}

func (c *connection) metrics() (sent, dropped uint64) {
	return c.sentFrames.Load(), c.droppedFrames.Load()
}

// writePump owns the connection's single writer. gorilla/websocket
// forbids concurrent writes on one *websocket.Conn, so every outgoing
// byte — control JSON, binary frames, and keepalive pings — funnels
// through this one goroutine.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Warn("write error", "connection", c.id, "error", err)
				return
			}

		case frame := <-c.binary:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				log.Warn("binary write error", "connection", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump blocks reading control messages until the connection closes
// or errors, dispatching each decoded message to handle. Only one
// readPump runs per connection, so handle may safely touch connection
// state that only the read side mutates.
func (c *connection) readPump(handle func(c *connection, msgType string, raw []byte)) {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read error", "connection", c.id, "error", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, Code: ErrCodeProtocolError, Message: "malformed json", Recoverable: true})
			continue
		}
		handle(c, env.Type, raw)
	}
}
