package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/kinectxr/runtime/internal/device"
	"github.com/kinectxr/runtime/internal/pipeline"
)

// broadcastInterval paces outgoing frames to every subscribed
// connection at the sensor's native rate.
const broadcastInterval = 33 * time.Millisecond

// statusInterval paces the periodic status message every connection
// receives regardless of subscription state.
const statusInterval = 5 * time.Second

// defaultPath is used when the caller passes an empty path to
// NewServer/NewMockServer, matching internal/config.Default's BridgePath.
const defaultPath = "/kinect"

var streamCapabilities = Capabilities{Streams: []string{"rgb", "depth"}}

var streamInfo = map[string]StreamInfo{
	"rgb": {
		Width: device.MaxKinectWidth, Height: device.MaxKinectHeight,
		Format: "rgb8", BytesPerFrame: device.MaxKinectWidth * device.MaxKinectHeight * 3, FrameRate: 30,
	},
	"depth": {
		Width: device.MaxKinectWidth, Height: device.MaxKinectHeight,
		Format: "depth16", BytesPerFrame: device.MaxKinectWidth * device.MaxKinectHeight * 2, FrameRate: 30,
	},
}

// Server fans out live Kinect RGB/depth frames and motor control to any
// number of WebSocket clients. It owns exactly one frame source — a
// real device or, in mock mode, a synthetic generator — decoupling the
// cost of driving the sensor from the number of subscribers.
type Server struct {
	addr     string
	path     string
	dev      *device.Device
	mock     *mockSource
	cache    *pipeline.Cache
	upgrader websocket.Upgrader

	httpServer *http.Server

	connsMu sync.Mutex
	conns   map[string]*connection

	frameID atomic.Uint32

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewServer builds a Server that streams from a live device. dev must
// not yet be initialized; Server takes ownership of its lifecycle. path
// is the WebSocket endpoint path; an empty path defaults to "/kinect".
func NewServer(addr, path string, dev *device.Device) *Server {
	cache := pipeline.NewCache(device.MaxKinectWidth, device.MaxKinectHeight)
	return newServer(addr, path, dev, nil, cache)
}

// NewMockServer builds a Server that streams a synthetic animated
// pattern instead of reading from hardware, for development and testing
// without a Kinect attached. path is the WebSocket endpoint path; an
// empty path defaults to "/kinect".
func NewMockServer(addr, path string) *Server {
	cache := pipeline.NewCache(device.MaxKinectWidth, device.MaxKinectHeight)
	return newServer(addr, path, nil, newMockSource(cache), cache)
}

func newServer(addr, path string, dev *device.Device, mock *mockSource, cache *pipeline.Cache) *Server {
	if path == "" {
		path = defaultPath
	}
	return &Server{
		addr:  addr,
		path:  path,
		dev:   dev,
		mock:  mock,
		cache: cache,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*connection),
		stop:  make(chan struct{}),
	}
}

// Handler returns the HTTP handler serving the bridge's single WebSocket
// endpoint, usable directly with httptest.NewServer in tests that don't
// need a real listening socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)
	return mux
}

// Run starts the frame source, the HTTP listener, and the broadcast and
// status loops, then blocks until ctx is cancelled or ListenAndServe
// fails. On return every background goroutine has exited.
func (s *Server) Run(ctx context.Context) error {
	if err := s.startSource(); err != nil {
		return err
	}
	defer s.stopSource()

	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.broadcastLoop()
	}()
	go func() {
		defer s.wg.Done()
		s.statusLoop()
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.Shutdown()
		<-serveErr
		return nil
	case err := <-serveErr:
		s.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops the broadcast/status loops, closes every connection,
// and tears down the HTTP listener. Safe to call more than once.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if s.httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpServer.Shutdown(shutdownCtx)
		}
		s.connsMu.Lock()
		for _, c := range s.conns {
			c.close()
		}
		s.connsMu.Unlock()
	})
	s.wg.Wait()
}

func (s *Server) startSource() error {
	if s.mock != nil {
		s.mock.Start()
		return nil
	}
	handlers := device.FrameHandler{
		OnVideo: func(rgb []byte, timestamp uint32) { s.cache.WriteRGB(rgb, timestamp) },
		OnDepth: func(depth []uint16, timestamp uint32) { s.cache.WriteDepth(depth, timestamp) },
		OnError: func(err error) { log.Warn("device stream error", "error", err) },
	}
	if err := s.dev.Initialize(0, handlers); err != nil {
		return err
	}
	return s.dev.StartStreams()
}

func (s *Server) stopSource() {
	if s.mock != nil {
		s.mock.Stop()
		return
	}
	s.dev.Close()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	c := newConnection(id, conn)

	s.connsMu.Lock()
	s.conns[id] = c
	s.connsMu.Unlock()

	log.Info("connection opened", "connection", id)
	c.sendJSON(HelloMessage{
		Type:            TypeHello,
		ProtocolVersion: ProtocolVersion,
		Capabilities:    streamCapabilities,
		Streams:         streamInfo,
	})

	go c.writePump()
	c.readPump(s.handleMessage)

	s.connsMu.Lock()
	delete(s.conns, id)
	s.connsMu.Unlock()
	log.Info("connection closed", "connection", id)
}

func (s *Server) handleMessage(c *connection, msgType string, raw []byte) {
	switch msgType {
	case TypeSubscribe:
		var m SubscribeMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, Code: ErrCodeProtocolError, Message: "malformed subscribe", Recoverable: true})
			return
		}
		c.setSubscribed(m.Streams, true)

	case TypeUnsubscribe:
		var m UnsubscribeMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, Code: ErrCodeProtocolError, Message: "malformed unsubscribe", Recoverable: true})
			return
		}
		c.setSubscribed(m.Streams, false)

	case TypeMotorSetTilt:
		var m MotorSetTiltMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, Code: ErrCodeProtocolError, Message: "malformed motor.set_tilt", Recoverable: true})
			return
		}
		s.handleSetTilt(c, m.Angle)

	case TypeMotorSetLED:
		var m MotorSetLEDMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, Code: ErrCodeProtocolError, Message: "malformed motor.set_led", Recoverable: true})
			return
		}
		s.handleSetLED(c, m.State)

	case TypeMotorReset:
		s.handleSetTilt(c, 0)

	case TypeMotorGetStatus:
		s.handleGetMotorStatus(c)

	default:
		c.sendJSON(ErrorMessage{Type: TypeError, Code: ErrCodeProtocolError, Message: "unknown message type: " + msgType, Recoverable: true})
	}
}

func (s *Server) handleSetTilt(c *connection, angle int) {
	if !c.motorLimiter.allow(time.Now()) {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeRateLimited, Message: "tilt commands are rate limited"})
		return
	}
	if s.dev == nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeDeviceNotFound, Message: "no motor attached in mock mode"})
		return
	}
	if err := s.dev.SetTilt(angle); err != nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeMotorFailed, Message: err.Error()})
		return
	}
	s.handleGetMotorStatus(c)
}

func (s *Server) handleSetLED(c *connection, state string) {
	if s.dev == nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeDeviceNotFound, Message: "no motor attached in mock mode"})
		return
	}
	led, ok := ledStateFromWire(state)
	if !ok {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeProtocolError, Message: "unknown led state: " + state})
		return
	}
	if err := s.dev.SetLED(led); err != nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeMotorFailed, Message: err.Error()})
	}
}

func (s *Server) handleGetMotorStatus(c *connection) {
	if s.dev == nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeDeviceNotFound, Message: "no motor attached in mock mode"})
		return
	}
	angle, err := s.dev.ReadTilt()
	if err != nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeMotorFailed, Message: err.Error()})
		return
	}
	tiltStatus, err := s.dev.ReadTiltStatus()
	if err != nil {
		c.sendJSON(MotorErrorMessage{Type: TypeMotorError, Code: ErrCodeMotorFailed, Message: err.Error()})
		return
	}
	c.sendJSON(MotorStatusMessage{Type: TypeMotorStatus, Angle: angle, Status: tiltStatusToWire(tiltStatus)})
}

// broadcastLoop reads the shared cache once per tick and fans the
// latest RGB/depth frame out to every subscribed connection, so N
// subscribers cost one cache read instead of N device reads.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	width, height := s.cache.Dimensions()
	rgb := make([]byte, width*height*3)
	depth := make([]uint16, width*height)
	depthBytes := make([]byte, width*height*2)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			id := s.frameID.Add(1)

			if _, ok := s.cache.SnapshotRGB(rgb); ok {
				s.broadcast("rgb", func(c *connection) { c.sendFrame(id, StreamTypeRGB, rgb) })
			}
			if _, ok := s.cache.SnapshotDepth(depth); ok {
				pipeline.DepthToBytes(depth, depthBytes)
				s.broadcast("depth", func(c *connection) { c.sendFrame(id, StreamTypeDepth, depthBytes) })
			}
		}
	}
}

func (s *Server) broadcast(stream string, send func(c *connection)) {
	s.connsMu.Lock()
	targets := make([]*connection, 0, len(s.conns))
	for _, c := range s.conns {
		if c.subscribed(stream) {
			targets = append(targets, c)
		}
	}
	s.connsMu.Unlock()

	for _, c := range targets {
		send(c)
	}
}

// statusLoop pushes a status message to every connection, reporting
// per-connection fan-out health plus host CPU load as a rough proxy for
// whether the server itself is the bottleneck.
func (s *Server) statusLoop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			load := hostCPULoad()

			s.connsMu.Lock()
			conns := make([]*connection, 0, len(s.conns))
			for _, c := range s.conns {
				conns = append(conns, c)
			}
			s.connsMu.Unlock()

			for _, c := range conns {
				sent, dropped := c.metrics()
				c.sendJSON(StatusMessage{Type: TypeStatus, SentFrames: sent, DroppedFrames: dropped, ServerLoad: load})
			}
		}
	}
}

// hostCPULoad samples total CPU utilization as a percentage, using a
// zero-duration gopsutil sample (CPU deltas since the last call) so the
// status loop never blocks for a full measurement window.
func hostCPULoad() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return 0
	}
	return percents[0]
}

func ledStateFromWire(state string) (device.LEDState, bool) {
	switch state {
	case "off":
		return device.LEDOff, true
	case "green":
		return device.LEDGreen, true
	case "red":
		return device.LEDRed, true
	case "yellow":
		return device.LEDYellow, true
	case "blink_green":
		return device.LEDBlinkGreen, true
	case "blink_red_yellow":
		return device.LEDBlinkRedYellow, true
	default:
		return 0, false
	}
}

func tiltStatusToWire(s device.TiltStatus) string {
	switch s {
	case device.TiltStopped:
		return "stopped"
	case device.TiltAtLimit:
		return "at_limit"
	case device.TiltMoving:
		return "moving"
	default:
		return "unknown"
	}
}
