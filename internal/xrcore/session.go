package xrcore

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/kinectxr/runtime/internal/device"
	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/internal/pipeline"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// Session is the application's interactive context.
type Session struct {
	selfHandle   xrtypes.Handle
	instance     xrtypes.Handle
	systemID     xrtypes.Handle
	commandQueue graphics.CommandQueue

	state atomic.Int32 // xrtypes.SessionState

	dev      *device.Device
	cache    *pipeline.Cache
	uploader *pipeline.Uploader

	mu            sync.Mutex
	viewConfig    xrtypes.ViewConfigurationType
	frameLoop     frameLoopState
	spaces        map[xrtypes.Handle]struct{}
	swapchains    map[xrtypes.Handle]struct{}
}

// frameLoopState is the per-session frame-loop state.
type frameLoopState struct {
	lastDisplayTimeNs int64
	frameCounter      uint64
	frameInProgress   bool
	started           bool
}

func (s *Session) setState(core *Core, newState xrtypes.SessionState) {
	s.state.Store(int32(newState))
	inst, ok := core.instances.get(s.instance)
	if !ok {
		return
	}
	inst.pushEvent(Event{Kind: EventSessionStateChanged, Session: s.selfHandle, State: newState})
}

// CreateSession validates the Metal graphics binding and registers a new
// Session in state READY, queuing SessionStateChanged(READY).
func (c *Core) CreateSession(instanceHandle xrtypes.Handle, info SessionCreateInfo) (xrtypes.Handle, xrtypes.Result) {
	inst, ok := c.instances.get(instanceHandle)
	if !ok {
		return xrtypes.NullHandle, xrtypes.ErrHandleInvalid
	}
	if info.StructType != StructTypeSessionCreateInfo {
		return xrtypes.NullHandle, xrtypes.ErrValidationFailure
	}
	if info.Next == nil || info.Next.StructType != StructTypeGraphicsBindingMetal || info.Next.CommandQueue == 0 {
		return xrtypes.NullHandle, xrtypes.ErrGraphicsDeviceInvalid
	}
	if _, ok := c.systems.get(info.SystemID); !ok {
		return xrtypes.NullHandle, xrtypes.ErrSystemInvalid
	}

	inst.mu.Lock()
	if inst.sessionID != xrtypes.NullHandle {
		inst.mu.Unlock()
		return xrtypes.NullHandle, xrtypes.ErrLimitReached
	}
	inst.mu.Unlock()

	width, height := xrtypes.MaxSwapchainWidth, xrtypes.MaxSwapchainHeight
	sess := &Session{
		instance:     instanceHandle,
		systemID:     info.SystemID,
		commandQueue: info.Next.CommandQueue,
		cache:        pipeline.NewCache(width, height),
		uploader:     pipeline.NewUploader(width, height),
		spaces:       make(map[xrtypes.Handle]struct{}),
		swapchains:   make(map[xrtypes.Handle]struct{}),
	}
	sess.state.Store(int32(xrtypes.SessionStateIdle))

	h := c.sessions.insert(sess)
	sess.selfHandle = h

	inst.mu.Lock()
	inst.sessionID = h
	inst.mu.Unlock()

	sess.setState(c, xrtypes.SessionStateReady)
	log.Info("session created", slog.Uint64("handle", uint64(h)))
	return h, xrtypes.Success
}

// BeginSession starts the session's frame loop: READY -> SYNCHRONIZED ->
// VISIBLE -> FOCUSED, initializing the device layer and wiring its
// callbacks into the session's frame cache.
func (c *Core) BeginSession(sessionHandle xrtypes.Handle, viewConfigType xrtypes.ViewConfigurationType) xrtypes.Result {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	if viewConfigType != xrtypes.ViewConfigurationTypePrimaryMono {
		return xrtypes.ErrViewConfigurationTypeUnsupported
	}
	if xrtypes.SessionState(sess.state.Load()) != xrtypes.SessionStateReady {
		return xrtypes.ErrSessionNotReady
	}

	dev := c.newDevice()
	err := dev.Initialize(0, device.FrameHandler{
		OnDepth: sess.cache.WriteDepth,
		OnVideo: sess.cache.WriteRGB,
		OnError: func(err error) {
			log.Warn("device error during session", slog.String("error", err.Error()))
		},
	})
	if err != nil {
		log.Warn("begin session: no device available", slog.String("error", err.Error()))
		return xrtypes.ErrFormFactorUnavailable
	}
	if err := dev.StartStreams(); err != nil {
		dev.Close()
		return xrtypes.ErrFormFactorUnavailable
	}

	sess.mu.Lock()
	sess.dev = dev
	sess.viewConfig = viewConfigType
	sess.frameLoop.started = true
	sess.mu.Unlock()

	sess.setState(c, xrtypes.SessionStateSynchronized)
	sess.setState(c, xrtypes.SessionStateVisible)
	sess.setState(c, xrtypes.SessionStateFocused)
	return xrtypes.Success
}

// EndSession stops the frame loop and releases the device layer:
// {SYNCHRONIZED, VISIBLE, FOCUSED} -> STOPPING -> IDLE.
func (c *Core) EndSession(sessionHandle xrtypes.Handle) xrtypes.Result {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	switch xrtypes.SessionState(sess.state.Load()) {
	case xrtypes.SessionStateSynchronized, xrtypes.SessionStateVisible, xrtypes.SessionStateFocused:
	default:
		return xrtypes.ErrSessionNotRunning
	}

	sess.setState(c, xrtypes.SessionStateStopping)

	sess.mu.Lock()
	dev := sess.dev
	sess.dev = nil
	sess.frameLoop = frameLoopState{}
	sess.mu.Unlock()

	if dev != nil {
		dev.StopStreams()
		dev.Close()
	}

	sess.setState(c, xrtypes.SessionStateIdle)
	return xrtypes.Success
}

// DestroySession removes the session and its owned spaces/swapchains.
// Disallowed while running.
func (c *Core) DestroySession(sessionHandle xrtypes.Handle) xrtypes.Result {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	switch xrtypes.SessionState(sess.state.Load()) {
	case xrtypes.SessionStateSynchronized, xrtypes.SessionStateVisible, xrtypes.SessionStateFocused:
		return xrtypes.ErrSessionRunning
	}

	c.destroySessionEntities(sess)
	c.sessions.delete(sessionHandle)

	if inst, ok := c.instances.get(sess.instance); ok {
		inst.mu.Lock()
		if inst.sessionID == sessionHandle {
			inst.sessionID = xrtypes.NullHandle
		}
		inst.mu.Unlock()
	}
	return xrtypes.Success
}

func (c *Core) destroySessionEntities(sess *Session) {
	sess.mu.Lock()
	spaceHandles := make([]xrtypes.Handle, 0, len(sess.spaces))
	for h := range sess.spaces {
		spaceHandles = append(spaceHandles, h)
	}
	swapchainHandles := make([]xrtypes.Handle, 0, len(sess.swapchains))
	for h := range sess.swapchains {
		swapchainHandles = append(swapchainHandles, h)
	}
	dev := sess.dev
	sess.dev = nil
	sess.mu.Unlock()

	for _, h := range spaceHandles {
		c.spaces.delete(h)
	}
	for _, h := range swapchainHandles {
		if sc, ok := c.swapchains.get(h); ok {
			c.releaseSwapchainTextures(sc)
		}
		c.swapchains.delete(h)
	}
	if dev != nil {
		dev.StopStreams()
		dev.Close()
	}
}

// GetMetalGraphicsRequirements fills the "any Metal device acceptable"
// record.
type MetalGraphicsRequirements struct {
	StructType StructureType
}

func (c *Core) GetMetalGraphicsRequirements(systemHandle xrtypes.Handle) (MetalGraphicsRequirements, xrtypes.Result) {
	if _, ok := c.systems.get(systemHandle); !ok {
		return MetalGraphicsRequirements{}, xrtypes.ErrHandleInvalid
	}
	return MetalGraphicsRequirements{StructType: StructTypeGraphicsRequirementsMetal}, xrtypes.Success
}
