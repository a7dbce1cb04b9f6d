package xrcore

import (
	"log/slog"
	"sync"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// Instance is the per-application root entity.
type Instance struct {
	applicationName string
	engineName      string
	apiVersion      uint64
	extensions      []string

	mu       sync.Mutex
	events   eventQueue
	systemID xrtypes.Handle
	// sessionID is NullHandle when the instance owns no session, or no
	// longer owns a destroyed one.
	sessionID xrtypes.Handle
}

// CreateInstance validates info and, on success, registers a new
// Instance. Extensions are checked against xrtypes.SupportedExtensions;
// an unknown name returns ErrExtensionNotPresent before any state is
// created.
func (c *Core) CreateInstance(info InstanceCreateInfo) (xrtypes.Handle, xrtypes.Result) {
	if info.StructType != StructTypeInstanceCreateInfo {
		return xrtypes.NullHandle, xrtypes.ErrValidationFailure
	}
	if majorVersion(info.ApiVersion) != majorVersion(CurrentApiVersion) {
		return xrtypes.NullHandle, xrtypes.ErrApiVersionUnsupported
	}
	for _, want := range info.EnabledExtensionNames {
		if !isSupportedExtension(want) {
			return xrtypes.NullHandle, xrtypes.ErrExtensionNotPresent
		}
	}

	inst := &Instance{
		applicationName: info.ApplicationName,
		engineName:      info.EngineName,
		apiVersion:      info.ApiVersion,
		extensions:      append([]string(nil), info.EnabledExtensionNames...),
	}
	h := c.instances.insert(inst)
	log.Info("instance created", slog.Uint64("handle", uint64(h)), slog.String("application", info.ApplicationName))
	return h, xrtypes.Success
}

// DestroyInstance removes instance h and every entity it owns
// (transitively: its session, and that session's spaces/swapchains).
// Returns ErrHandleInvalid if h does not denote a live instance.
func (c *Core) DestroyInstance(h xrtypes.Handle) xrtypes.Result {
	inst, ok := c.instances.get(h)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}

	inst.mu.Lock()
	sessionID := inst.sessionID
	inst.mu.Unlock()

	if sessionID != xrtypes.NullHandle {
		if sess, ok := c.sessions.get(sessionID); ok {
			c.destroySessionEntities(sess)
			c.sessions.delete(sessionID)
		}
	}
	c.instances.delete(h)
	log.Info("instance destroyed", slog.Uint64("handle", uint64(h)))
	return xrtypes.Success
}

// EnumerateInstanceExtensionProperties implements the two-call idiom
// over xrtypes.SupportedExtensions. It takes no instance handle — it is
// one of the instance-agnostic entry points.
func (c *Core) EnumerateInstanceExtensionProperties(capacityInput int) (int, []xrtypes.ExtensionProperties, xrtypes.Result) {
	return twoCall(capacityInput, xrtypes.SupportedExtensions)
}

// InstanceValid reports whether h denotes a live instance. Used by
// internal/xrabi to enforce the instance-handle-required classification
// of entry points.
func (c *Core) InstanceValid(h xrtypes.Handle) bool {
	_, ok := c.instances.get(h)
	return ok
}

func isSupportedExtension(name string) bool {
	for _, ext := range xrtypes.SupportedExtensions {
		if ext.Name == name {
			return true
		}
	}
	return false
}

func majorVersion(v uint64) uint64 {
	return v >> 48
}

// pushEvent enqueues e on inst's event queue under its mutex.
func (inst *Instance) pushEvent(e Event) {
	inst.mu.Lock()
	inst.events.push(e)
	inst.mu.Unlock()
}

// PollEvent dequeues the oldest pending event for instance h, returning
// ErrEventUnavailable when the queue is empty.
func (c *Core) PollEvent(h xrtypes.Handle) (Event, xrtypes.Result) {
	inst, ok := c.instances.get(h)
	if !ok {
		return Event{}, xrtypes.ErrHandleInvalid
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	e, ok := inst.events.pop()
	if !ok {
		return Event{}, xrtypes.ErrEventUnavailable
	}
	return e, xrtypes.Success
}
