package xrcore

import "github.com/kinectxr/runtime/pkg/xrtypes"

// Space is a reference space. All three supported types
// are identity-posed at the camera origin — the sensor never moves.
type Space struct {
	session       xrtypes.Handle
	referenceType xrtypes.ReferenceSpaceType
}

// CreateReferenceSpace validates info and registers a new identity-posed
// Space owned by sessionHandle.
func (c *Core) CreateReferenceSpace(sessionHandle xrtypes.Handle, info ReferenceSpaceCreateInfo) (xrtypes.Handle, xrtypes.Result) {
	sess, ok := c.sessions.get(sessionHandle)
	if !ok {
		return xrtypes.NullHandle, xrtypes.ErrHandleInvalid
	}
	if info.StructType != StructTypeReferenceSpaceCreateInfo {
		return xrtypes.NullHandle, xrtypes.ErrValidationFailure
	}
	switch info.ReferenceType {
	case xrtypes.ReferenceSpaceView, xrtypes.ReferenceSpaceLocal, xrtypes.ReferenceSpaceStage:
	default:
		return xrtypes.NullHandle, xrtypes.ErrReferenceSpaceUnsupported
	}

	sp := &Space{session: sessionHandle, referenceType: info.ReferenceType}
	h := c.spaces.insert(sp)

	sess.mu.Lock()
	sess.spaces[h] = struct{}{}
	sess.mu.Unlock()

	return h, xrtypes.Success
}

// DestroySpace validates and removes spaceHandle.
func (c *Core) DestroySpace(spaceHandle xrtypes.Handle) xrtypes.Result {
	sp, ok := c.spaces.get(spaceHandle)
	if !ok {
		return xrtypes.ErrHandleInvalid
	}
	if sess, ok := c.sessions.get(sp.session); ok {
		sess.mu.Lock()
		delete(sess.spaces, spaceHandle)
		sess.mu.Unlock()
	}
	c.spaces.delete(spaceHandle)
	return xrtypes.Success
}
