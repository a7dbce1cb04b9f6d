package xrcore

import "github.com/kinectxr/runtime/pkg/xrtypes"

// EventKind distinguishes the union of events this runtime ever queues.
type EventKind int

const (
	EventSessionStateChanged EventKind = iota + 1
	EventInstanceLossPending
)

// Event is one entry in an instance's event queue.
type Event struct {
	Kind    EventKind
	Session xrtypes.Handle
	State   xrtypes.SessionState
	TimeNs  int64
}

// eventQueueCapacity bounds the per-instance FIFO. Session-state events
// are produced in small, known-size bursts (at most 3 per BeginSession,
// 2 per EndSession), so this comfortably covers any backlog an
// unresponsive application could accumulate between PollEvent calls.
const eventQueueCapacity = 256

// eventQueue is a bounded FIFO. Overflow drops the oldest entry rather
// than blocking the producer, since events are advisory and producers
// (session state transitions) must never stall on a slow consumer.
type eventQueue struct {
	items []Event
}

func (q *eventQueue) push(e Event) {
	if len(q.items) >= eventQueueCapacity {
		q.items = q.items[1:]
	}
	q.items = append(q.items, e)
}

func (q *eventQueue) pop() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}
