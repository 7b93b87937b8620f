package ecs

// EventKind names something that happened to an entity this frame.
type EventKind string

const (
	EventJumped        EventKind = "jumped"
	EventLanded        EventKind = "landed"
	EventClimbStarted  EventKind = "climb_started"
	EventClimbFinished EventKind = "climb_finished"
	EventSpeedTier     EventKind = "speed_tier"
	EventReloaded      EventKind = "reloaded"
)

// Event is a generic ECS event payload.
type Event struct {
	Kind   EventKind
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue. Events live until the end of the
// frame that raised them; Peek lets several readers see the same frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Peek returns the pending events without clearing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
