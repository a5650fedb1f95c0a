package ecs

// EventType names a fire-and-forget notification.
type EventType string

const (
	EventLanded           EventType = "landed"
	EventSlideStarted     EventType = "slide_started"
	EventClimbLurch       EventType = "climb_lurch"
	EventGroundPound      EventType = "ground_pound"
	EventStaminaDepleted  EventType = "stamina_depleted"
	EventStaminaRegen     EventType = "stamina_regen_started"
	EventStaminaFull      EventType = "stamina_full"
	EventAbilityRejected  EventType = "ability_rejected"
	EventPresetApplied    EventType = "preset_applied"
	EventFlightToggled    EventType = "flight_toggled"
	EventGrabStateChanged EventType = "grab_changed"
)

// Event is a generic notification emitted by a system for collaborators
// (camera, audio, UI). Producers never wait on consumers.
type Event struct {
	Type   EventType
	Entity Entity
	Value  float64
	Data   any
}

// EventQueue is a simple FIFO queue.
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

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
