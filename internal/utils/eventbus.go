package utils

// Event is a single realtime notification. BoardID/ProjectID select the room
// the websocket hub fans it out to; ExcludeClient names a connection to skip
// (used for optimistic broadcasts and presence, where the initiator already
// applied the change locally).
type Event struct {
	Name          string      `json:"event"`
	BoardID       string      `json:"board_id,omitempty"`
	ProjectID     string      `json:"project_id,omitempty"`
	ExcludeClient string      `json:"-"`
	Data          interface{} `json:"data"`
}

// EventBus decouples the mutation services from the websocket hub: services
// publish, the hub consumes and routes to rooms.
type EventBus struct {
	events chan Event
}

func NewEventBus() *EventBus {
	return &EventBus{
		events: make(chan Event, 256),
	}
}

// Publish blocks when the buffer is full rather than dropping. A lost event
// after an optimistic broadcast (move-failed in particular) would leave every
// room member with stale state, so delivery to the hub is never best-effort.
func (eb *EventBus) Publish(event Event) {
	eb.events <- event
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	return eb.events
}
