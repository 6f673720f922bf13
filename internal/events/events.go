package events

import "context"

// Event types
const (
	EventActivityLogged = "activity_logged"
)

// ActivityStream is the pub/sub channel carrying activity events to the
// websocket hub.
const ActivityStream = "events:activity"

type Event struct {
	Type string `json:"type"`
	// Audience lists the user ids the event may be delivered to. Admin
	// subscribers receive every event regardless.
	Audience []string       `json:"audience,omitempty"`
	Payload  map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
