package events

import "sync"

// Event names on the stable wire contract with rendering clients.
const (
	EventTick              = "sync:tick"
	EventGroupUpdated      = "sync:group-updated"
	EventConductorChanged  = "sync:conductor-changed"
	EventScheduleActivated = "schedule:activated"
	EventScheduleEnded     = "schedule:ended"
	EventScheduleChanged   = "schedule:changed"
)

// Publisher fans an event out to every subscriber of a room. Rooms are
// opaque strings; the core uses DisplayRoom and GroupRoom. Implementations
// own wire encoding and delivery; the core never sees subscribers.
type Publisher interface {
	Publish(room, event string, payload any) error
}

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

type Recorded struct {
	Room    string
	Event   string
	Payload any
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(room, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Room: room, Event: event, Payload: payload})
	return nil
}

// All returns a copy of everything published so far.
func (r *Recorder) All() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// ByEvent filters recorded events by name.
func (r *Recorder) ByEvent(event string) []Recorded {
	var out []Recorded
	for _, e := range r.All() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
