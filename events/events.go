package events

// Event represents a structured state change emitted by the exchange.
type Event interface {
	EventType() string
	Attributes() map[string]string
}

// Emitter broadcasts events to downstream subscribers (RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}

// Recorder captures emitted events in order. It is intended for tests and
// for the RPC event feed.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Last returns the most recently recorded event, or nil when none exist.
func (r *Recorder) Last() Event {
	if len(r.Events) == 0 {
		return nil
	}
	return r.Events[len(r.Events)-1]
}
