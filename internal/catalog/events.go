package catalog

// Event represents a catalog lifecycle event.
// Minimal and stable: name + page and optional fields via key/values.
type Event struct {
	Name   string
	Page   string
	Fields map[string]any
}

// Event names published by the catalog.
const (
	EventRefreshStart = "refresh_start"
	EventRefreshDone  = "refresh_done"
	EventRefreshError = "refresh_error"
)

// EventPublisher receives events from the catalog. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
