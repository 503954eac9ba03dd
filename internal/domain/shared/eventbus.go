package shared

import "context"

// EventHandler reacts to published domain events. EventTypes lists the types
// it wants; nil or empty subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on to emit events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus is the process-wide publisher. Start and Stop bracket the server
// lifetime.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
