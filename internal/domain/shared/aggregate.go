package shared

// AggregateRoot is an entity whose mutations raise domain events. The events
// stay pending until the application layer pulls them for publishing.
type AggregateRoot interface {
	Record(event DomainEvent)
	PendingEvents() []DomainEvent
	PullEvents() []DomainEvent
}

// BaseAggregateRoot is embedded by aggregates to get an identity and the
// pending event list
type BaseAggregateRoot struct {
	BaseEntity
	pending []DomainEvent
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

// Record queues an event raised by the aggregate
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns a copy of the queued events
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return append([]DomainEvent(nil), a.pending...)
}

// PullEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
