package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
)

// Envelope is the wire form of a domain event on the message broker
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Serializer converts events to envelopes and back. Decoding requires the
// concrete type to be registered.
type Serializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewSerializer creates a serializer with the order events registered
func NewSerializer() *Serializer {
	s := &Serializer{types: make(map[string]reflect.Type)}
	s.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	s.Register(order.EventTypeOrderStatusChanged, &order.OrderStatusChangedEvent{})
	return s
}

// Register maps an event type to the Go type it decodes into
func (s *Serializer) Register(eventType string, prototype shared.DomainEvent) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Encode wraps ev into an Envelope and marshals it
func (s *Serializer) Encode(ev shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return json.Marshal(Envelope{
		ID:            ev.EventID(),
		Type:          ev.EventType(),
		AggregateType: ev.AggregateType(),
		AggregateID:   ev.AggregateID(),
		OccurredAt:    ev.OccurredAt().UTC(),
		Payload:       payload,
	})
}

// Decode parses an envelope and its payload into the registered type
func (s *Serializer) Decode(data []byte) (shared.DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	s.mu.RLock()
	t, ok := s.types[env.Type]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", env.Type)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(env.Payload, ptr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	ev, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("type %s does not implement DomainEvent", t)
	}
	return ev, nil
}
