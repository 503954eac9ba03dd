// Package messaging forwards domain events to Kafka.
package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"github.com/vetcollars/storefront/internal/infrastructure/event"
	"go.uber.org/zap"
)

const (
	defaultBufferSize = 256
	writeTimeout      = 10 * time.Second
)

// ErrForwarderClosed is returned by Handle after Close
var ErrForwarderClosed = errors.New("kafka forwarder is closed")

// MessageWriter is the subset of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder publishes order events to a topic. Handle only enqueues;
// a single goroutine writes, so checkout latency does not depend on the
// broker. When the buffer is full the event is dropped and logged.
type KafkaForwarder struct {
	w          MessageWriter
	serializer *event.Serializer
	logger     *zap.Logger

	inbox chan kafka.Message
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
	start  sync.Once
}

// NewKafkaWriter creates the writer used in production
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaForwarder creates a forwarder over w
func NewKafkaForwarder(w MessageWriter, bufferSize int, logger *zap.Logger) *KafkaForwarder {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaForwarder{
		w:          w,
		serializer: event.NewSerializer(),
		logger:     logger,
		inbox:      make(chan kafka.Message, bufferSize),
		done:       make(chan struct{}),
	}
}

// EventTypes implements shared.EventHandler
func (f *KafkaForwarder) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, order.EventTypeOrderStatusChanged}
}

// Handle encodes ev and queues it for delivery
func (f *KafkaForwarder) Handle(ctx context.Context, ev shared.DomainEvent) error {
	value, err := f.serializer.Encode(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(ev.AggregateID()),
		Value: value,
		Time:  ev.OccurredAt().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType())},
		},
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return ErrForwarderClosed
	}

	select {
	case f.inbox <- msg:
		return nil
	default:
		f.logger.Warn("Kafka buffer full, dropping event",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
		)
		return nil
	}
}

// Start launches the writer goroutine. Calling it more than once is a no-op.
func (f *KafkaForwarder) Start() {
	f.start.Do(func() {
		go f.loop()
	})
}

func (f *KafkaForwarder) loop() {
	defer close(f.done)
	for msg := range f.inbox {
		f.write(msg)
	}
	if err := f.w.Close(); err != nil {
		f.logger.Warn("Kafka writer close failed", zap.Error(err))
	}
}

func (f *KafkaForwarder) write(msg kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := f.w.WriteMessages(ctx, msg); err != nil {
		f.logger.Error("Kafka write failed",
			zap.ByteString("key", msg.Key),
			zap.Error(err),
		)
	}
}

// Close stops accepting events, flushes the buffer and closes the writer.
// It waits until ctx is done at most.
func (f *KafkaForwarder) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.inbox)
	f.mu.Unlock()

	// make sure queued messages are flushed even if Start was never called
	f.Start()

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
