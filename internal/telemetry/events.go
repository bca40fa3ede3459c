package telemetry

import (
	"context"
	"log"
	"time"
)

// Publisher is satisfied by the rabbitmq package.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// Emitter publishes service events (connection lifecycle, messaging, auth)
// wrapped in a versioned envelope. A nil Emitter is safe to call.
type Emitter struct {
	publisher   Publisher
	service     string
	environment string
	onError     func()
}

// Envelope is the wire format for published events.
type Envelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	RequestID     string `json:"request_id"`
	UserID        *int64 `json:"user_id,omitempty"`
	Payload       any    `json:"payload,omitempty"`
}

// NewEmitter builds an Emitter. onError is invoked on publish failures and
// may be nil.
func NewEmitter(publisher Publisher, service, environment string, onError func()) *Emitter {
	return &Emitter{
		publisher:   publisher,
		service:     service,
		environment: environment,
		onError:     onError,
	}
}

// Emit publishes one event; failures are logged, counted, and swallowed so
// event delivery never affects request outcomes.
func (e *Emitter) Emit(ctx context.Context, eventType, requestID string, userID *int64, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := Envelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, eventType, envelope); err != nil {
		log.Printf("event publish failed type=%s: %v", eventType, err)
		if e.onError != nil {
			e.onError()
		}
	}
}
