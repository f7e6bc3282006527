package events

import (
	"context"
	"encoding/json"
	"time"

	"quickcourt/internal/client"
	"quickcourt/internal/util"
)

// EventType names an auth-relevant occurrence.
type EventType string

const (
	EventSignup        EventType = "signup"
	EventLoginSuccess  EventType = "login_succeeded"
	EventLoginFailure  EventType = "login_failed"
	EventOTPIssued     EventType = "otp_issued"
	EventOTPVerified   EventType = "otp_verified"
	EventOTPRejected   EventType = "otp_rejected"
	EventTokenRejected EventType = "token_rejected"
)

// AuthEvent is the wire record written to the auth event topic.
type AuthEvent struct {
	Type       EventType `json:"type"`
	Email      string    `json:"email,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits auth events. Emission is best-effort; failures are logged,
// never surfaced to the login path.
type Publisher interface {
	Publish(ctx context.Context, event AuthEvent)
}

// NewAuthEvent stamps an event with the current time.
func NewAuthEvent(t EventType, email, detail string) AuthEvent {
	return AuthEvent{Type: t, Email: email, Detail: detail, OccurredAt: time.Now().UTC()}
}

// KafkaPublisher writes events through the shared Kafka producer.
type KafkaPublisher struct {
	producer *client.KafkaProducer
}

func NewKafkaPublisher(producer *client.KafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event AuthEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		util.Error("failed to marshal auth event", util.ErrorField(err))
		return
	}
	if err := p.producer.Publish(ctx, []byte(event.Email), payload); err != nil {
		util.Warn("failed to publish auth event",
			util.String("type", string(event.Type)),
			util.ErrorField(err))
	}
}

// NopPublisher drops events; used when Kafka is disabled and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuthEvent) {}
