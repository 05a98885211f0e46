package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	EventConnectionRequested = "connection.requested"
	EventConnectionAccepted  = "connection.accepted"
	EventConnectionEnded     = "connection.ended"
	EventMessageCreated      = "message.created"
	EventMeetingScheduled    = "meeting.scheduled"
	EventMeetingCancelled    = "meeting.cancelled"
)

// Event is the wire shape delivered to a user's live stream.
type Event struct {
	Type      string          `json:"type"`
	ActorID   int64           `json:"actorId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Broker interface {
	Publish(ctx context.Context, userID int64, payload []byte) error
	Subscribe(ctx context.Context, userID int64) (<-chan []byte, func(), error)
}

// Service routes events through a shared broker instead of process-local
// connection registries, so any instance can reach any user's stream.
type Service struct {
	broker Broker
	logger *zap.Logger
	now    func() time.Time
}

func NewService(broker Broker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		broker: broker,
		logger: logger,
		now:    time.Now,
	}
}

// Publish is best-effort: delivery failures are logged, never propagated,
// so a broker outage cannot fail the triggering request.
func (s *Service) Publish(ctx context.Context, userID int64, eventType string, actorID int64, data interface{}) {
	if s == nil || s.broker == nil || userID <= 0 {
		return
	}

	event := Event{
		Type:      eventType,
		ActorID:   actorID,
		CreatedAt: s.now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			s.logger.Warn("encode event data", zap.String("type", eventType), zap.Error(err))
			return
		}
		event.Data = raw
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	if err := s.broker.Publish(ctx, userID, payload); err != nil {
		s.logger.Warn("publish event",
			zap.String("type", eventType),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func (s *Service) Subscribe(ctx context.Context, userID int64) (<-chan []byte, func(), error) {
	if s == nil || s.broker == nil {
		return nil, nil, fmt.Errorf("notify broker is not configured")
	}
	return s.broker.Subscribe(ctx, userID)
}
