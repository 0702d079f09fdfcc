package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/roadpulse/roadpulse/pkg/logger"
)

// Subjects published by the traffic API. Dashboard clients subscribe to
// these to refresh without polling.
const (
	SubjectTrafficConditionsUpdated = "traffic.conditions.updated"
	SubjectRouteSaved               = "routes.saved"
	SubjectPreferencesUpdated       = "preferences.updated"
)

// Event is the envelope for all events published through the bus.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Bus publishes events over NATS. A nil Bus drops events silently, so
// callers never have to branch on whether eventing is enabled.
type Bus struct {
	conn   *nats.Conn
	source string
}

// Connect establishes a NATS connection for publishing.
func Connect(url, source string) (*Bus, error) {
	conn, err := nats.Connect(url,
		nats.Name(source),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Bus{conn: conn, source: source}, nil
}

// Publish marshals and publishes an event. Publishing is best-effort:
// failures are logged, never returned to the primary operation.
func (b *Bus) Publish(subject string, data interface{}) {
	if b == nil || b.conn == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		logger.Warn("eventbus marshal failed", zap.String("subject", subject), zap.Error(err))
		return
	}

	event := Event{
		ID:        uuid.New().String(),
		Type:      subject,
		Source:    b.source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warn("eventbus marshal failed", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := b.conn.Publish(subject, payload); err != nil {
		logger.Warn("eventbus publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

// Close drains and closes the connection.
func (b *Bus) Close() {
	if b == nil || b.conn == nil {
		return
	}
	if err := b.conn.Drain(); err != nil {
		logger.Warn("eventbus drain failed", zap.Error(err))
	}
}
