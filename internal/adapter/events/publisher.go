// internal/adapter/events/publisher.go

// Package events publishes resolution audit events so operators can watch
// how often real data is served versus synthetic fallback.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"trendlens/internal/domain/topic"
)

// DefaultSubject is the NATS subject resolution events are published to.
const DefaultSubject = "trendlens.resolution"

// ResolutionEvent describes one resolved request.
type ResolutionEvent struct {
	Kind       topic.Kind       `json:"kind"`
	Provenance topic.Provenance `json:"provenance"`
	Source     string           `json:"source"`
	Records    int              `json:"records"`
	Elapsed    time.Duration    `json:"elapsedNs"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Publisher emits resolution events. A nil *Publisher is valid and silently
// drops events, so event publishing stays optional.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewPublisher wraps a NATS connection. Subject defaults to DefaultSubject.
func NewPublisher(conn *nats.Conn, subject string, logger *zap.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}
}

// Publish emits one event. Failures are logged, never propagated: audit
// events must not affect request outcomes.
func (p *Publisher) Publish(ev ResolutionEvent) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("marshaling resolution event", zap.Error(err))
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn("publishing resolution event",
			zap.String("subject", p.subject),
			zap.Error(err))
	}
}

// Subject returns the subject events are published on.
func (p *Publisher) Subject() string {
	if p == nil {
		return DefaultSubject
	}
	return p.subject
}
