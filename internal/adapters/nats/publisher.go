package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/shelterly/shelterly/internal/core/domain"
)

// ErrUnavailable is returned by every publish on a nil *Publisher, so a
// failed startup connect degrades to skipped events instead of panicking.
var ErrUnavailable = errors.New("event publisher unavailable")

// Publisher implements ports.EventPublisher using NATS JetStream.
// A nil *Publisher is a valid no-op publisher: publishes return ErrUnavailable.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "SHELTER_EVENTS",
			Subjects:  []string{"shelters.profile.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "VERIFICATION_EVENTS",
			Subjects:  []string{"shelters.verification.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishProfileUpdated(ctx context.Context, res *domain.UpdateResult) error {
	if p == nil {
		return ErrUnavailable
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("shelters.profile.updated."+res.ID, data)
	return err
}

func (p *Publisher) PublishDocumentUploaded(ctx context.Context, profileID, path string) error {
	if p == nil {
		return ErrUnavailable
	}
	data, err := json.Marshal(map[string]string{
		"profile_id":            profileID,
		"verification_doc_path": path,
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish("shelters.verification.document."+profileID, data)
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	if p == nil {
		return ErrUnavailable
	}
	return p.conn.Publish("shelters.updates.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
