// Package nats implements the event publisher on NATS JetStream.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/storyhive/storyhive/internal/config"
	"github.com/storyhive/storyhive/internal/events"
)

// Publisher is a JetStream-backed events.Publisher.
type Publisher struct {
	nc            *nats.Conn
	js            jetstream.JetStream
	subjectPrefix string
}

// NewPublisher dials NATS and ensures the event stream exists.
func NewPublisher(cfg config.EventsConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "storyhive.events"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{prefix + ".>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	return &Publisher{nc: nc, js: js, subjectPrefix: prefix}, nil
}

// Publish sends the event under <prefix>.<type>.
func (p *Publisher) Publish(ctx context.Context, evt events.Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.subjectPrefix + "." + string(evt.Type)
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}
