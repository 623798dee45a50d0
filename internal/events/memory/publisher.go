// Package memory implements the event publisher in process memory for tests
// and single-node development.
package memory

import (
	"context"
	"sync"

	"github.com/storyhive/storyhive/internal/events"
)

// Publisher records events in memory.
type Publisher struct {
	mu     sync.Mutex
	events []events.Event
}

// NewPublisher creates an empty in-memory publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *Publisher) Close() error { return nil }

// Events returns a snapshot of everything published so far.
func (p *Publisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// ByType returns the published events of one type.
func (p *Publisher) ByType(t events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
