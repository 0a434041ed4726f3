// Package publisher delivers audit events to a store, either synchronously or
// through a buffered channel drained by a background goroutine.
//
// Async mode trades durability for latency: events accepted into the buffer
// may be lost on crash. Custody and biometric events are low-volume, so the
// default is synchronous; async exists for deployments that prefer not to put
// the store on the request path.
package publisher

import (
	"context"
	"sync"
	"time"

	id "warden/pkg/domain"
	audit "warden/pkg/platform/audit"
)

type Publisher struct {
	store audit.Store

	inbox  chan audit.Event
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

type Option func(p *Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given buffer
// size. Emit drops events once the buffer is full rather than blocking the
// caller.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an audit event. A zero timestamp is stamped with the current
// time; the category is derived from the action when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
	default:
		// Buffer full. Audit must never block or fail the operation it
		// records, so the event is dropped.
	}
	return nil
}

// List returns the custody trail for an inmate.
func (p *Publisher) List(ctx context.Context, inmateID id.InmateID) ([]audit.Event, error) {
	return p.store.ListByInmate(ctx, inmateID)
}

// Close stops the background drain, flushing anything still buffered.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		close(p.done)
		if p.inbox != nil {
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.inbox:
			_ = p.store.Append(context.Background(), event)
		case <-p.done:
			for {
				select {
				case event := <-p.inbox:
					_ = p.store.Append(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}
