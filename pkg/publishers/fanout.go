package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Result is the outcome of one publisher for one event.
type Result struct {
	PublisherID string
	Type        string
	Err         error
}

// Fanout dispatches events to all configured publishers.
type Fanout struct {
	publishers []Publisher
}

// NewFanout builds a dispatcher that fans out events across publishers.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	return &Fanout{publishers: cp}
}

// Publish forwards the event to every registered publisher. A failing
// publisher never stops the others.
func (f *Fanout) Publish(ctx context.Context, evt Event) ([]Result, error) {
	if f == nil || len(f.publishers) == 0 {
		return nil, nil
	}

	var errs []error
	results := make([]Result, 0, len(f.publishers))
	for _, p := range f.publishers {
		err := p.Publish(ctx, evt)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
		results = append(results, Result{PublisherID: p.ID(), Type: p.Type(), Err: err})
	}
	return results, errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		if c, ok := p.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close publisher %s: %w", p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
