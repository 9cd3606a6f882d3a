// Package fixtures provides recorders standing in for host command
// registries and dispatchers in tests.
package fixtures

import (
	"fmt"

	"github.com/goliatone/go-widget-classes/internal/di"
)

// RecordingRegistry satisfies di.CommandRegistry. Setting Err makes every
// registration fail.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: []any{}}
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// Types lists the dynamic type of every recorded handler.
func (r *RecordingRegistry) Types() []string {
	out := make([]string, len(r.Handlers))
	for i, handler := range r.Handlers {
		out[i] = fmt.Sprintf("%T", handler)
	}
	return out
}

// RecordingDispatcher satisfies di.CommandDispatcher and hands out
// subscriptions that remember whether they were released.
type RecordingDispatcher struct {
	Handlers      []any
	Subscriptions []*RecordingSubscription
	Err           error
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) RegisterCommand(handler any) (di.CommandSubscription, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	sub := &RecordingSubscription{Handler: handler}
	d.Handlers = append(d.Handlers, handler)
	d.Subscriptions = append(d.Subscriptions, sub)
	return sub, nil
}

// Active counts subscriptions that have not been released.
func (d *RecordingDispatcher) Active() int {
	n := 0
	for _, sub := range d.Subscriptions {
		if !sub.Unsubscribed {
			n++
		}
	}
	return n
}

type RecordingSubscription struct {
	Handler      any
	Unsubscribed bool
}

func (s *RecordingSubscription) Unsubscribe() {
	s.Unsubscribed = true
}
