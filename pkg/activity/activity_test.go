package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-widget-classes/pkg/activity"
)

func TestEmitterStampsAndFansOut(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var got []activity.Event
	record := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		got = append(got, event)
		return nil
	})
	failing := activity.HookFunc(func(context.Context, activity.Event) error {
		return errors.New("boom")
	})

	emitter := activity.NewEmitter(activity.Hooks{failing, nil, record}, activity.WithClock(func() time.Time { return now }))
	err := emitter.Emit(context.Background(), activity.Event{Verb: "update", ObjectID: "text-2"})
	if err == nil {
		t.Fatalf("expected hook error to be returned")
	}
	if len(got) != 1 {
		t.Fatalf("expected remaining hooks to be notified, got %d events", len(got))
	}
	if got[0].Channel != activity.DefaultChannel || !got[0].OccurredAt.Equal(now) {
		t.Fatalf("unexpected stamped event %+v", got[0])
	}
}

func TestEmitterSkipsEmptyVerbAndDisabled(t *testing.T) {
	calls := 0
	hook := activity.HookFunc(func(context.Context, activity.Event) error {
		calls++
		return nil
	})

	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.WithChannel("admin"))
	if err := emitter.Emit(context.Background(), activity.Event{}); err != nil || calls != 0 {
		t.Fatalf("expected empty verb to be dropped, calls=%d err=%v", calls, err)
	}

	var disabled *activity.Emitter
	if disabled.Enabled() {
		t.Fatalf("nil emitter must report disabled")
	}
	if err := disabled.Emit(context.Background(), activity.Event{Verb: "update"}); err != nil {
		t.Fatalf("nil emitter Emit() error = %v", err)
	}
}
