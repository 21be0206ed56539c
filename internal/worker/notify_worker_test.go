package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fadebook/internal/events"
)

type fakeNotifier struct {
	mu       sync.Mutex
	failures int
	subjects []string
	bodies   []string
}

func (f *fakeNotifier) SendBookingNotification(ctx context.Context, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("temporary failure")
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeNotifier) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subjects)
}

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func samplePayload() events.BookingEventPayload {
	return events.BookingEventPayload{
		BookingID:    1,
		Date:         "2026-03-02",
		StartTime:    "10:00",
		EndTime:      "10:40",
		ServiceName:  "Taper",
		Duration:     40,
		CustomerName: "Ivan",
		Phone:        "+79990001122",
		Status:       "pending",
	}
}

func TestNotifyWorkerDelivers(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewNotifyWorker(notifier, fastRetry(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, w.Enqueue(events.EventBookingCreated, samplePayload()))
	waitFor(t, func() bool { return notifier.sent() == 1 })

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Contains(t, notifier.subjects[0], "New booking")
	assert.Contains(t, notifier.bodies[0], "Customer: Ivan")
}

func TestNotifyWorkerRetries(t *testing.T) {
	notifier := &fakeNotifier{failures: 2}
	w := NewNotifyWorker(notifier, fastRetry(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, w.Enqueue(events.EventBookingConfirmed, samplePayload()))
	waitFor(t, func() bool { return notifier.sent() == 1 })
}

func TestNotifyWorkerGivesUp(t *testing.T) {
	notifier := &fakeNotifier{failures: 10}
	w := NewNotifyWorker(notifier, fastRetry(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, w.Enqueue(events.EventBookingCreated, samplePayload()))

	// All three attempts fail, nothing gets delivered.
	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return notifier.failures == 10-3
	})
	assert.Equal(t, 0, notifier.sent())
}

func TestNotifyWorkerSubscribeTo(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewNotifyWorker(notifier, fastRetry(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	bus := events.NewEventBus()
	w.SubscribeTo(bus)

	require.NoError(t, bus.PublishJSON(events.EventBookingCanceled, samplePayload()))
	waitFor(t, func() bool { return notifier.sent() == 1 })

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Contains(t, notifier.subjects[0], "Booking canceled")
}
