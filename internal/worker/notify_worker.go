package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fadebook/internal/domain"
	"fadebook/internal/events"
	"fadebook/internal/metrics"
	"fadebook/internal/models"
	"fadebook/internal/notifications"
)

// NotifyTask is one owner notification waiting for delivery.
type NotifyTask struct {
	ID        string
	EventType string
	Payload   events.BookingEventPayload
	CreatedAt time.Time
}

// NotifyWorker drains booking events into owner emails, retrying transient
// delivery failures with backoff. Notification delivery is fire-and-forget
// from the booking flow's point of view: a full queue drops the task rather
// than blocking an admission.
type NotifyWorker struct {
	notifier    domain.Notifier
	retryPolicy RetryPolicy
	queue       chan NotifyTask
	logger      zerolog.Logger
}

func NewNotifyWorker(notifier domain.Notifier, retry RetryPolicy, logger zerolog.Logger) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &NotifyWorker{
		notifier:    notifier,
		retryPolicy: retry,
		queue:       make(chan NotifyTask, models.NotifyQueueSize),
		logger:      logger.With().Str("component", "notify_worker").Logger(),
	}
}

// SubscribeTo wires the worker to every booking event on the bus.
func (w *NotifyWorker) SubscribeTo(bus *events.EventBus) {
	types := []string{
		events.EventBookingCreated,
		events.EventBookingConfirmed,
		events.EventBookingRejected,
		events.EventBookingCanceled,
		events.EventBookingRescheduled,
		events.EventBookingDeleted,
	}
	for _, eventType := range types {
		bus.Subscribe(eventType, w.handleEvent)
	}
}

func (w *NotifyWorker) handleEvent(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		w.logger.Error().Err(err).Str("event_type", event.Type).Msg("bad event payload")
		return err
	}
	return w.Enqueue(event.Type, payload)
}

// Enqueue schedules a notification without blocking the caller.
func (w *NotifyWorker) Enqueue(eventType string, payload events.BookingEventPayload) error {
	task := NotifyTask{
		ID:        uuid.NewString(),
		EventType: eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	select {
	case w.queue <- task:
		return nil
	default:
		w.logger.Warn().Str("task_id", task.ID).Int64("booking_id", payload.BookingID).Msg("notify queue full, dropping task")
		metrics.IncNotificationDropped()
		return nil
	}
}

// Start consumes the queue until ctx is canceled.
func (w *NotifyWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case task := <-w.queue:
				w.process(ctx, task)
			}
		}
	}()
}

func (w *NotifyWorker) process(ctx context.Context, task NotifyTask) {
	subject := notifications.BookingSubject(task.EventType, task.Payload)
	body := notifications.BookingBody(task.Payload)

	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.notifier.SendBookingNotification(ctx, subject, body)
		if err == nil {
			w.logger.Info().
				Str("task_id", task.ID).
				Int64("booking_id", task.Payload.BookingID).
				Str("event_type", task.EventType).
				Msg("notification sent")
			metrics.IncNotificationSent()
			return
		}

		w.logger.Warn().
			Err(err).
			Str("task_id", task.ID).
			Int("attempt", attempt).
			Msg("notification delivery failed")

		if attempt == w.retryPolicy.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}

	w.logger.Error().
		Str("task_id", task.ID).
		Int64("booking_id", task.Payload.BookingID).
		Msg("notification abandoned after retries")
	metrics.IncNotificationFailed()
}

// QueueLen reports the number of pending tasks.
func (w *NotifyWorker) QueueLen() int {
	return len(w.queue)
}
