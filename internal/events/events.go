// Package events is a small in-process pub/sub bus decoupling booking
// admission from side effects like owner notifications.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated     = "booking_created"
	EventBookingConfirmed   = "booking_confirmed"
	EventBookingRejected    = "booking_rejected"
	EventBookingCanceled    = "booking_canceled"
	EventBookingRescheduled = "booking_rescheduled"
	EventBookingDeleted     = "booking_deleted"
)

// BookingEventPayload is the booking snapshot carried by every booking event.
type BookingEventPayload struct {
	BookingID    int64    `json:"booking_id"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	ServiceID    string   `json:"service_id"`
	ServiceName  string   `json:"service_name,omitempty"`
	Extras       []string `json:"extras,omitempty"`
	Duration     int      `json:"duration"`
	CustomerName string   `json:"customer_name"`
	Phone        string   `json:"phone"`
	Note         string   `json:"note,omitempty"`
	Status       string   `json:"status"`
}

// Event carries a typed JSON payload through the bus.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

type EventHandler func(event *Event) error

// EventBus fans events out to subscribed handlers. Delivery is synchronous
// in the publisher's goroutine; handlers that need concurrency bring their
// own (the notification worker queues internally).
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]EventHandler)}
}

// Subscribe adds a handler for one event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Publish delivers the event to every handler of its type. Handler errors
// are the handler's problem; publishing never fails because of them.
func (b *EventBus) Publish(event *Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	b.mu.RLock()
	subscribed := make([]EventHandler, len(b.handlers[event.Type]))
	copy(subscribed, b.handlers[event.Type])
	b.mu.RUnlock()

	for _, handler := range subscribed {
		_ = handler(event)
	}
}

// PublishJSON marshals the payload and publishes it. A nil bus is a no-op,
// so callers need no notification wiring in tests.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw})
	return nil
}
