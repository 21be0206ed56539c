package notifications

import (
	"fmt"
	"strings"

	"fadebook/internal/events"
)

var eventSubjects = map[string]string{
	events.EventBookingCreated:     "New booking",
	events.EventBookingConfirmed:   "Booking confirmed",
	events.EventBookingRejected:    "Booking rejected",
	events.EventBookingCanceled:    "Booking canceled",
	events.EventBookingRescheduled: "Booking rescheduled",
	events.EventBookingDeleted:     "Booking deleted",
}

// BookingSubject builds the email subject line for a booking event.
func BookingSubject(eventType string, payload events.BookingEventPayload) string {
	subject, ok := eventSubjects[eventType]
	if !ok {
		subject = "Booking update"
	}
	return fmt.Sprintf("%s: %s %s (%s)", subject, payload.Date, payload.StartTime, payload.CustomerName)
}

// BookingBody builds the plain-text email body for a booking event.
func BookingBody(payload events.BookingEventPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", payload.Date)
	fmt.Fprintf(&b, "Time: %s - %s (%d min)\n", payload.StartTime, payload.EndTime, payload.Duration)
	fmt.Fprintf(&b, "Service: %s\n", payload.ServiceName)
	if len(payload.Extras) > 0 {
		fmt.Fprintf(&b, "Extras: %s\n", strings.Join(payload.Extras, ", "))
	}
	fmt.Fprintf(&b, "Customer: %s\n", payload.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", payload.Phone)
	if payload.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", payload.Note)
	}
	fmt.Fprintf(&b, "Status: %s\n", payload.Status)
	fmt.Fprintf(&b, "Booking #%d\n", payload.BookingID)
	return b.String()
}
