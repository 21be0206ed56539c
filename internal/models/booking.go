package models

import "time"

// Customer is the contact information captured with a booking.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Booking is a scheduled appointment occupying [StartTime, EndTime) on Date.
// Duration is fixed at admission time (service + extras) and reused on
// reschedule; it is never recomputed from the catalog afterwards.
type Booking struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	ServiceID string    `json:"service_id"`
	Extras    []string  `json:"extras"`
	Duration  int       `json:"duration"` // minutes
	Customer  Customer  `json:"customer"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// BookingRequest is the client payload for a new booking.
type BookingRequest struct {
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	ServiceID string   `json:"service_id"`
	Extras    []string `json:"extras"`
	Note      string   `json:"note"`
	Customer  Customer `json:"customer"`
}

// DateCapacity reports whether a calendar date still has at least one
// offerable slot for a given duration.
type DateCapacity struct {
	Date     string `json:"date"`
	Bookable bool   `json:"bookable"`
}
