package domain

import (
	"context"
	"time"

	"fadebook/internal/models"
	"fadebook/internal/schedule"
)

type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBookingTx(ctx context.Context, booking *models.Booking, intervals []schedule.Interval) error
	RescheduleBookingTx(ctx context.Context, booking *models.Booking, fromVersion int64, intervals []schedule.Interval) error
	UpdateBookingStatusWithVersion(ctx context.Context, id int64, version int64, status string) error
	DeleteBooking(ctx context.Context, id int64) error
	GetBookingsByDate(ctx context.Context, date string) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, from, to string) ([]*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	BlockingIntervals(ctx context.Context, date string, excludeID int64) ([]schedule.Interval, error)

	GetWeeklyAvailability(ctx context.Context) ([]models.WeeklyAvailability, error)
	SaveWeeklyAvailability(ctx context.Context, weekly []models.WeeklyAvailability) error
	GetDateOverride(ctx context.Context, date string) (*models.DateOverride, error)
	SaveDateOverride(ctx context.Context, override *models.DateOverride) error
	GetDateOverrides(ctx context.Context, from, to string) (map[string]*models.DateOverride, error)
}

// AccessStateRepository keeps the short-lived state of the access gate:
// failed attempt counters and lockouts.
type AccessStateRepository interface {
	IncrementAttempts(ctx context.Context, clientID string) (int, error)
	ClearAttempts(ctx context.Context, clientID string) error
	Lock(ctx context.Context, clientID string, until time.Time) error
	LockedUntil(ctx context.Context, clientID string) (time.Time, bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier delivers a booking notification to the shop owner.
type Notifier interface {
	SendBookingNotification(ctx context.Context, subject, body string) error
}

type BookingService interface {
	SubmitBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, from, to string) ([]*models.Booking, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.Booking, error)
	Reschedule(ctx context.Context, id int64, date, startTime string) (*models.Booking, error)
	Delete(ctx context.Context, id int64) error
	GetSlots(ctx context.Context, date, serviceID string, extras []string) ([]schedule.Slot, error)
	GetBookableDates(ctx context.Context, serviceID string, extras []string, from, to string) ([]models.DateCapacity, error)
}

type AvailabilityService interface {
	GetWeekly(ctx context.Context) ([]models.WeeklyAvailability, error)
	SaveWeekly(ctx context.Context, weekly []models.WeeklyAvailability) error
	GetOverride(ctx context.Context, date string) (*models.DateOverride, error)
	SaveOverride(ctx context.Context, override *models.DateOverride) error
	GetOverrides(ctx context.Context, from, to string) (map[string]*models.DateOverride, error)
	ResolveDay(ctx context.Context, date time.Time) (schedule.Resolution, error)
}

type AccessService interface {
	Verify(ctx context.Context, clientID, code string) (string, error)
}
