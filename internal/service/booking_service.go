package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fadebook/internal/domain"
	"fadebook/internal/events"
	"fadebook/internal/models"
	"fadebook/internal/schedule"
)

type BookingService struct {
	repo         domain.Repository
	availability domain.AvailabilityService
	catalog      *models.Catalog
	eventBus     domain.EventPublisher
	maxDaysAhead int
	logger       zerolog.Logger
}

func NewBookingService(repo domain.Repository, availability domain.AvailabilityService, catalog *models.Catalog, eventBus domain.EventPublisher, maxDaysAhead int, logger zerolog.Logger) *BookingService {
	if maxDaysAhead <= 0 {
		maxDaysAhead = models.DefaultMaxDaysAhead
	}
	return &BookingService{
		repo:         repo,
		availability: availability,
		catalog:      catalog,
		eventBus:     eventBus,
		maxDaysAhead: maxDaysAhead,
		logger:       logger,
	}
}

// SubmitBooking validates a booking request, computes its total duration
// from the catalog and admits it against the date's resolved availability.
// Admission and the conflict check run atomically in the repository.
func (s *BookingService) SubmitBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if req.Date == "" || req.Time == "" || req.ServiceID == "" || req.Customer.Name == "" || req.Customer.Phone == "" {
		return nil, ErrMissingFields
	}

	duration, err := s.totalDuration(req.ServiceID, req.Extras)
	if err != nil {
		return nil, err
	}

	date, err := schedule.ParseISODate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := schedule.ToMinutes(req.Time)
	if err != nil {
		return nil, err
	}
	startTime, err := schedule.ToClock(start)
	if err != nil {
		return nil, err
	}
	endTime, err := schedule.ToClock(start + duration)
	if err != nil {
		return nil, err
	}

	resolution, err := s.availability.ResolveDay(ctx, date)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Date:      req.Date,
		StartTime: startTime,
		EndTime:   endTime,
		ServiceID: req.ServiceID,
		Extras:    req.Extras,
		Duration:  duration,
		Customer:  req.Customer,
		Note:      req.Note,
		Status:    models.StatusPending,
	}

	if err := s.repo.CreateBookingTx(ctx, booking, resolution.Intervals); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("date", booking.Date).
		Str("start", booking.StartTime).
		Msg("booking created")

	s.publishEvent(events.EventBookingCreated, booking)
	return booking, nil
}

// SetStatus moves a booking through its lifecycle. The underlying update is
// versioned, so two concurrent status changes cannot both win.
func (s *BookingService) SetStatus(ctx context.Context, id int64, status string) (*models.Booking, error) {
	if !models.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBookingStatusWithVersion(ctx, id, booking.Version, status); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.StatusConfirmed:
		s.publishEvent(events.EventBookingConfirmed, updated)
	case models.StatusRejected:
		s.publishEvent(events.EventBookingRejected, updated)
	case models.StatusCanceled:
		s.publishEvent(events.EventBookingCanceled, updated)
	}

	return updated, nil
}

// Reschedule moves a booking to a new date and start time. The stored
// duration is reused; the booking's own interval never conflicts with
// itself.
func (s *BookingService) Reschedule(ctx context.Context, id int64, dateStr, startTime string) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	date, err := schedule.ParseISODate(dateStr)
	if err != nil {
		return nil, err
	}
	start, err := schedule.ToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	newStart, err := schedule.ToClock(start)
	if err != nil {
		return nil, err
	}
	newEnd, err := schedule.ToClock(start + booking.Duration)
	if err != nil {
		return nil, err
	}

	resolution, err := s.availability.ResolveDay(ctx, date)
	if err != nil {
		return nil, err
	}

	fromVersion := booking.Version
	booking.Date = dateStr
	booking.StartTime = newStart
	booking.EndTime = newEnd

	if err := s.repo.RescheduleBookingTx(ctx, booking, fromVersion, resolution.Intervals); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", id).
		Str("date", dateStr).
		Str("start", newStart).
		Msg("booking rescheduled")

	s.publishEvent(events.EventBookingRescheduled, updated)
	return updated, nil
}

// Delete removes the booking record entirely.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingDeleted, booking)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx)
}

func (s *BookingService) GetBookingsByDateRange(ctx context.Context, from, to string) ([]*models.Booking, error) {
	if _, err := schedule.ParseISODate(from); err != nil {
		return nil, err
	}
	if _, err := schedule.ParseISODate(to); err != nil {
		return nil, err
	}
	return s.repo.GetBookingsByDateRange(ctx, from, to)
}

// GetSlots returns the presentable slot grid of a date for the requested
// service and extras.
func (s *BookingService) GetSlots(ctx context.Context, dateStr, serviceID string, extras []string) ([]schedule.Slot, error) {
	duration, err := s.totalDuration(serviceID, extras)
	if err != nil {
		return nil, err
	}

	date, err := schedule.ParseISODate(dateStr)
	if err != nil {
		return nil, err
	}

	resolution, err := s.availability.ResolveDay(ctx, date)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.BlockingIntervals(ctx, dateStr, 0)
	if err != nil {
		return nil, err
	}

	return schedule.GenerateSlots(resolution.Intervals, booked, duration), nil
}

// GetBookableDates reports, per date inside the booking horizon, whether at
// least one slot of the requested duration remains. With no service the
// shortest catalog service is assumed; from/to narrow the window but never
// extend it past the horizon. The horizon is inclusive: today plus
// maxDaysAhead full days are offerable.
func (s *BookingService) GetBookableDates(ctx context.Context, serviceID string, extras []string, from, to string) ([]models.DateCapacity, error) {
	duration := s.shortestServiceDuration()
	if serviceID != "" {
		var err error
		if duration, err = s.totalDuration(serviceID, extras); err != nil {
			return nil, err
		}
	}

	today := time.Now()
	start := today
	end := today.AddDate(0, 0, s.maxDaysAhead)
	if from != "" {
		d, err := schedule.ParseISODate(from)
		if err != nil {
			return nil, err
		}
		if d.After(start) {
			start = d
		}
	}
	if to != "" {
		d, err := schedule.ParseISODate(to)
		if err != nil {
			return nil, err
		}
		if d.Before(end) {
			end = d
		}
	}

	dates := make([]models.DateCapacity, 0, s.maxDaysAhead+1)
	endISO := schedule.DateToISO(end)
	for date := start; schedule.DateToISO(date) <= endISO; date = date.AddDate(0, 0, 1) {
		iso := schedule.DateToISO(date)

		resolution, err := s.availability.ResolveDay(ctx, date)
		if err != nil {
			return nil, err
		}

		bookable := false
		if len(resolution.Intervals) > 0 {
			booked, err := s.repo.BlockingIntervals(ctx, iso, 0)
			if err != nil {
				return nil, err
			}
			bookable = schedule.HasCapacity(resolution.Intervals, booked, duration)
		}

		dates = append(dates, models.DateCapacity{Date: iso, Bookable: bookable})
	}
	return dates, nil
}

// totalDuration sums the service and extra durations. Unknown extras are
// skipped; the booking page may submit ids removed from the catalog.
func (s *BookingService) totalDuration(serviceID string, extras []string) (int, error) {
	svc, ok := s.catalog.Service(serviceID)
	if !ok {
		return 0, ErrUnknownService
	}
	total := svc.Duration
	for _, id := range extras {
		extra, ok := s.catalog.Extra(id)
		if !ok {
			s.logger.Debug().Str("extra", id).Msg("skipping unknown extra")
			continue
		}
		total += extra.Duration
	}
	return total, nil
}

func (s *BookingService) shortestServiceDuration() int {
	min := 0
	for _, svc := range s.catalog.Services() {
		if min == 0 || svc.Duration < min {
			min = svc.Duration
		}
	}
	if min == 0 {
		min = schedule.StepMinutes
	}
	return min
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	serviceName := booking.ServiceID
	if svc, ok := s.catalog.Service(booking.ServiceID); ok {
		serviceName = svc.Name
	}

	payload := events.BookingEventPayload{
		BookingID:    booking.ID,
		Date:         booking.Date,
		StartTime:    booking.StartTime,
		EndTime:      booking.EndTime,
		ServiceID:    booking.ServiceID,
		ServiceName:  serviceName,
		Extras:       s.catalog.ExtraNames(booking.Extras),
		Duration:     booking.Duration,
		CustomerName: booking.Customer.Name,
		Phone:        booking.Customer.Phone,
		Note:         booking.Note,
		Status:       booking.Status,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
