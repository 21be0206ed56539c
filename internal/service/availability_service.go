package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fadebook/internal/domain"
	"fadebook/internal/models"
	"fadebook/internal/schedule"
)

// AvailabilityService owns the working-hours configuration and is the only
// place a date's capacity is derived.
type AvailabilityService struct {
	repo   domain.Repository
	logger zerolog.Logger
}

func NewAvailabilityService(repo domain.Repository, logger zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AvailabilityService) GetWeekly(ctx context.Context) ([]models.WeeklyAvailability, error) {
	return s.repo.GetWeeklyAvailability(ctx)
}

// SaveWeekly validates and stores the weekday template. Labels of known
// days are filled in when the caller omits them.
func (s *AvailabilityService) SaveWeekly(ctx context.Context, weekly []models.WeeklyAvailability) error {
	for i, day := range weekly {
		if day.Day < 0 || day.Day > 6 {
			return fmt.Errorf("day %d out of range: %w", day.Day, schedule.ErrInvalidDate)
		}
		if err := validateRanges(day.Ranges); err != nil {
			return fmt.Errorf("day %d: %w", day.Day, err)
		}
		if day.Label == "" {
			weekly[i].Label = models.DayLabel(day.Day)
		}
	}

	if err := s.repo.SaveWeeklyAvailability(ctx, weekly); err != nil {
		return err
	}
	s.logger.Info().Int("days", len(weekly)).Msg("weekly availability saved")
	return nil
}

func (s *AvailabilityService) GetOverride(ctx context.Context, date string) (*models.DateOverride, error) {
	if _, err := schedule.ParseISODate(date); err != nil {
		return nil, err
	}
	return s.repo.GetDateOverride(ctx, date)
}

func (s *AvailabilityService) SaveOverride(ctx context.Context, override *models.DateOverride) error {
	if _, err := schedule.ParseISODate(override.Date); err != nil {
		return err
	}
	if err := validateRanges(override.Ranges); err != nil {
		return fmt.Errorf("override %s: %w", override.Date, err)
	}

	if err := s.repo.SaveDateOverride(ctx, override); err != nil {
		return err
	}
	s.logger.Info().Str("date", override.Date).Bool("active", override.Active).Msg("date override saved")
	return nil
}

// GetOverrides lists overrides, optionally bounded by an inclusive date
// range. Both bounds empty means every stored override.
func (s *AvailabilityService) GetOverrides(ctx context.Context, from, to string) (map[string]*models.DateOverride, error) {
	if from != "" || to != "" {
		if _, err := schedule.ParseISODate(from); err != nil {
			return nil, err
		}
		if _, err := schedule.ParseISODate(to); err != nil {
			return nil, err
		}
	}
	return s.repo.GetDateOverrides(ctx, from, to)
}

// ResolveDay computes the bookable intervals of a date from the override,
// if any, or the weekday template.
func (s *AvailabilityService) ResolveDay(ctx context.Context, date time.Time) (schedule.Resolution, error) {
	override, err := s.repo.GetDateOverride(ctx, schedule.DateToISO(date))
	if err != nil {
		return schedule.Resolution{}, err
	}
	weekly, err := s.repo.GetWeeklyAvailability(ctx)
	if err != nil {
		return schedule.Resolution{}, err
	}
	return schedule.ResolveDay(date, override, weekly)
}

func validateRanges(ranges []models.TimeRange) error {
	for _, r := range ranges {
		if _, err := schedule.ToMinutes(r.From); err != nil {
			return err
		}
		if _, err := schedule.ToMinutes(r.To); err != nil {
			return err
		}
	}
	return nil
}
