package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fadebook/internal/database"
	"fadebook/internal/models"
	"fadebook/internal/schedule"
)

func setupAvailability(t *testing.T) *AvailabilityService {
	db, err := database.NewDB(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAvailabilityService(db, zerolog.Nop())
}

func TestSaveWeeklyValidation(t *testing.T) {
	svc := setupAvailability(t)
	ctx := context.Background()

	weekly := models.DefaultWeeklyAvailability()
	weekly[0].Day = 7
	assert.Error(t, svc.SaveWeekly(ctx, weekly))

	weekly = models.DefaultWeeklyAvailability()
	weekly[0].Ranges = []models.TimeRange{{From: "25:00", To: "26:00"}}
	err := svc.SaveWeekly(ctx, weekly)
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeFormat)
}

func TestSaveWeeklyFillsLabels(t *testing.T) {
	svc := setupAvailability(t)
	ctx := context.Background()

	weekly := []models.WeeklyAvailability{
		{Day: 1, Active: true, Ranges: []models.TimeRange{{From: "09:00", To: "18:00"}}},
	}
	require.NoError(t, svc.SaveWeekly(ctx, weekly))

	got, err := svc.GetWeekly(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Monday", got[0].Label)
}

func TestSaveOverrideValidation(t *testing.T) {
	svc := setupAvailability(t)
	ctx := context.Background()

	err := svc.SaveOverride(ctx, &models.DateOverride{Date: "02.03.2026", Active: true})
	assert.ErrorIs(t, err, schedule.ErrInvalidDate)

	err = svc.SaveOverride(ctx, &models.DateOverride{
		Date:   "2026-03-02",
		Active: true,
		Ranges: []models.TimeRange{{From: "nine", To: "18:00"}},
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeFormat)
}

func TestResolveDayPrefersOverride(t *testing.T) {
	svc := setupAvailability(t)
	ctx := context.Background()

	weekly := models.DefaultWeeklyAvailability()
	for i := range weekly {
		weekly[i].Active = true
	}
	require.NoError(t, svc.SaveWeekly(ctx, weekly))

	require.NoError(t, svc.SaveOverride(ctx, &models.DateOverride{
		Date:   "2026-03-02",
		Active: true,
		Ranges: []models.TimeRange{{From: "12:00", To: "15:00"}},
	}))

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	res, err := svc.ResolveDay(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceOverride, res.Source)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, schedule.Interval{Start: 720, End: 900}, res.Intervals[0])

	// A date without an override falls back to the weekday template.
	other := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.Local)
	res, err = svc.ResolveDay(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceWeekly, res.Source)
}
