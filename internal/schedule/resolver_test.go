package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fadebook/internal/models"
)

func weeklyAllActive() []models.WeeklyAvailability {
	weekly := models.DefaultWeeklyAvailability()
	for i := range weekly {
		weekly[i].Active = true
	}
	return weekly
}

func TestResolveDayWeekly(t *testing.T) {
	// 2026-03-02 is a Monday
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)

	res, err := ResolveDay(date, nil, weeklyAllActive())
	require.NoError(t, err)
	assert.Equal(t, SourceWeekly, res.Source)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, Interval{Start: 540, End: 1080}, res.Intervals[0])
}

func TestResolveDayInactiveWeekday(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)

	res, err := ResolveDay(date, nil, models.DefaultWeeklyAvailability())
	require.NoError(t, err)
	assert.Equal(t, SourceNone, res.Source)
	assert.Empty(t, res.Intervals)
}

func TestResolveDayOverrideReplacesWeekly(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	override := &models.DateOverride{
		Date:   "2026-03-02",
		Active: true,
		Ranges: []models.TimeRange{{From: "12:00", To: "15:00"}},
	}

	res, err := ResolveDay(date, override, weeklyAllActive())
	require.NoError(t, err)
	assert.Equal(t, SourceOverride, res.Source)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, Interval{Start: 720, End: 900}, res.Intervals[0])
}

func TestResolveDayInactiveOverrideShadowsWeekly(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	override := &models.DateOverride{
		Date:   "2026-03-02",
		Active: false,
		Ranges: []models.TimeRange{{From: "09:00", To: "18:00"}},
	}

	res, err := ResolveDay(date, override, weeklyAllActive())
	require.NoError(t, err)
	assert.Equal(t, SourceNone, res.Source)
}

func TestResolveDayOverrideWithoutRanges(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	override := &models.DateOverride{Date: "2026-03-02", Active: true}

	res, err := ResolveDay(date, override, weeklyAllActive())
	require.NoError(t, err)
	assert.Equal(t, SourceNone, res.Source)
}

func TestResolveDayMergesRanges(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	override := &models.DateOverride{
		Date:   "2026-03-02",
		Active: true,
		Ranges: []models.TimeRange{
			{From: "13:00", To: "15:00"},
			{From: "09:00", To: "11:00"},
			{From: "10:30", To: "12:00"},
			{From: "16:00", To: "16:00"}, // empty, dropped
		},
	}

	res, err := ResolveDay(date, override, nil)
	require.NoError(t, err)
	require.Len(t, res.Intervals, 2)
	assert.Equal(t, Interval{Start: 540, End: 720}, res.Intervals[0])
	assert.Equal(t, Interval{Start: 780, End: 900}, res.Intervals[1])
}

func TestResolveDayBadRange(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	override := &models.DateOverride{
		Date:   "2026-03-02",
		Active: true,
		Ranges: []models.TimeRange{{From: "zz", To: "18:00"}},
	}

	_, err := ResolveDay(date, override, nil)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Start: 600, End: 660}

	assert.True(t, a.Overlaps(Interval{Start: 615, End: 640}))
	assert.True(t, a.Overlaps(Interval{Start: 540, End: 601}))
	assert.False(t, a.Overlaps(Interval{Start: 660, End: 720}), "touching does not overlap")
	assert.False(t, a.Overlaps(Interval{Start: 540, End: 600}))
}
