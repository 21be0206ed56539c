package schedule

import (
	"fmt"
	"sort"
	"time"

	"fadebook/internal/models"
)

// Interval is a half-open [Start, End) minute range within a day.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect. Touching
// intervals (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether other fits entirely inside i.
func (i Interval) Contains(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

// Source tags where a day's resolved intervals came from.
type Source string

const (
	// SourceOverride means a date override supplied the intervals.
	SourceOverride Source = "override"
	// SourceWeekly means the weekday template supplied the intervals.
	SourceWeekly Source = "weekly"
	// SourceNone means the date has zero capacity.
	SourceNone Source = "none"
)

// Resolution is the bookable capacity of one calendar date.
type Resolution struct {
	Source    Source
	Intervals []Interval
}

// ResolveDay derives the ordered bookable intervals for a date. A date
// override, when present, fully replaces the weekday template: an inactive
// override or one without ranges suppresses the day even if the template is
// active. Without an override the weekday template applies.
func ResolveDay(date time.Time, override *models.DateOverride, weekly []models.WeeklyAvailability) (Resolution, error) {
	if override != nil {
		if !override.Active || len(override.Ranges) == 0 {
			return Resolution{Source: SourceNone}, nil
		}
		intervals, err := rangesToIntervals(override.Ranges)
		if err != nil {
			return Resolution{}, fmt.Errorf("override for %s: %w", override.Date, err)
		}
		if len(intervals) == 0 {
			return Resolution{Source: SourceNone}, nil
		}
		return Resolution{Source: SourceOverride, Intervals: intervals}, nil
	}

	weekday := int(date.Weekday())
	for _, day := range weekly {
		if day.Day != weekday || !day.Active {
			continue
		}
		intervals, err := rangesToIntervals(day.Ranges)
		if err != nil {
			return Resolution{}, fmt.Errorf("weekday %d: %w", weekday, err)
		}
		if len(intervals) == 0 {
			return Resolution{Source: SourceNone}, nil
		}
		return Resolution{Source: SourceWeekly, Intervals: intervals}, nil
	}

	return Resolution{Source: SourceNone}, nil
}

// rangesToIntervals parses admin-authored ranges into sorted, coalesced
// minute intervals. Overlapping or touching ranges are merged so downstream
// slot generation never sees the same minute twice; empty or inverted ranges
// are dropped.
func rangesToIntervals(ranges []models.TimeRange) ([]Interval, error) {
	intervals := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		from, err := ToMinutes(r.From)
		if err != nil {
			return nil, err
		}
		to, err := ToMinutes(r.To)
		if err != nil {
			return nil, err
		}
		if to <= from {
			continue
		}
		intervals = append(intervals, Interval{Start: from, End: to})
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })

	merged := intervals[:0]
	for _, iv := range intervals {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End {
			if iv.End > merged[n-1].End {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged, nil
}
