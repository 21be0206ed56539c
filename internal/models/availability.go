package models

// TimeRange is a half-open bookable window within a day, both bounds "HH:MM".
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WeeklyAvailability is the default template for one weekday
// (0=Sunday..6=Saturday). It is consulted only when no date override exists.
type WeeklyAvailability struct {
	Day    int         `json:"day"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
	Ranges []TimeRange `json:"ranges"`
}

// DateOverride replaces the weekly default for a single calendar date.
// Inactive or empty ranges means zero capacity for that date, even when the
// weekday template is active.
type DateOverride struct {
	Date   string      `json:"date"` // YYYY-MM-DD
	Active bool        `json:"active"`
	Ranges []TimeRange `json:"ranges"`
}

var dayLabels = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayLabel returns the English name of a weekday (0=Sunday..6=Saturday).
func DayLabel(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayLabels[day]
}

// DefaultWeeklyAvailability returns the initial template: every weekday
// inactive with a single 09:00-18:00 range, ordered Monday-first for display.
func DefaultWeeklyAvailability() []WeeklyAvailability {
	days := []struct {
		day   int
		label string
	}{
		{1, "Monday"},
		{2, "Tuesday"},
		{3, "Wednesday"},
		{4, "Thursday"},
		{5, "Friday"},
		{6, "Saturday"},
		{0, "Sunday"},
	}

	out := make([]WeeklyAvailability, 0, len(days))
	for _, d := range days {
		out = append(out, WeeklyAvailability{
			Day:    d.day,
			Label:  d.label,
			Active: false,
			Ranges: []TimeRange{{From: "09:00", To: "18:00"}},
		})
	}
	return out
}
