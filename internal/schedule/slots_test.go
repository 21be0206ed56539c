package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availableTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Status == SlotAvailable {
			out = append(out, s.Time)
		}
	}
	return out
}

func bookedTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Status == SlotBooked {
			out = append(out, s.Time)
		}
	}
	return out
}

func TestGenerateSlotsEmptyDay(t *testing.T) {
	day := []Interval{{Start: 540, End: 720}} // 09:00-12:00

	slots := GenerateSlots(day, nil, 25)

	// 11:30 is the last grid step that still fits 25 minutes before noon.
	want := []string{
		"09:00", "09:15", "09:30", "09:45",
		"10:00", "10:15", "10:30", "10:45",
		"11:00", "11:15", "11:30",
	}
	assert.Equal(t, want, availableTimes(slots))
}

func TestGenerateSlotsAnchorAfterBooking(t *testing.T) {
	day := []Interval{{Start: 540, End: 1080}} // 09:00-18:00
	booked := []Interval{{Start: 540, End: 565}} // 09:00-09:25

	slots := GenerateSlots(day, booked, 25)

	avail := availableTimes(slots)
	require.NotEmpty(t, avail)
	// The grid restarts from the booking end, not from the next round
	// quarter hour.
	assert.Equal(t, "09:25", avail[0])
	assert.Contains(t, avail, "09:40")
	assert.NotContains(t, avail, "09:15")
	assert.NotContains(t, avail, "09:30")

	assert.Equal(t, []string{"09:00", "09:15"}, bookedTimes(slots))
}

func TestGenerateSlotsMidDayBooking(t *testing.T) {
	day := []Interval{{Start: 540, End: 720}}    // 09:00-12:00
	booked := []Interval{{Start: 600, End: 630}} // 10:00-10:30

	slots := GenerateSlots(day, booked, 30)

	avail := availableTimes(slots)
	assert.Contains(t, avail, "09:00")
	assert.Contains(t, avail, "09:30")
	// 09:45 would run into the 10:00 booking.
	assert.NotContains(t, avail, "09:45")
	assert.NotContains(t, avail, "10:00")
	assert.NotContains(t, avail, "10:15")
	// After the booking the grid resumes at its end.
	assert.Contains(t, avail, "10:30")
	assert.Contains(t, avail, "11:00")
	assert.Contains(t, avail, "11:30")

	assert.Equal(t, []string{"10:00", "10:15"}, bookedTimes(slots))
}

func TestGenerateSlotsBookedWinsAtSameMinute(t *testing.T) {
	day := []Interval{{Start: 540, End: 720}}
	booked := []Interval{{Start: 540, End: 570}} // 09:00-09:30

	slots := GenerateSlots(day, booked, 15)

	for _, s := range slots {
		if s.Time == "09:00" || s.Time == "09:15" {
			assert.Equal(t, SlotBooked, s.Status, s.Time)
		}
	}
	avail := availableTimes(slots)
	assert.Equal(t, "09:30", avail[0])
}

func TestGenerateSlotsSorted(t *testing.T) {
	day := []Interval{{Start: 780, End: 900}, {Start: 540, End: 660}}
	booked := []Interval{{Start: 600, End: 625}}

	slots := GenerateSlots(day, booked, 25)
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1].Minute, slots[i].Minute)
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	day := []Interval{{Start: 540, End: 1080}}
	booked := []Interval{{Start: 565, End: 615}, {Start: 700, End: 740}}

	first := GenerateSlots(day, booked, 40)
	second := GenerateSlots(day, booked, 40)
	assert.Equal(t, first, second)
}

func TestGenerateSlotsNoCapacity(t *testing.T) {
	assert.Empty(t, availableTimes(GenerateSlots(nil, nil, 25)))

	// Interval shorter than the service length yields nothing.
	day := []Interval{{Start: 540, End: 560}}
	assert.Empty(t, availableTimes(GenerateSlots(day, nil, 25)))
}

func TestGenerateSlotsZeroDuration(t *testing.T) {
	day := []Interval{{Start: 540, End: 720}}
	assert.Empty(t, GenerateSlots(day, nil, 0))
}

func TestHasCapacity(t *testing.T) {
	day := []Interval{{Start: 540, End: 600}} // 09:00-10:00

	assert.True(t, HasCapacity(day, nil, 60))
	assert.False(t, HasCapacity(day, nil, 61))

	full := []Interval{{Start: 540, End: 600}}
	assert.False(t, HasCapacity(day, full, 30))
}

func TestFits(t *testing.T) {
	day := []Interval{{Start: 540, End: 720}}    // 09:00-12:00
	booked := []Interval{{Start: 600, End: 630}} // 10:00-10:30

	// 10:15 collides with the booking, 10:30 is back-to-back and fine.
	assert.False(t, Fits(day, booked, 615, 30))
	assert.True(t, Fits(day, booked, 630, 30))

	// Outside the working ranges.
	assert.False(t, Fits(day, booked, 500, 30))
	// Would spill past closing.
	assert.False(t, Fits(day, booked, 700, 30))
}
