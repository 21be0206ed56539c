package schedule

import "sort"

// StepMinutes is the grid step between presented slot times.
const StepMinutes = 15

// Slot statuses as presented to clients.
const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
)

// Slot is one presentable start time for a given date and duration.
type Slot struct {
	Time   string `json:"time"`
	Minute int    `json:"-"`
	Status string `json:"status"`
}

// GenerateSlots computes the slot list for one date. intervals are the
// resolved bookable ranges of the day, booked the occupied [start,end)
// intervals of blocking bookings, duration the total service length in
// minutes.
//
// Start times are anchored rather than laid on a blind grid: each interval
// contributes its own start as an anchor, and every booking that ends inside
// the interval contributes its end. Candidates advance from an anchor in
// 15-minute steps, so after a booking ends at 10:25 the next offer is 10:25,
// then 10:40, not 10:30. A candidate only survives if the anchor actually
// governing it (the latest booking end at or before it, otherwise the
// interval start) is the one that generated it; this kills stale grid points
// left over from earlier anchors.
func GenerateSlots(intervals []Interval, booked []Interval, duration int) []Slot {
	if duration <= 0 {
		return []Slot{}
	}

	statuses := make(map[int]string)

	for _, iv := range intervals {
		for _, anchor := range anchorsFor(iv, booked, duration) {
			for t := anchor; t+duration <= iv.End; t += StepMinutes {
				if governingAnchor(t, iv, booked) != anchor {
					continue
				}
				if !fitsAny(intervals, t, duration) {
					continue
				}
				if overlapsAny(booked, Interval{Start: t, End: t + duration}) {
					continue
				}
				if _, seen := statuses[t]; !seen {
					statuses[t] = SlotAvailable
				}
			}
		}
	}

	// Occupied grid points are shown as booked so clients see why a gap
	// exists; booked always wins over available at the same minute.
	for _, b := range booked {
		for t := b.Start; t < b.End; t += StepMinutes {
			statuses[t] = SlotBooked
		}
	}

	minutes := make([]int, 0, len(statuses))
	for t := range statuses {
		minutes = append(minutes, t)
	}
	sort.Ints(minutes)

	slots := make([]Slot, 0, len(minutes))
	for _, t := range minutes {
		slots = append(slots, Slot{Time: clock(t), Minute: t, Status: statuses[t]})
	}
	return slots
}

// HasCapacity reports whether at least one start time of the given duration
// remains on the day. It runs the same generator the slot listing uses, so
// admission and presentation can never disagree.
func HasCapacity(intervals []Interval, booked []Interval, duration int) bool {
	for _, s := range GenerateSlots(intervals, booked, duration) {
		if s.Status == SlotAvailable {
			return true
		}
	}
	return false
}

// Fits reports whether the candidate [start, start+duration) lies entirely
// inside one of the resolved intervals and clears every blocking booking.
func Fits(intervals []Interval, booked []Interval, start, duration int) bool {
	candidate := Interval{Start: start, End: start + duration}
	if !fitsAny(intervals, start, duration) {
		return false
	}
	return !overlapsAny(booked, candidate)
}

// anchorsFor collects the slot anchors of one interval: the interval start
// when a full appointment fits from it, plus every booking end falling
// inside the interval.
func anchorsFor(iv Interval, booked []Interval, duration int) []int {
	anchors := make([]int, 0, len(booked)+1)
	if iv.Start+duration <= iv.End {
		anchors = append(anchors, iv.Start)
	}
	for _, b := range booked {
		if b.End >= iv.Start && b.End <= iv.End {
			anchors = append(anchors, b.End)
		}
	}
	return anchors
}

// governingAnchor returns the anchor that owns minute t inside iv: the
// latest booking end at or before t, or the interval start when no booking
// has ended yet.
func governingAnchor(t int, iv Interval, booked []Interval) int {
	anchor := iv.Start
	for _, b := range booked {
		if b.End >= iv.Start && b.End <= iv.End && b.End <= t && b.End > anchor {
			anchor = b.End
		}
	}
	return anchor
}

func fitsAny(intervals []Interval, start, duration int) bool {
	for _, iv := range intervals {
		if start >= iv.Start && start+duration <= iv.End {
			return true
		}
	}
	return false
}

func overlapsAny(booked []Interval, candidate Interval) bool {
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
