package model

import "time"

// NormalizeDate truncates a timestamp to midnight UTC. All reserved
// dates are compared at day granularity; time-of-day never matters.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange expands an inclusive [start, end] range into its normalized
// dates in ascending order. Returns nil if end precedes start.
func DateRange(start, end time.Time) []time.Time {
	from := NormalizeDate(start)
	to := NormalizeDate(end)
	if to.Before(from) {
		return nil
	}

	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// NormalizeDates maps every entry to midnight UTC, preserving order.
func NormalizeDates(dates []time.Time) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = NormalizeDate(d)
	}
	return out
}

// IntersectDates returns the normalized dates present in both slices,
// in the order they appear in a.
func IntersectDates(a, b []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(b))
	for _, d := range b {
		seen[NormalizeDate(d)] = struct{}{}
	}

	var both []time.Time
	for _, d := range a {
		n := NormalizeDate(d)
		if _, ok := seen[n]; ok {
			both = append(both, n)
			delete(seen, n)
		}
	}
	return both
}

// ContiguousDates reports whether the normalized dates form an unbroken
// ascending day sequence. Apartment bookings require this; transient
// stays do not.
func ContiguousDates(dates []time.Time) bool {
	for i := 1; i < len(dates); i++ {
		prev := NormalizeDate(dates[i-1])
		if !NormalizeDate(dates[i]).Equal(prev.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}
