package model

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{
			"already midnight UTC",
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"afternoon truncates",
			time.Date(2025, 6, 1, 15, 30, 45, 999, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"local evening crosses the UTC day boundary",
			time.Date(2025, 6, 1, 22, 0, 0, 0, loc),
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input); !got.Equal(tt.want) {
				t.Errorf("NormalizeDate(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

	dates := DateRange(start, end)
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	for i, d := range dates {
		want := time.Date(2025, 6, 1+i, 0, 0, 0, 0, time.UTC)
		if !d.Equal(want) {
			t.Errorf("dates[%d] = %v, want %v", i, d, want)
		}
	}
}

func TestDateRange_SingleDay(t *testing.T) {
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	dates := DateRange(day, day.Add(10*time.Hour))
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
}

func TestDateRange_EndBeforeStart(t *testing.T) {
	start := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if dates := DateRange(start, end); dates != nil {
		t.Errorf("expected nil, got %v", dates)
	}
}

func TestIntersectDates(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	a := []time.Time{day(1), day(2), day(3)}
	b := []time.Time{day(3).Add(5 * time.Hour), day(2), day(9)}

	both := IntersectDates(a, b)
	if len(both) != 2 {
		t.Fatalf("expected 2 shared dates, got %d", len(both))
	}
	// Order follows the first slice.
	if !both[0].Equal(day(2)) || !both[1].Equal(day(3)) {
		t.Errorf("unexpected intersection: %v", both)
	}
}

func TestIntersectDates_Disjoint(t *testing.T) {
	a := []time.Time{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	b := []time.Time{time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}
	if both := IntersectDates(a, b); len(both) != 0 {
		t.Errorf("expected no intersection, got %v", both)
	}
}

func TestIntersectDates_DuplicatesCountOnce(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := []time.Time{day, day, day}
	b := []time.Time{day}
	if both := IntersectDates(a, b); len(both) != 1 {
		t.Errorf("expected a single shared date, got %v", both)
	}
}

func TestContiguousDates(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		dates []time.Time
		want  bool
	}{
		{"empty", nil, true},
		{"single day", []time.Time{day(1)}, true},
		{"unbroken run", []time.Time{day(1), day(2), day(3)}, true},
		{"gap", []time.Time{day(1), day(3)}, false},
		{"descending", []time.Time{day(2), day(1)}, false},
		{"time of day is ignored", []time.Time{day(1).Add(23 * time.Hour), day(2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContiguousDates(tt.dates); got != tt.want {
				t.Errorf("ContiguousDates(%v) = %v, want %v", tt.dates, got, tt.want)
			}
		})
	}
}
