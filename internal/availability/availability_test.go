package availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

type mockBookingSource struct {
	findHoldingFunc func(ctx context.Context, propertyID string) ([]*model.Booking, error)
}

func (m *mockBookingSource) FindHoldingByProperty(ctx context.Context, propertyID string) ([]*model.Booking, error) {
	if m.findHoldingFunc != nil {
		return m.findHoldingFunc(ctx, propertyID)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestCheck_NoHoldingBookings(t *testing.T) {
	svc := NewService(&mockBookingSource{}, testLogger())

	report, err := svc.Check(context.Background(), "prop-1", []time.Time{day(1), day(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Conflict {
		t.Error("expected no conflict on an empty calendar")
	}
	if len(report.ConflictingDates) != 0 {
		t.Errorf("expected no conflicting dates, got %v", report.ConflictingDates)
	}
}

func TestCheck_OverlapReported(t *testing.T) {
	source := &mockBookingSource{
		findHoldingFunc: func(ctx context.Context, propertyID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{Status: model.StatusBooked, BookedDates: []time.Time{day(2), day(3)}},
				{Status: model.StatusBookingConfirmed, BookedDates: []time.Time{day(5)}},
			}, nil
		},
	}
	svc := NewService(source, testLogger())

	report, err := svc.Check(context.Background(), "prop-1", []time.Time{day(1), day(3), day(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Conflict {
		t.Fatal("expected a conflict")
	}
	if len(report.ConflictingDates) != 2 {
		t.Fatalf("expected 2 conflicting dates, got %v", report.ConflictingDates)
	}
	if !report.ConflictingDates[0].Equal(day(3)) || !report.ConflictingDates[1].Equal(day(5)) {
		t.Errorf("unexpected conflicting dates: %v", report.ConflictingDates)
	}
}

func TestCheck_TimeOfDayIgnored(t *testing.T) {
	source := &mockBookingSource{
		findHoldingFunc: func(ctx context.Context, propertyID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{Status: model.StatusBooked, BookedDates: []time.Time{day(2).Add(18 * time.Hour)}},
			}, nil
		},
	}
	svc := NewService(source, testLogger())

	report, err := svc.Check(context.Background(), "prop-1", []time.Time{day(2).Add(3 * time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Conflict {
		t.Error("expected conflict regardless of time of day")
	}
}

func TestCheck_InvalidInput(t *testing.T) {
	svc := NewService(&mockBookingSource{}, testLogger())

	if _, err := svc.Check(context.Background(), "", []time.Time{day(1)}); err == nil {
		t.Error("expected error for empty property id")
	}
	if _, err := svc.Check(context.Background(), "prop-1", nil); err == nil {
		t.Error("expected error for empty date list")
	}
}

func TestCheck_SourceError(t *testing.T) {
	source := &mockBookingSource{
		findHoldingFunc: func(ctx context.Context, propertyID string) ([]*model.Booking, error) {
			return nil, fmt.Errorf("DB failure")
		},
	}
	svc := NewService(source, testLogger())

	_, err := svc.Check(context.Background(), "prop-1", []time.Time{day(1)})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInternal {
		t.Errorf("expected internal error code, got %s", appErr.Code)
	}
}

func TestTakenDates_Deduplicated(t *testing.T) {
	source := &mockBookingSource{
		findHoldingFunc: func(ctx context.Context, propertyID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{BookedDates: []time.Time{day(1), day(2)}},
				{BookedDates: []time.Time{day(2), day(3)}},
			}, nil
		},
	}
	svc := NewService(source, testLogger())

	taken, err := svc.TakenDates(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(taken) != 3 {
		t.Errorf("expected 3 distinct dates, got %v", taken)
	}
}
