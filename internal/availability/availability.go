package availability

import (
	"context"
	"time"

	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

// BookingSource yields the bookings that currently hold dates on a
// property. Satisfied by the bookings repository.
type BookingSource interface {
	FindHoldingByProperty(ctx context.Context, propertyID string) ([]*model.Booking, error)
}

// Service answers date-availability questions for one property at day
// granularity. A date is taken when any holding booking reserves it;
// pending invitations do not hold dates.
type Service interface {
	Check(ctx context.Context, propertyID string, dates []time.Time) (*model.ConflictReport, error)
	TakenDates(ctx context.Context, propertyID string) ([]time.Time, error)
}

type availabilityService struct {
	source BookingSource
	log    *logger.Logger
}

func NewService(source BookingSource, log *logger.Logger) Service {
	return &availabilityService{
		source: source,
		log:    log,
	}
}

func (s *availabilityService) Check(ctx context.Context, propertyID string, dates []time.Time) (*model.ConflictReport, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if len(dates) == 0 {
		return nil, apperrors.InvalidInput("At least one date is required")
	}

	taken, err := s.TakenDates(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	conflicting := model.IntersectDates(model.NormalizeDates(dates), taken)

	return &model.ConflictReport{
		PropertyID:       propertyID,
		Conflict:         len(conflicting) > 0,
		ConflictingDates: conflicting,
	}, nil
}

// TakenDates returns the union of reserved dates across all holding
// bookings, deduplicated, in first-seen order.
func (s *availabilityService) TakenDates(ctx context.Context, propertyID string) ([]time.Time, error) {
	holding, err := s.source.FindHoldingByProperty(ctx, propertyID)
	if err != nil {
		s.log.Error("Failed to load holding bookings", "property_id", propertyID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	seen := make(map[time.Time]struct{})
	var taken []time.Time
	for _, b := range holding {
		for _, d := range b.BookedDates {
			n := model.NormalizeDate(d)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			taken = append(taken, n)
		}
	}

	return taken, nil
}
