package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "nestbook/internal/bookings/errors"
	"nestbook/pkg/model"
)

// CompleteSweep moves every confirmed booking whose last reserved date
// is behind asOf to booking_completed. Each booking is transitioned
// individually with a version check, so a concurrent decline simply
// wins and the sweep moves on. Returns the number completed.
func (s *bookingService) CompleteSweep(ctx context.Context, asOf time.Time) (int, error) {
	elapsed, err := s.repo.FindElapsedConfirmed(ctx, asOf)
	if err != nil {
		s.cfg.Log.Error("Failed to load elapsed bookings", "error", err)
		return 0, s.mapRepoError(err, "")
	}

	completed := 0
	for _, booking := range elapsed {
		booking.Status = model.StatusBookingCompleted

		if err := s.repo.UpdateVersioned(ctx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrVersionConflict) || errors.Is(err, bookingserrors.ErrNotFound) {
				s.cfg.Log.Info("Skipping booking changed during sweep", "id", booking.ID)
				continue
			}
			s.cfg.Log.Error("Failed to complete booking", "id", booking.ID, "error", err)
			return completed, s.mapRepoError(err, booking.ID)
		}
		completed++

		s.notifyTenants(ctx, booking, &model.Alert{
			Type:       model.AlertBookingCompleted,
			Message:    "Your booking has run its course and is now complete",
			PropertyID: booking.PropertyID,
			BookingID:  booking.ID,
		})
	}

	if completed > 0 {
		s.cfg.Log.Info("Completed elapsed bookings", "count", completed, "as_of", asOf.Format("2006-01-02"))
	}

	return completed, nil
}
