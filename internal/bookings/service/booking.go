package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"nestbook/internal/availability"
	bookingserrors "nestbook/internal/bookings/errors"
	"nestbook/internal/bookings/repository"
	"nestbook/internal/bookings/validator"
	"nestbook/pkg/config"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/model"
	"nestbook/pkg/notify"
	"nestbook/pkg/sanitizer"
	"nestbook/pkg/sealer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	SearchByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error)

	InviteCoTenants(ctx context.Context, bookingID, actorID string, tenantIDs []string) (*model.Booking, error)
	RespondToInvitation(ctx context.Context, bookingID, userID string, accept bool) (*model.Booking, error)
	RespondByToken(ctx context.Context, token string, accept bool) (*model.Booking, error)
	ApproveViewing(ctx context.Context, bookingID, actorID string, viewingDate *time.Time) (*model.Booking, error)
	ApproveBooking(ctx context.Context, bookingID, actorID string) (*model.Booking, error)
	EvictTenants(ctx context.Context, bookingID, actorID string, tenantIDs []string) (*model.Booking, error)
	Decline(ctx context.Context, bookingID, actorID string) (*model.Booking, error)

	CompleteSweep(ctx context.Context, asOf time.Time) (int, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.BookingLockRepository
	properties   repository.PropertyReader
	availability availability.Service
	validator    *validator.BookingValidator
	notifier     notify.Notifier
	sealer       *sealer.Sealer
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	properties repository.PropertyReader,
	avail availability.Service,
	bookingValidator *validator.BookingValidator,
	notifier notify.Notifier,
	tokenSealer *sealer.Sealer,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		properties:   properties,
		availability: avail,
		validator:    bookingValidator,
		notifier:     notifier,
		sealer:       tokenSealer,
		cfg:          cfg,
	}
}

// Create books the requested dates if every one of them is free. The
// conflict check and the insert run inside one transaction guarded by
// a per-property advisory lock, so two concurrent requests for
// overlapping dates cannot both succeed.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	booking, err := s.assembleBooking(req)
	if err != nil {
		return nil, err
	}

	property, err := s.loadProperty(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	booking.OwnerID = property.OwnerID

	if err := s.validate(booking); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAgainstProperty(booking, property); err != nil {
		s.cfg.Log.Warn("Booking rejected by listing rules", "property_id", property.ID, "error", err)
		return nil, apperrors.Validation("Booking violates listing rules", map[string]any{"error": err.Error()})
	}
	if !property.OffersLeaseTerm(booking.LeaseDuration) {
		return nil, apperrors.InvalidDuration(booking.LeaseDuration, property.LeaseTerms)
	}

	lockID, err := s.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release property lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		report, err := s.availability.Check(sessCtx, booking.PropertyID, booking.BookedDates)
		if err != nil {
			return err
		}
		if report.Conflict {
			return apperrors.Conflict(fmt.Sprintf(
				"Requested dates are no longer available: %s",
				formatDates(report.ConflictingDates),
			)).WithDetails(map[string]any{"conflicting_dates": report.ConflictingDates})
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "property_id", booking.PropertyID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"host_id", booking.Host().UserID,
		"dates", len(booking.BookedDates),
	)

	s.notify(ctx, &model.Alert{
		Type:       model.AlertBookingRequested,
		Message:    fmt.Sprintf("New booking request for %s", formatDates(booking.BookedDates)),
		PropertyID: booking.PropertyID,
		BookingID:  booking.ID,
		Sender:     booking.Host().UserID,
		Receiver:   booking.OwnerID,
	})

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) SearchByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error) {
	if propertyID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProperty(ctx, propertyID, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by property", "property_id", propertyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByProperty(ctx, propertyID, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search bookings", "property_id", propertyID, "error", errFind)
			errFind = apperrors.Internal("Failed to search bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

// assembleBooking turns the wire request into a booking in its initial
// state: host as the single tenant, dates normalized.
func (s *bookingService) assembleBooking(req *model.BookingRequest) (*model.Booking, error) {
	if req.HostID == "" {
		return nil, apperrors.InvalidInput("Host ID is required")
	}

	dates, err := resolveDates(req)
	if err != nil {
		return nil, err
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	return &model.Booking{
		PropertyID:    req.PropertyID,
		RequestID:     requestID,
		Tenants:       []model.Tenant{{UserID: sanitizer.SanitizeUserID(req.HostID), Status: model.TenantHost}},
		Status:        model.StatusBooked,
		BookedDates:   dates,
		LeaseDuration: req.LeaseDuration,
	}, nil
}

func resolveDates(req *model.BookingRequest) ([]time.Time, error) {
	hasList := len(req.Dates) > 0
	hasRange := req.StartDate != nil || req.EndDate != nil

	if hasList && hasRange {
		return nil, apperrors.InvalidInput("Provide either dates or a start/end range, not both")
	}

	if hasRange {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, apperrors.InvalidInput("Both start_date and end_date are required for a range")
		}
		dates := model.DateRange(*req.StartDate, *req.EndDate)
		if dates == nil {
			return nil, apperrors.InvalidInput("end_date must not precede start_date")
		}
		return dates, nil
	}

	if !hasList {
		return nil, apperrors.InvalidInput("At least one date is required")
	}

	normalized := model.NormalizeDates(req.Dates)
	seen := make(map[time.Time]struct{}, len(normalized))
	for _, d := range normalized {
		if _, dup := seen[d]; dup {
			return nil, apperrors.InvalidInput("Duplicate dates in request")
		}
		seen[d] = struct{}{}
	}
	return normalized, nil
}

func (s *bookingService) loadProperty(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPropertyNotFound) {
			return nil, apperrors.NotFoundWithID("Property", propertyID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to load property", err)
	}
	return property, nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrVersionConflict):
		return apperrors.Conflict("Booking was modified concurrently, retry the request")
	default:
		return apperrors.Internal("Failed to access booking", err)
	}
}

// notify publishes best-effort. Booking state is already committed;
// a failed alert is logged by the notifier and dropped.
func (s *bookingService) notify(ctx context.Context, alert *model.Alert) {
	if err := s.notifier.Notify(ctx, alert); err != nil {
		s.cfg.Log.Warn("Alert delivery failed", "alert_type", alert.Type, "booking_id", alert.BookingID)
	}
}

func formatDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}

// acquirePropertyLock takes the per-property advisory lock so only one
// create can run its conflict check at a time.
func (s *bookingService) acquirePropertyLock(ctx context.Context, propertyID string) (string, error) {
	lockID := fmt.Sprintf("property_lock_%s", propertyID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This property is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire property lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releasePropertyLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
