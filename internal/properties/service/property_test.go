package service

import (
	"context"
	"testing"
	"time"

	propertieserrors "nestbook/internal/properties/errors"
	"nestbook/internal/properties/validator"
	"nestbook/pkg/config"
	mongotx "nestbook/pkg/db/mongo"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

const testPropertyID = "507f1f77bcf86cd799439011"

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockPropertyRepository struct {
	createFunc       func(ctx context.Context, property *model.Property) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Property, error)
	findByStatusFunc func(ctx context.Context, status model.PropertyStatus) ([]*model.Property, error)

	updated []*model.Property
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, property)
	}
	property.ID = testPropertyID
	return nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, propertieserrors.ErrNotFound
}

func (m *mockPropertyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockPropertyRepository) FindByStatus(ctx context.Context, status model.PropertyStatus) ([]*model.Property, error) {
	if m.findByStatusFunc != nil {
		return m.findByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, id string, property *model.Property) error {
	m.updated = append(m.updated, property)
	return nil
}

func (m *mockPropertyRepository) Insert(ctx context.Context, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) Remove(ctx context.Context, id string) error {
	return nil
}

func (m *mockPropertyRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockArchiver struct {
	archived []string
	statuses []model.ArchiveStatus
}

func (m *mockArchiver) Archive(ctx context.Context, propertyID string, status model.ArchiveStatus) (*model.ArchiveRecord, error) {
	m.archived = append(m.archived, propertyID)
	m.statuses = append(m.statuses, status)
	return &model.ArchiveRecord{ID: propertyID, Status: status}, nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func newTestService(repo *mockPropertyRepository, archiver *mockArchiver) PropertyService {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:             log,
		RetentionWindow: 14 * 24 * time.Hour,
	}
	return NewPropertyService(repo, validator.NewPropertyValidator(log), archiver, cfg)
}

func availableTransient(id string, lat, lng float64) *model.Property {
	return &model.Property{
		ID:          id,
		Type:        model.PropertyTransient,
		OwnerID:     "owner-1",
		Title:       "Harbor loft",
		City:        "haifa",
		Status:      model.PropertyAvailable,
		Price:       120,
		LeaseTerms:  []int{3},
		Coordinates: model.Coordinates{Lat: lat, Lng: lng},
		Transient:   &model.TransientDetails{MaxGuests: 4, MinStayDays: 1},
	}
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreate_SanitizesAndDefaults(t *testing.T) {
	repo := &mockPropertyRepository{}
	svc := newTestService(repo, &mockArchiver{})

	property := availableTransient("", 32.79, 34.99)
	property.Status = ""
	property.Title = "  Harbor   loft "
	property.City = "Tel Aviv"
	property.LeaseTerms = []int{3, 3, 0, 7}

	created, err := svc.Create(context.Background(), property)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != model.PropertyAvailable {
		t.Errorf("expected default status available, got %s", created.Status)
	}
	if created.Title != "Harbor loft" {
		t.Errorf("expected title sanitized, got %q", created.Title)
	}
	if created.City != "telaviv" {
		t.Errorf("expected canonical city key, got %q", created.City)
	}
	if len(created.LeaseTerms) != 2 {
		t.Errorf("expected lease terms deduplicated, got %v", created.LeaseTerms)
	}
}

func TestCreate_InvalidListing(t *testing.T) {
	svc := newTestService(&mockPropertyRepository{}, &mockArchiver{})

	property := availableTransient("", 0, 0)
	property.Transient = nil

	_, err := svc.Create(context.Background(), property)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected validation code, got %v", err)
	}
}

func TestUpdate_RejectsDeletedStatus(t *testing.T) {
	repo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return availableTransient(testPropertyID, 0, 0), nil
		},
	}
	svc := newTestService(repo, &mockArchiver{})

	_, err := svc.Update(context.Background(), testPropertyID, &model.PropertyUpdate{
		Status: model.PropertyDeleted,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestUpdate_AppliesPartialFields(t *testing.T) {
	repo := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return availableTransient(testPropertyID, 0, 0), nil
		},
	}
	svc := newTestService(repo, &mockArchiver{})

	price := 150.0
	updated, err := svc.Update(context.Background(), testPropertyID, &model.PropertyUpdate{
		Price:  &price,
		Status: model.PropertyUnavailable,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Price != 150 {
		t.Errorf("expected price updated, got %v", updated.Price)
	}
	if updated.Status != model.PropertyUnavailable {
		t.Errorf("expected status updated, got %s", updated.Status)
	}
	if updated.Title != "Harbor loft" {
		t.Errorf("untouched fields must survive, got %q", updated.Title)
	}
	if len(repo.updated) != 1 {
		t.Error("expected one repository update")
	}
}

func TestDelete_ArchivesInstead(t *testing.T) {
	archiver := &mockArchiver{}
	svc := newTestService(&mockPropertyRepository{}, archiver)

	if err := svc.Delete(context.Background(), testPropertyID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archiver.archived) != 1 || archiver.archived[0] != testPropertyID {
		t.Error("expected the listing handed to the archiver")
	}
	if archiver.statuses[0] != model.ArchiveDeleted {
		t.Errorf("expected deleted archive status, got %s", archiver.statuses[0])
	}
}

func TestNearby(t *testing.T) {
	// Haifa origin; one close listing, one in Tel Aviv, one across the world.
	origin := model.Coordinates{Lat: 32.7940, Lng: 34.9896}
	repo := &mockPropertyRepository{
		findByStatusFunc: func(ctx context.Context, status model.PropertyStatus) ([]*model.Property, error) {
			if status != model.PropertyAvailable {
				t.Errorf("expected available-only candidates, got %s", status)
			}
			return []*model.Property{
				availableTransient("far", -33.86, 151.20),
				availableTransient("telaviv", 32.0853, 34.7818),
				availableTransient("near", 32.80, 34.99),
			}, nil
		},
	}
	svc := newTestService(repo, &mockArchiver{})

	nearby, err := svc.Nearby(context.Background(), origin, 150, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nearby) != 2 {
		t.Fatalf("expected 2 listings within range, got %d", len(nearby))
	}
	if nearby[0].ID != "near" || nearby[1].ID != "telaviv" {
		t.Errorf("expected closest-first ordering, got %s then %s", nearby[0].ID, nearby[1].ID)
	}
}

func TestNearby_LimitTruncates(t *testing.T) {
	repo := &mockPropertyRepository{
		findByStatusFunc: func(ctx context.Context, status model.PropertyStatus) ([]*model.Property, error) {
			return []*model.Property{
				availableTransient("a", 32.79, 34.99),
				availableTransient("b", 32.80, 34.99),
				availableTransient("c", 32.81, 34.99),
			}, nil
		},
	}
	svc := newTestService(repo, &mockArchiver{})

	nearby, err := svc.Nearby(context.Background(), model.Coordinates{Lat: 32.79, Lng: 34.99}, 50, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nearby) != 2 {
		t.Errorf("expected the limit applied, got %d", len(nearby))
	}
}

func TestNearby_InvalidRadius(t *testing.T) {
	svc := newTestService(&mockPropertyRepository{}, &mockArchiver{})

	_, err := svc.Nearby(context.Background(), model.Coordinates{}, 0, 10)
	if err == nil {
		t.Fatal("expected error for non-positive radius")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}
