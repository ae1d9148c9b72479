package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	archiveerrors "nestbook/internal/archive/errors"
	propertieserrors "nestbook/internal/properties/errors"
	"nestbook/pkg/config"
	mongotx "nestbook/pkg/db/mongo"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const testPropertyID = "507f1f77bcf86cd799439011"

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockArchiveRepository struct {
	createFunc        func(ctx context.Context, record *model.ArchiveRecord) error
	findByIDFunc      func(ctx context.Context, id string) (*model.ArchiveRecord, error)
	deleteExpiredFunc func(ctx context.Context, asOf time.Time) (int64, error)

	created        []*model.ArchiveRecord
	deleted        []string
	windowsUpdated int
}

func (m *mockArchiveRepository) Create(ctx context.Context, record *model.ArchiveRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, record)
	}
	m.created = append(m.created, record)
	return nil
}

func (m *mockArchiveRepository) FindByID(ctx context.Context, id string) (*model.ArchiveRecord, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, archiveerrors.ErrNotFound
}

func (m *mockArchiveRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ArchiveRecord, error) {
	return nil, nil
}

func (m *mockArchiveRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockArchiveRepository) UpdateWindows(ctx context.Context, id string, restoreAfter, deleteAfter *time.Time) error {
	m.windowsUpdated++
	return nil
}

func (m *mockArchiveRepository) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockArchiveRepository) FindExpired(ctx context.Context, asOf time.Time) ([]*model.ArchiveRecord, error) {
	return nil, nil
}

func (m *mockArchiveRepository) DeleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, asOf)
	}
	return 0, nil
}

func (m *mockArchiveRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockPropertyRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Property, error)

	inserted []*model.Property
	removed  []string
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return liveProperty(), nil
}

func (m *mockPropertyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockPropertyRepository) FindByStatus(ctx context.Context, status model.PropertyStatus) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, id string, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) Insert(ctx context.Context, property *model.Property) error {
	m.inserted = append(m.inserted, property)
	return nil
}

func (m *mockPropertyRepository) Remove(ctx context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockPropertyRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type recordingNotifier struct {
	alerts []*model.Alert
}

func (n *recordingNotifier) Notify(ctx context.Context, alert *model.Alert) error {
	n.alerts = append(n.alerts, alert)
	return nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func liveProperty() *model.Property {
	return &model.Property{
		ID:         testPropertyID,
		Type:       model.PropertyTransient,
		OwnerID:    "owner-1",
		Title:      "Harbor loft",
		City:       "Haifa",
		Status:     model.PropertyAvailable,
		Price:      120,
		LeaseTerms: []int{3},
		Transient:  &model.TransientDetails{MaxGuests: 4, MinStayDays: 1},
	}
}

func newTestService(t *testing.T, repo *mockArchiveRepository, props *mockPropertyRepository) (ArchiveService, *recordingNotifier) {
	t.Helper()

	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:     "info",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		RetentionWindow: 14 * 24 * time.Hour,
	}

	notifier := &recordingNotifier{}
	return NewArchiveService(repo, props, notifier, cfg), notifier
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	return apperrors.AsAppError(err).Code
}

// ────────────────────────────────────────────────
// Tests for Archive()
// ────────────────────────────────────────────────

func TestArchive_Deleted(t *testing.T) {
	repo := &mockArchiveRepository{}
	props := &mockPropertyRepository{}
	svc, notifier := newTestService(t, repo, props)

	record, err := svc.Archive(context.Background(), testPropertyID, model.ArchiveDeleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != testPropertyID {
		t.Errorf("archive must keep the property id, got %s", record.ID)
	}
	if record.Property.Title != "Harbor loft" {
		t.Error("expected the property snapshot to be embedded")
	}
	if record.DeleteAfter == nil || record.RestoreAfter == nil {
		t.Fatal("deleted archives carry retention deadlines")
	}
	wantDeadline := record.ArchivedAt.Add(14 * 24 * time.Hour)
	if !record.DeleteAfter.Equal(wantDeadline) {
		t.Errorf("expected delete_after %v, got %v", wantDeadline, record.DeleteAfter)
	}

	if len(props.removed) != 1 || props.removed[0] != testPropertyID {
		t.Error("expected the live listing to be removed")
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].Type != model.AlertPropertyArchived || notifier.alerts[0].Receiver != "owner-1" {
		t.Errorf("expected an archive alert for the owner, got %+v", notifier.alerts)
	}
}

func TestArchive_UnavailableKeepsNoDeadline(t *testing.T) {
	repo := &mockArchiveRepository{}
	svc, _ := newTestService(t, repo, &mockPropertyRepository{})

	record, err := svc.Archive(context.Background(), testPropertyID, model.ArchiveUnavailable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.DeleteAfter != nil || record.RestoreAfter != nil {
		t.Error("unavailable archives are kept until restored")
	}
}

func TestArchive_InvalidStatus(t *testing.T) {
	svc, _ := newTestService(t, &mockArchiveRepository{}, &mockPropertyRepository{})

	_, err := svc.Archive(context.Background(), testPropertyID, model.ArchiveStatus("available"))
	if code := errorCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %s", code)
	}
}

func TestArchive_AlreadyArchived(t *testing.T) {
	repo := &mockArchiveRepository{
		createFunc: func(ctx context.Context, record *model.ArchiveRecord) error {
			return archiveerrors.ErrAlreadyArchived
		},
	}
	props := &mockPropertyRepository{}
	svc, _ := newTestService(t, repo, props)

	_, err := svc.Archive(context.Background(), testPropertyID, model.ArchiveDeleted)
	if code := errorCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %s", code)
	}
	if len(props.removed) != 0 {
		t.Error("the live listing must survive a failed archive")
	}
}

func TestArchive_PropertyNotFound(t *testing.T) {
	props := &mockPropertyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return nil, propertieserrors.ErrNotFound
		},
	}
	svc, _ := newTestService(t, &mockArchiveRepository{}, props)

	_, err := svc.Archive(context.Background(), testPropertyID, model.ArchiveDeleted)
	if code := errorCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %s", code)
	}
}

// ────────────────────────────────────────────────
// Tests for Restore()
// ────────────────────────────────────────────────

func TestRestore(t *testing.T) {
	repo := &mockArchiveRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.ArchiveRecord, error) {
			return &model.ArchiveRecord{
				ID:       testPropertyID,
				Status:   model.ArchiveUnavailable,
				Property: *liveProperty(),
			}, nil
		},
	}
	props := &mockPropertyRepository{}
	svc, notifier := newTestService(t, repo, props)

	property, err := svc.Restore(context.Background(), testPropertyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Archive then restore must reproduce the record exactly as archived.
	if !reflect.DeepEqual(property, liveProperty()) {
		t.Errorf("restored listing differs from the snapshot: %+v", property)
	}
	if len(props.inserted) != 1 || props.inserted[0].ID != testPropertyID {
		t.Error("expected the snapshot reinserted under its original id")
	}
	if props.inserted[0].Status != model.PropertyAvailable {
		t.Errorf("the snapshot status must survive the round trip, got %s", props.inserted[0].Status)
	}
	if len(repo.deleted) != 1 {
		t.Error("expected the archive record to be dropped")
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].Type != model.AlertPropertyRestored {
		t.Error("expected a restore alert for the owner")
	}
}

func TestRestore_WindowClosed(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := &mockArchiveRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.ArchiveRecord, error) {
			return &model.ArchiveRecord{
				ID:           testPropertyID,
				Status:       model.ArchiveDeleted,
				Property:     *liveProperty(),
				RestoreAfter: &past,
			}, nil
		},
	}
	props := &mockPropertyRepository{}
	svc, _ := newTestService(t, repo, props)

	_, err := svc.Restore(context.Background(), testPropertyID)
	if code := errorCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %s", code)
	}
	if len(props.inserted) != 0 {
		t.Error("nothing may be restored past the deadline")
	}
}

func TestRestore_NotFound(t *testing.T) {
	svc, _ := newTestService(t, &mockArchiveRepository{}, &mockPropertyRepository{})

	_, err := svc.Restore(context.Background(), testPropertyID)
	if code := errorCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %s", code)
	}
}

// ────────────────────────────────────────────────
// Tests for SetRestoreWindow() and ExpireSweep()
// ────────────────────────────────────────────────

func TestSetRestoreWindow_PushesDeleteDeadline(t *testing.T) {
	soon := time.Now().Add(24 * time.Hour)
	repo := &mockArchiveRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.ArchiveRecord, error) {
			return &model.ArchiveRecord{
				ID:           testPropertyID,
				Status:       model.ArchiveDeleted,
				Property:     *liveProperty(),
				DeleteAfter:  &soon,
				RestoreAfter: &soon,
			}, nil
		},
	}
	svc, _ := newTestService(t, repo, &mockPropertyRepository{})

	asOf := time.Now().UTC()
	record, err := svc.SetRestoreWindow(context.Background(), testPropertyID, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The deadline is derived, not caller-supplied: asOf + retention.
	want := asOf.Add(14 * 24 * time.Hour)
	if !record.RestoreAfter.Equal(want) {
		t.Errorf("expected restore_after %v, got %v", want, record.RestoreAfter)
	}
	if !record.DeleteAfter.Equal(want) {
		t.Error("extending the restore window must push the delete deadline along")
	}
	if repo.windowsUpdated != 1 {
		t.Error("expected a single window update")
	}
}

func TestSetRestoreWindow_StaleAsOf(t *testing.T) {
	svc, _ := newTestService(t, &mockArchiveRepository{}, &mockPropertyRepository{})

	// So old that asOf + retention is already in the past.
	_, err := svc.SetRestoreWindow(context.Background(), testPropertyID, time.Now().Add(-15*24*time.Hour))
	if code := errorCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %s", code)
	}
}

func TestExpireSweep(t *testing.T) {
	repo := &mockArchiveRepository{
		deleteExpiredFunc: func(ctx context.Context, asOf time.Time) (int64, error) {
			return 3, nil
		},
	}
	svc, _ := newTestService(t, repo, &mockPropertyRepository{})

	deleted, err := svc.ExpireSweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deletions, got %d", deleted)
	}
}
