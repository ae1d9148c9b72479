package service

import (
	"context"
	"errors"
	"sync"
	"time"

	archiveerrors "nestbook/internal/archive/errors"
	"nestbook/internal/archive/repository"
	propertieserrors "nestbook/internal/properties/errors"
	propertiesrepo "nestbook/internal/properties/repository"
	"nestbook/pkg/config"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/model"
	"nestbook/pkg/notify"

	"go.mongodb.org/mongo-driver/mongo"
)

type ArchiveService interface {
	Archive(ctx context.Context, propertyID string, status model.ArchiveStatus) (*model.ArchiveRecord, error)
	GetByID(ctx context.Context, id string) (*model.ArchiveRecord, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.ArchiveRecord, int64, error)
	Restore(ctx context.Context, id string) (*model.Property, error)
	SetRestoreWindow(ctx context.Context, id string, asOf time.Time) (*model.ArchiveRecord, error)
	ExpireSweep(ctx context.Context, asOf time.Time) (int, error)
}

type archiveService struct {
	repo       repository.ArchiveRepository
	properties propertiesrepo.PropertyRepository
	notifier   notify.Notifier
	cfg        *config.Config
}

func NewArchiveService(
	repo repository.ArchiveRepository,
	properties propertiesrepo.PropertyRepository,
	notifier notify.Notifier,
	cfg *config.Config,
) ArchiveService {
	return &archiveService{
		repo:       repo,
		properties: properties,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// Archive snapshots the property and removes it from the live
// collection in one transaction. Deleted archives carry a retention
// deadline; unavailable ones are kept until restored.
func (s *archiveService) Archive(ctx context.Context, propertyID string, status model.ArchiveStatus) (*model.ArchiveRecord, error) {
	if status != model.ArchiveUnavailable && status != model.ArchiveDeleted {
		return nil, apperrors.InvalidInput("Archive status must be 'unavailable' or 'deleted'")
	}

	var record *model.ArchiveRecord

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		property, err := s.properties.FindByID(sessCtx, propertyID)
		if err != nil {
			return s.mapPropertyError(err, propertyID)
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		record = &model.ArchiveRecord{
			ID:           property.ID,
			Type:         property.Type,
			Status:       status,
			OriginalPath: propertiesrepo.CollectionName,
			Property:     *property,
			ArchivedAt:   now,
		}
		if status == model.ArchiveDeleted {
			deadline := now.Add(s.cfg.RetentionWindow)
			record.DeleteAfter = &deadline
			record.RestoreAfter = &deadline
		}

		if err := s.repo.Create(sessCtx, record); err != nil {
			return s.mapRepoError(err, propertyID)
		}
		if err := s.properties.Remove(sessCtx, propertyID); err != nil {
			return s.mapPropertyError(err, propertyID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to archive property", "id", propertyID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Property archived",
		"id", propertyID,
		"status", status,
		"delete_after", record.DeleteAfter,
	)

	s.notify(ctx, &model.Alert{
		Type:       model.AlertPropertyArchived,
		Message:    "Your property listing was archived",
		PropertyID: propertyID,
		Receiver:   record.Property.OwnerID,
	})

	return record, nil
}

func (s *archiveService) GetByID(ctx context.Context, id string) (*model.ArchiveRecord, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Archive ID cannot be empty")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return record, nil
}

func (s *archiveService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.ArchiveRecord, int64, error) {
	var count int64
	var records []*model.ArchiveRecord
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count archives", "error", errCount)
			errCount = apperrors.Internal("Failed to count archives", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		records, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list archives", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve archives", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return records, count, nil
}

// Restore reinserts the snapshot under its original id and drops the
// archive record, in one transaction. The snapshot goes back exactly
// as archived: archive followed by restore reproduces the original
// record, status included.
func (s *archiveService) Restore(ctx context.Context, id string) (*model.Property, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.RestoreAfter != nil && time.Now().After(*record.RestoreAfter) {
		return nil, apperrors.Conflict("The restore window for this archive has closed")
	}

	property := record.Property

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.properties.Insert(sessCtx, &property); err != nil {
			return apperrors.Internal("Failed to restore property", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return s.mapRepoError(err, id)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to restore property", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Property restored from archive", "id", id)

	s.notify(ctx, &model.Alert{
		Type:       model.AlertPropertyRestored,
		Message:    "Your property listing was restored from the archive",
		PropertyID: id,
		Receiver:   property.OwnerID,
	})

	return &property, nil
}

// SetRestoreWindow restarts the restore guarantee: restore_after
// becomes asOf plus the retention window. The deletion deadline is
// pushed along with it, otherwise the guarantee would be hollow.
func (s *archiveService) SetRestoreWindow(ctx context.Context, id string, asOf time.Time) (*model.ArchiveRecord, error) {
	restoreAfter := asOf.UTC().Add(s.cfg.RetentionWindow)
	if !restoreAfter.After(time.Now()) {
		return nil, apperrors.InvalidInput("as_of is too old: the computed restore window is already closed")
	}

	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var deleteAfter *time.Time
	if record.DeleteAfter != nil && restoreAfter.After(*record.DeleteAfter) {
		deleteAfter = &restoreAfter
	}

	if err := s.repo.UpdateWindows(ctx, id, &restoreAfter, deleteAfter); err != nil {
		s.cfg.Log.Error("Failed to update restore window", "id", id, "error", err)
		return nil, s.mapRepoError(err, id)
	}

	record.RestoreAfter = &restoreAfter
	if deleteAfter != nil {
		record.DeleteAfter = deleteAfter
	}

	s.cfg.Log.Info("Archive restore window updated", "id", id, "restore_after", restoreAfter)
	return record, nil
}

// ExpireSweep hard-deletes archives whose retention deadline passed.
func (s *archiveService) ExpireSweep(ctx context.Context, asOf time.Time) (int, error) {
	deleted, err := s.repo.DeleteExpired(ctx, asOf)
	if err != nil {
		s.cfg.Log.Error("Failed to expire archives", "error", err)
		return 0, apperrors.Internal("Failed to expire archives", err)
	}

	if deleted > 0 {
		s.cfg.Log.Info("Expired archives removed", "count", deleted, "as_of", asOf.Format(time.RFC3339))
	}

	return int(deleted), nil
}

// --- Helpers ---

func (s *archiveService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, archiveerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Archive", id)
	case errors.Is(err, archiveerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid archive ID format")
	case errors.Is(err, archiveerrors.ErrAlreadyArchived):
		return apperrors.Conflict("Property is already archived")
	default:
		return apperrors.Internal("Failed to access archive", err)
	}
}

func (s *archiveService) mapPropertyError(err error, id string) error {
	switch {
	case errors.Is(err, propertieserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Property", id)
	case errors.Is(err, propertieserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid property ID format")
	default:
		return apperrors.Internal("Failed to access property", err)
	}
}

func (s *archiveService) notify(ctx context.Context, alert *model.Alert) {
	if err := s.notifier.Notify(ctx, alert); err != nil {
		s.cfg.Log.Warn("Alert delivery failed", "alert_type", alert.Type, "property_id", alert.PropertyID)
	}
}
