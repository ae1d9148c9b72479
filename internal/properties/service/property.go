package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	propertieserrors "nestbook/internal/properties/errors"
	"nestbook/internal/properties/repository"
	"nestbook/internal/properties/validator"
	"nestbook/pkg/config"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/geo"
	"nestbook/pkg/model"
	"nestbook/pkg/sanitizer"
)

// Archiver moves a property out of the live collection. Satisfied by
// the archive service; split into an interface so listing logic stays
// testable without one.
type Archiver interface {
	Archive(ctx context.Context, propertyID string, status model.ArchiveStatus) (*model.ArchiveRecord, error)
}

type PropertyService interface {
	Create(ctx context.Context, property *model.Property) (*model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error)
	Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, id string) error
	Nearby(ctx context.Context, origin model.Coordinates, radiusKm float64, limit int) ([]*model.Property, error)
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	archiver  Archiver
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	propertyValidator *validator.PropertyValidator,
	archiver Archiver,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: propertyValidator,
		archiver:  archiver,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, property *model.Property) (*model.Property, error) {
	s.sanitize(property)
	if property.Status == "" {
		property.Status = model.PropertyAvailable
	}

	if err := s.validate(property); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "error", err)
		return nil, apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created successfully",
		"id", property.ID,
		"type", property.Type,
		"owner_id", property.OwnerID,
	)

	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	return property, nil
}

func (s *propertyService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error) {
	var count int64
	var properties []*model.Property
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count properties", "error", errCount)
			errCount = apperrors.Internal("Failed to count properties", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		properties, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list properties", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve properties", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return properties, count, nil
}

func (s *propertyService) Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error) {
	property, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Status == model.PropertyDeleted {
		return nil, apperrors.InvalidInput("Deleting a property goes through DELETE, not a status update")
	}

	applyUpdates(property, updates)
	s.sanitize(property)

	if err := s.validate(property); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, property); err != nil {
		s.cfg.Log.Error("Failed to update property", "id", id, "error", err)
		return nil, s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Property updated successfully", "id", id)
	return property, nil
}

// Delete archives the listing instead of destroying it: the snapshot
// stays restorable until its retention window runs out.
func (s *propertyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	if _, err := s.archiver.Archive(ctx, id, model.ArchiveDeleted); err != nil {
		return err
	}

	s.cfg.Log.Info("Property deleted and archived", "id", id)
	return nil
}

// Nearby returns available listings within radiusKm of the origin,
// closest first. The candidate set is filtered in process, so this is
// for city-scale catalogs, not planet-scale ones.
func (s *propertyService) Nearby(ctx context.Context, origin model.Coordinates, radiusKm float64, limit int) ([]*model.Property, error) {
	if radiusKm <= 0 {
		return nil, apperrors.InvalidInput("radius_km must be positive")
	}

	candidates, err := s.repo.FindByStatus(ctx, model.PropertyAvailable)
	if err != nil {
		s.cfg.Log.Error("Failed to load nearby candidates", "error", err)
		return nil, apperrors.Internal("Failed to search nearby properties", err)
	}

	var nearby []*model.Property
	for _, p := range candidates {
		if geo.WithinRadius(origin, p.Coordinates, radiusKm) {
			nearby = append(nearby, p)
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return geo.DistanceKm(origin, nearby[i].Coordinates) < geo.DistanceKm(origin, nearby[j].Coordinates)
	})

	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}

	return nearby, nil
}

// --- Helpers ---

func (s *propertyService) sanitize(property *model.Property) {
	property.Title = sanitizer.SanitizeTitle(property.Title)
	property.Description = sanitizer.SanitizeDescription(property.Description)
	property.City = sanitizer.SanitizeCity(property.City)
	property.OwnerID = sanitizer.SanitizeUserID(property.OwnerID)
	property.LeaseTerms = sanitizer.SanitizeLeaseTerms(property.LeaseTerms)
}

func (s *propertyService) validate(property *model.Property) error {
	if err := s.validator.Validate(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return apperrors.Validation("Property validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func applyUpdates(property *model.Property, updates *model.PropertyUpdate) {
	if updates.Title != "" {
		property.Title = updates.Title
	}
	if updates.Description != nil {
		property.Description = *updates.Description
	}
	if updates.City != "" {
		property.City = updates.City
	}
	if updates.Status != "" {
		property.Status = updates.Status
	}
	if updates.Price != nil {
		property.Price = *updates.Price
	}
	if updates.LeaseTerms != nil {
		property.LeaseTerms = *updates.LeaseTerms
	}
	if updates.Coordinates != nil {
		property.Coordinates = *updates.Coordinates
	}
	if updates.Apartment != nil {
		property.Apartment = updates.Apartment
	}
	if updates.Transient != nil {
		property.Transient = updates.Transient
	}
}

func (s *propertyService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, propertieserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Property", id)
	case errors.Is(err, propertieserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid property ID format")
	default:
		return apperrors.Internal("Failed to access property", err)
	}
}
