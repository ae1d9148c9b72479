package service

import (
	"context"
	"errors"
	"sync"

	alertserrors "nestbook/internal/alerts/errors"
	"nestbook/internal/alerts/repository"
	"nestbook/pkg/config"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/model"
)

type AlertService interface {
	// Store persists an alert arriving off the pipeline.
	Store(ctx context.Context, alert *model.Alert) error
	Inbox(ctx context.Context, receiver string, limit int, offset int64) ([]*model.Alert, int64, error)
	MarkRead(ctx context.Context, id string) error
}

type alertService struct {
	repo repository.AlertRepository
	cfg  *config.Config
}

func NewAlertService(repo repository.AlertRepository, cfg *config.Config) AlertService {
	return &alertService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *alertService) Store(ctx context.Context, alert *model.Alert) error {
	if alert.Receiver == "" {
		return apperrors.InvalidInput("Alert receiver cannot be empty")
	}
	if alert.Type == "" || alert.Message == "" {
		return apperrors.InvalidInput("Alert type and message are required")
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		s.cfg.Log.Error("Failed to store alert", "alert_type", alert.Type, "error", err)
		return apperrors.TransientStore("Failed to store alert", err)
	}

	return nil
}

func (s *alertService) Inbox(ctx context.Context, receiver string, limit int, offset int64) ([]*model.Alert, int64, error) {
	if receiver == "" {
		return nil, 0, apperrors.InvalidInput("Receiver is required")
	}

	var count int64
	var alerts []*model.Alert
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByReceiver(ctx, receiver)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count alerts", "receiver", receiver, "error", errCount)
			errCount = apperrors.Internal("Failed to count alerts", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		alerts, errFind = s.repo.FindByReceiver(ctx, receiver, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list alerts", "receiver", receiver, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve alerts", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return alerts, count, nil
}

func (s *alertService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Alert ID cannot be empty")
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		switch {
		case errors.Is(err, alertserrors.ErrNotFound):
			return apperrors.NotFoundWithID("Alert", id)
		case errors.Is(err, alertserrors.ErrInvalidID):
			return apperrors.InvalidInput("Invalid alert ID format")
		default:
			s.cfg.Log.Error("Failed to mark alert read", "id", id, "error", err)
			return apperrors.Internal("Failed to mark alert read", err)
		}
	}

	return nil
}
