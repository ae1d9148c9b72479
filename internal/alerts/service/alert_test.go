package service

import (
	"context"
	"fmt"
	"testing"

	alertserrors "nestbook/internal/alerts/errors"
	"nestbook/pkg/config"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

type mockAlertRepository struct {
	createFunc   func(ctx context.Context, alert *model.Alert) error
	markReadFunc func(ctx context.Context, id string) error
}

func (m *mockAlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, alert)
	}
	return nil
}

func (m *mockAlertRepository) FindByReceiver(ctx context.Context, receiver string, limit int, offset int64) ([]*model.Alert, error) {
	return []*model.Alert{{Receiver: receiver, Type: model.AlertInvitation, Message: "hi"}}, nil
}

func (m *mockAlertRepository) CountByReceiver(ctx context.Context, receiver string) (int64, error) {
	return 1, nil
}

func (m *mockAlertRepository) MarkRead(ctx context.Context, id string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil
}

func newTestService(repo *mockAlertRepository) AlertService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:     "info",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
	return NewAlertService(repo, cfg)
}

func TestStore_RejectsIncompleteAlerts(t *testing.T) {
	svc := newTestService(&mockAlertRepository{})

	tests := []struct {
		name  string
		alert *model.Alert
	}{
		{"no receiver", &model.Alert{Type: model.AlertInvitation, Message: "hi"}},
		{"no type", &model.Alert{Receiver: "u", Message: "hi"}},
		{"no message", &model.Alert{Receiver: "u", Type: model.AlertInvitation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Store(context.Background(), tt.alert)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
				t.Errorf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestStore_RepoFailureIsRetryable(t *testing.T) {
	repo := &mockAlertRepository{
		createFunc: func(ctx context.Context, alert *model.Alert) error {
			return fmt.Errorf("write concern timeout")
		},
	}
	svc := newTestService(repo)

	err := svc.Store(context.Background(), &model.Alert{
		Receiver: "u", Type: model.AlertInvitation, Message: "hi", PropertyID: "p",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// The pipeline consumer decides retry-vs-DLQ from this.
	if !apperrors.IsRetryable(err) {
		t.Error("store failures must be retryable")
	}
}

func TestInbox(t *testing.T) {
	svc := newTestService(&mockAlertRepository{})

	alerts, count, err := svc.Inbox(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || len(alerts) != 1 {
		t.Errorf("expected one alert, got %d (count %d)", len(alerts), count)
	}

	if _, _, err := svc.Inbox(context.Background(), "", 10, 0); err == nil {
		t.Error("expected error for empty receiver")
	}
}

func TestMarkRead_MapsSentinels(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"not found", alertserrors.ErrNotFound, apperrors.CodeNotFound},
		{"bad id", alertserrors.ErrInvalidID, apperrors.CodeInvalidInput},
		{"other", fmt.Errorf("socket closed"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAlertRepository{
				markReadFunc: func(ctx context.Context, id string) error {
					return tt.repoErr
				},
			}
			err := newTestService(repo).MarkRead(context.Background(), "65a0b1c2d3e4f5a6b7c8d9e0")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := apperrors.AsAppError(err).Code; got != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, got)
			}
		})
	}
}
