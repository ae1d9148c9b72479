package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "nestbook/pkg/errors"
)

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	result, err := Do(context.Background(), 5*time.Second, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", apperrors.TransientStore("store hiccup", fmt.Errorf("connection reset"))
		}
		return "done", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "done" {
		t.Errorf("expected done, got %q", result)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_PermanentErrorShortCircuits(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), 5*time.Second, func() (string, error) {
		attempts++
		return "", apperrors.InvalidInput("bad request")
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("validation errors must not be retried, got %d attempts", attempts)
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected the original error back, got %v", err)
	}
}

func TestDoVoid_BudgetExhausted(t *testing.T) {
	attempts := 0
	err := DoVoid(context.Background(), 50*time.Millisecond, func() error {
		attempts++
		return apperrors.Timeout("still down")
	})
	if err == nil {
		t.Fatal("expected error after the budget ran out")
	}
	if attempts < 1 {
		t.Error("expected at least one attempt")
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, time.Second, func() (int, error) {
		return 0, apperrors.Timeout("down")
	})
	if err == nil {
		t.Fatal("expected error with a cancelled context")
	}
}
