package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type stubFlow struct {
	name  string
	steps []*Step
}

func (f *stubFlow) Name() string   { return f.name }
func (f *stubFlow) Steps() []*Step { return f.steps }

func TestEngine_RunsStepsInOrder(t *testing.T) {
	var order []string
	flow := &stubFlow{
		name: "demo",
		steps: []*Step{
			NewStep("first", func(ctx *FlowContext) error {
				order = append(order, "first")
				ctx.Process["handoff"] = 42
				return nil
			}),
			NewStep("second", func(ctx *FlowContext) error {
				order = append(order, "second")
				if ctx.Process["handoff"] != 42 {
					t.Error("steps must share one context")
				}
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	ctx := NewFlowContext(map[string]any{}, nil, nil)
	if err := engine.Run("demo", ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected step order: %v", order)
	}
}

func TestEngine_FirstFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	reached := false
	flow := &stubFlow{
		name: "demo",
		steps: []*Step{
			NewStep("explode", func(ctx *FlowContext) error { return boom }),
			NewStep("unreachable", func(ctx *FlowContext) error {
				reached = true
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	err := engine.Run("demo", NewFlowContext(map[string]any{}, nil, nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected the step error, got %v", err)
	}
	if !strings.Contains(err.Error(), "explode") {
		t.Errorf("error should name the failing step: %v", err)
	}
	if reached {
		t.Error("steps after a failure must not run")
	}
}

func TestEngine_UnknownFlow(t *testing.T) {
	engine := NewEngine()
	if err := engine.Run("nope", NewFlowContext(map[string]any{}, nil, nil)); err == nil {
		t.Error("expected error for unknown flow")
	}
}

func TestExtractors(t *testing.T) {
	ctx := NewFlowContext(map[string]any{
		"name":    "loft",
		"price":   120.5,
		"limit":   float64(20),
		"active":  true,
		"ids":     []any{"a", "b", 3},
		"when":    "2025-07-01T12:00:00Z",
		"badtime": "yesterday",
	}, nil, nil)

	if got := ctx.ExtractString("name"); got != "loft" {
		t.Errorf("ExtractString = %q", got)
	}
	if got := ctx.ExtractString("missing"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}

	if f, ok := ctx.ExtractFloat("price"); !ok || f != 120.5 {
		t.Errorf("ExtractFloat = %v, %v", f, ok)
	}
	if _, ok := ctx.ExtractFloat("name"); ok {
		t.Error("a string is not a float")
	}

	if n, ok := ctx.ExtractInt("limit"); !ok || n != 20 {
		t.Errorf("ExtractInt = %v, %v", n, ok)
	}

	if !ctx.ExtractBool("active") {
		t.Error("ExtractBool should see true")
	}
	if ctx.ExtractBool("missing") {
		t.Error("missing bool defaults to false")
	}

	ids := ctx.ExtractStringSlice("ids")
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ExtractStringSlice should keep only strings, got %v", ids)
	}

	when, err := ctx.ExtractTime("when")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !when.Equal(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("ExtractTime = %v", when)
	}

	if _, err := ctx.ExtractTime("badtime"); err == nil {
		t.Error("expected error for a non-RFC3339 value")
	}
	if _, err := ctx.ExtractTime("missing"); err == nil {
		t.Error("expected error for a missing timestamp")
	}
}
