package core

import (
	"fmt"
	"time"

	"nestbook/pkg/client"
	"nestbook/pkg/logger"
)

// FlowContext is the shared state a flow's steps read and write. Input
// is the caller's payload, Process holds intermediate results between
// steps, Output is what the flow returns.
type FlowContext struct {
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	Log     *logger.Logger
}

func NewFlowContext(input map[string]any, cl *client.Client, log *logger.Logger) *FlowContext {
	return &FlowContext{
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Client:  cl,
		Log:     log,
	}
}

func IsMissing(str string) bool {
	return len(str) == 0
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}

func (c *FlowContext) ExtractString(key string) string {
	raw, ok := c.Input[key]
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func (c *FlowContext) ExtractTime(key string) (time.Time, error) {
	s := c.ExtractString(key)
	if s == "" {
		return time.Time{}, MissingParamErr(key)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("param [%v] is not an RFC 3339 timestamp: %w", key, err)
	}
	return t, nil
}

// ExtractFloat accepts JSON numbers and numeric strings; decoded JSON
// gives float64 for every number.
func (c *FlowContext) ExtractFloat(key string) (float64, bool) {
	raw, ok := c.Input[key]
	if !ok {
		return 0, false
	}
	f, ok := raw.(float64)
	return f, ok
}

func (c *FlowContext) ExtractInt(key string) (int, bool) {
	f, ok := c.ExtractFloat(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func (c *FlowContext) ExtractBool(key string) bool {
	raw, ok := c.Input[key]
	if !ok {
		return false
	}
	b, _ := raw.(bool)
	return b
}

func (c *FlowContext) ExtractStringSlice(key string) []string {
	raw, ok := c.Input[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
