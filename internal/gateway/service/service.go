package service

import (
	"errors"
	"sort"

	"nestbook/internal/gateway/core"
	"nestbook/internal/gateway/flows"
	"nestbook/pkg/client"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"
)

// GatewayService runs composite flows over the backing services. Flows
// are registered once at construction; execution is stateless.
type GatewayService struct {
	engine *core.Engine
	client *client.Client
	log    *logger.Logger
}

func NewGatewayService(cl *client.Client, log *logger.Logger) *GatewayService {
	engine := core.NewEngine(
		flows.NewRequestBookingFlow(),
		flows.NewPropertyOverviewFlow(),
		flows.NewNearbyAvailabilityFlow(),
	)
	return &GatewayService{
		engine: engine,
		client: cl,
		log:    log,
	}
}

func (s *GatewayService) ExecuteFlow(flowName string, input map[string]any) (map[string]any, error) {
	ctx := core.NewFlowContext(input, s.client, s.log)

	if err := s.engine.Run(flowName, ctx); err != nil {
		// Surface upstream AppErrors as-is so the handler keeps their
		// status; everything else is a pipeline failure.
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.InvalidInput(err.Error())
	}

	return ctx.Output, nil
}

func (s *GatewayService) AvailableFlows() []string {
	names := s.engine.FlowNames()
	sort.Strings(names)
	return names
}
