package flows

import (
	"sync"
	"time"

	"nestbook/internal/gateway/core"
	"nestbook/pkg/model"
)

const defaultNearbyLimit = 20

// NewNearbyAvailabilityFlow finds listings around a point and probes
// each one's availability for the requested stay, fanning out under
// the shared request limiter.
func NewNearbyAvailabilityFlow() core.Flow {
	return &flow{
		name: "nearby_availability",
		steps: []*core.Step{
			core.NewStep("validate_request", validateNearbyRequest),
			core.NewStep("search_nearby", searchNearby),
			core.NewStep("probe_availability", probeAvailability),
			core.NewStep("assemble_output", assembleNearbyOutput),
		},
	}
}

func validateNearbyRequest(ctx *core.FlowContext) error {
	if _, ok := ctx.ExtractFloat("lat"); !ok {
		return core.MissingParamErr("lat")
	}
	if _, ok := ctx.ExtractFloat("lng"); !ok {
		return core.MissingParamErr("lng")
	}
	if _, ok := ctx.ExtractFloat("radius_km"); !ok {
		return core.MissingParamErr("radius_km")
	}

	start, err := ctx.ExtractTime("start_date")
	if err != nil {
		return err
	}
	end, err := ctx.ExtractTime("end_date")
	if err != nil {
		return err
	}
	ctx.Process[keyStartDate] = start
	ctx.Process[keyEndDate] = end
	return nil
}

func searchNearby(ctx *core.FlowContext) error {
	lat, _ := ctx.ExtractFloat("lat")
	lng, _ := ctx.ExtractFloat("lng")
	radiusKm, _ := ctx.ExtractFloat("radius_km")

	limit, ok := ctx.ExtractInt("limit")
	if !ok || limit <= 0 {
		limit = defaultNearbyLimit
	}

	resp, err := ctx.Client.PropertyClient.Nearby(lat, lng, radiusKm, limit)
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		return err
	}

	properties, _, err := ctx.Client.PropertyClient.DecodeProperties(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyProperties] = properties
	return nil
}

type nearbyResult struct {
	Property         *model.Property `json:"property"`
	Available        bool            `json:"available"`
	ConflictingDates []time.Time     `json:"conflicting_dates,omitempty"`
}

func probeAvailability(ctx *core.FlowContext) error {
	properties := ctx.Process[keyProperties].([]*model.Property)
	start := ctx.Process[keyStartDate].(time.Time)
	end := ctx.Process[keyEndDate].(time.Time)

	results := make([]*nearbyResult, len(properties))
	errs := make([]error, len(properties))
	var wg sync.WaitGroup

	for i, property := range properties {
		wg.Add(1)
		go func(i int, property *model.Property) {
			defer wg.Done()
			core.RunWithRateLimitedConcurrency(func() {
				resp, err := ctx.Client.BookingClient.Availability(property.ID, start, end)
				if err != nil {
					errs[i] = err
					return
				}
				if err := resp.AsError(); err != nil {
					errs[i] = err
					return
				}
				report, err := ctx.Client.BookingClient.DecodeConflictReport(resp)
				if err != nil {
					errs[i] = err
					return
				}
				results[i] = &nearbyResult{
					Property:         property,
					Available:        !report.Conflict,
					ConflictingDates: report.ConflictingDates,
				}
			})
		}(i, property)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	ctx.Process["results"] = results
	return nil
}

func assembleNearbyOutput(ctx *core.FlowContext) error {
	ctx.Output["results"] = ctx.Process["results"]
	return nil
}
