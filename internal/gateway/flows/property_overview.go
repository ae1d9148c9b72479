package flows

import (
	"time"

	"nestbook/internal/gateway/core"
	"nestbook/pkg/model"
)

const maxBookingsPerOverview = 50

// NewPropertyOverviewFlow joins a listing with its active bookings and
// the union of dates they hold, in one gateway round trip.
func NewPropertyOverviewFlow() core.Flow {
	return &flow{
		name: "property_overview",
		steps: []*core.Step{
			core.NewStep("validate_request", validateOverviewRequest),
			core.NewStep("fetch_property", fetchProperty),
			core.NewStep("fetch_active_bookings", fetchActiveBookings),
			core.NewStep("assemble_output", assembleOverviewOutput),
		},
	}
}

func validateOverviewRequest(ctx *core.FlowContext) error {
	if core.IsMissing(ctx.ExtractString("property_id")) {
		return core.MissingParamErr("property_id")
	}
	return nil
}

func fetchProperty(ctx *core.FlowContext) error {
	resp, err := ctx.Client.PropertyClient.GetByID(ctx.ExtractString("property_id"))
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		return err
	}

	property, err := ctx.Client.PropertyClient.DecodeProperty(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyProperty] = property
	return nil
}

func fetchActiveBookings(ctx *core.FlowContext) error {
	resp, err := ctx.Client.BookingClient.Search(ctx.ExtractString("property_id"), true, maxBookingsPerOverview, 0)
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		return err
	}

	bookings, meta, err := ctx.Client.BookingClient.DecodeBookings(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyBookings] = bookings
	ctx.Process["total_active"] = meta.TotalCount
	return nil
}

func assembleOverviewOutput(ctx *core.FlowContext) error {
	bookings := ctx.Process[keyBookings].([]*model.Booking)

	seen := make(map[time.Time]struct{})
	var taken []time.Time
	for _, b := range bookings {
		if !b.Status.HoldsDates() {
			continue
		}
		for _, d := range b.BookedDates {
			n := model.NormalizeDate(d)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			taken = append(taken, n)
		}
	}

	ctx.Output["property"] = ctx.Process[keyProperty]
	ctx.Output["active_bookings"] = bookings
	ctx.Output["total_active"] = ctx.Process["total_active"]
	ctx.Output["taken_dates"] = taken
	return nil
}
