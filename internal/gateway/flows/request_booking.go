package flows

import (
	"time"

	"nestbook/internal/gateway/core"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/model"
)

// NewRequestBookingFlow wires the whole booking request in one call:
// pre-check the dates, create the booking, and invite any co-tenants
// the host named. The create re-checks availability transactionally,
// so the pre-check only exists to fail fast with a useful report.
func NewRequestBookingFlow() core.Flow {
	return &flow{
		name: "request_booking",
		steps: []*core.Step{
			core.NewStep("validate_request", validateBookingRequest),
			core.NewStep("check_availability", checkAvailability),
			core.NewStep("create_booking", createBooking),
			core.NewStep("invite_co_tenants", inviteCoTenants),
			core.NewStep("assemble_output", assembleBookingOutput),
		},
	}
}

func validateBookingRequest(ctx *core.FlowContext) error {
	if core.IsMissing(ctx.ExtractString("property_id")) {
		return core.MissingParamErr("property_id")
	}
	if core.IsMissing(ctx.ExtractString("host_id")) {
		return core.MissingParamErr("host_id")
	}
	if _, ok := ctx.ExtractInt("lease_duration"); !ok {
		return core.MissingParamErr("lease_duration")
	}

	start, startErr := ctx.ExtractTime("start_date")
	end, endErr := ctx.ExtractTime("end_date")
	if startErr == nil && endErr == nil {
		ctx.Process[keyStartDate] = start
		ctx.Process[keyEndDate] = end
	}
	return nil
}

func checkAvailability(ctx *core.FlowContext) error {
	start, hasStart := ctx.Process[keyStartDate].(time.Time)
	end, hasEnd := ctx.Process[keyEndDate].(time.Time)
	if !hasStart || !hasEnd {
		// Explicit date lists skip the pre-check; the create still
		// verifies them under the property lock.
		return nil
	}

	resp, err := ctx.Client.BookingClient.Availability(ctx.ExtractString("property_id"), start, end)
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		return err
	}

	report, err := ctx.Client.BookingClient.DecodeConflictReport(resp)
	if err != nil {
		return err
	}
	if report.Conflict {
		return apperrors.Conflict("Requested dates are not available").
			WithDetails(map[string]any{"conflicting_dates": report.ConflictingDates})
	}

	ctx.Process[keyReport] = report
	return nil
}

func createBooking(ctx *core.FlowContext) error {
	body := map[string]any{
		"property_id": ctx.ExtractString("property_id"),
		"host_id":     ctx.ExtractString("host_id"),
	}
	if duration, ok := ctx.ExtractInt("lease_duration"); ok {
		body["lease_duration"] = duration
	}
	if start, ok := ctx.Process[keyStartDate].(time.Time); ok {
		body["start_date"] = start.Format(time.RFC3339)
	}
	if end, ok := ctx.Process[keyEndDate].(time.Time); ok {
		body["end_date"] = end.Format(time.RFC3339)
	}
	if dates := ctx.ExtractStringSlice("dates"); len(dates) > 0 {
		body["dates"] = dates
	}

	resp, err := ctx.Client.BookingClient.Create(body)
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		return err
	}

	booking, err := ctx.Client.BookingClient.DecodeBooking(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyBooking] = booking
	return nil
}

func inviteCoTenants(ctx *core.FlowContext) error {
	coTenants := ctx.ExtractStringSlice("co_tenants")
	if len(coTenants) == 0 {
		return nil
	}

	booking := ctx.Process[keyBooking].(*model.Booking)

	resp, err := ctx.Client.BookingClient.Invite(booking.ID, ctx.ExtractString("host_id"), coTenants)
	if err != nil {
		return err
	}
	if err := resp.AsError(); err != nil {
		return err
	}

	updated, err := ctx.Client.BookingClient.DecodeBooking(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyBooking] = updated
	return nil
}

func assembleBookingOutput(ctx *core.FlowContext) error {
	ctx.Output["booking"] = ctx.Process[keyBooking]
	return nil
}
