package flows

import (
	"nestbook/internal/gateway/core"
)

// flow is the common shape every registered flow uses: a name and an
// ordered step chain.
type flow struct {
	name  string
	steps []*core.Step
}

func (f *flow) Name() string        { return f.name }
func (f *flow) Steps() []*core.Step { return f.steps }

// Process keys shared between steps.
const (
	keyProperty   = "property"
	keyProperties = "properties"
	keyBooking    = "booking"
	keyBookings   = "bookings"
	keyReport     = "conflict_report"
	keyStartDate  = "start_date"
	keyEndDate    = "end_date"
)
