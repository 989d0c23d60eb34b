// Package engine is the duration and lifecycle computation core shared by
// import, analytics and recompute. It is pure: plain data in, plain data out,
// no clock reads, no storage, no logging. Bad input degrades to zeros and
// warnings instead of errors, because spreadsheet-fed helpdesk data is messy
// and a batch must always run to completion.
package engine

import "time"

// TrackedEntity is the unified minimal view of a ticket or incident that the
// engine needs. Pauses may arrive unordered or partially populated; the
// calculator tolerates both.
type TrackedEntity struct {
	OpenTime        *time.Time
	CloseTime       *time.Time
	EscalationStart *time.Time // incidents only: vendor escalation instant
	Pauses          []Interval
	StatusText      string
}

// TicketAnnotation is a ticket record plus everything the engine derived
// from it.
type TicketAnnotation struct {
	Duration DurationResult
	State    TicketState
}

// IncidentAnnotation is the incident counterpart, including the
// vendor-window view.
type IncidentAnnotation struct {
	Duration DurationResult
	State    IncidentState
}

// Compute derives the full DurationResult for one entity. Vendor fields stay
// zero when no escalation instant is present.
func (c *Calculator) Compute(e TrackedEntity) DurationResult {
	var r DurationResult
	r.GrossMinutes = c.Gross(e.OpenTime, e.CloseTime, &r.Warnings)
	r.TotalPauseMinutes = c.PauseTotal(e.Pauses)
	r.NetMinutes = c.Net(r.GrossMinutes, r.TotalPauseMinutes, &r.Warnings)

	if e.EscalationStart != nil {
		r.VendorMinutes = c.VendorGross(e.EscalationStart, e.CloseTime, &r.Warnings)
		// Only pause time inside the vendor window counts against the vendor
		// view; a pause before escalation never paused the vendor.
		var overlap float64
		for _, p := range e.Pauses {
			overlap += OverlapMinutes(p, e.EscalationStart, e.CloseTime)
		}
		r.NetVendorMinutes = c.NetVendor(r.VendorMinutes, round2(overlap), &r.Warnings)
	}
	return r
}

// AnnotateTicket runs the calculator and the ticket classifier over one
// entity. now must come from the caller; the engine never reads the clock.
func (c *Calculator) AnnotateTicket(e TrackedEntity, now time.Time) TicketAnnotation {
	return TicketAnnotation{
		Duration: c.Compute(e),
		State:    ClassifyTicket(e.StatusText, e.OpenTime, e.CloseTime, now),
	}
}

// AnnotateIncident is the incident counterpart of AnnotateTicket.
func (c *Calculator) AnnotateIncident(e TrackedEntity) IncidentAnnotation {
	return IncidentAnnotation{
		Duration: c.Compute(e),
		State:    ClassifyIncident(e.StatusText, e.CloseTime),
	}
}
