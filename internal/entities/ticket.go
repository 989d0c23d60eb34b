package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"helpdesk-system/internal/engine"
)

// Ticket is one customer helpdesk ticket row.
type Ticket struct {
	ID         uint64      `json:"id"`
	NoTicket   string      `json:"no_ticket"`
	CustomerID null.String `json:"customer_id"`
	Name       null.String `json:"name"`
	Category   null.String `json:"category"`
	Status     null.String `json:"status"`
	OpenBy     null.String `json:"open_by"`

	OpenTime  null.Time `json:"open_time"`
	CloseTime null.Time `json:"close_time"`

	HandlingDurationMin float64 `json:"handling_duration_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracked projects the ticket onto the engine's unified entity view.
// Tickets have no vendor escalation and no pause columns.
func (t Ticket) Tracked() engine.TrackedEntity {
	return engine.TrackedEntity{
		OpenTime:   nullTimePtr(t.OpenTime),
		CloseTime:  nullTimePtr(t.CloseTime),
		StatusText: t.Status.String,
	}
}

// AgeHours is the ticket's age relative to now, for backlog reporting.
// Returns 0 when the open time is missing.
func (t Ticket) AgeHours(now time.Time) float64 {
	if !t.OpenTime.Valid {
		return 0
	}
	age := now.Sub(t.OpenTime.Time).Hours()
	if age < 0 {
		return 0
	}
	return age
}
