package dto

import (
	"time"

	"helpdesk-system/internal/engine"
)

// TicketDTO is the API shape of one ticket with its computed lifecycle state.
type TicketDTO struct {
	ID         uint64 `json:"id"`
	NoTicket   string `json:"no_ticket"`
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Category   string `json:"category,omitempty"`
	Status     string `json:"status,omitempty"`
	OpenBy     string `json:"open_by,omitempty"`

	OpenTime  *time.Time `json:"open_time"`
	CloseTime *time.Time `json:"close_time"`

	DurationMin float64            `json:"duration_min"`
	DurationHMS string             `json:"duration_hms"`
	State       engine.TicketState `json:"state"`
	AgeHours    float64            `json:"age_hours,omitempty"`
}

type TicketListDTO struct {
	List  []TicketDTO `json:"list"`
	Total uint64      `json:"total"`
}
