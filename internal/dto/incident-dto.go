package dto

import (
	"time"

	"helpdesk-system/internal/engine"
)

// IncidentDTO is the API shape of one incident, annotated by the engine on
// the way out: computed durations, lifecycle state and any data-quality
// warnings.
type IncidentDTO struct {
	ID       uint64 `json:"id"`
	NoCase   string `json:"no_case"`
	NCAL     string `json:"ncal"`
	Site     string `json:"site,omitempty"`
	Priority string `json:"priority,omitempty"`
	Level    int64  `json:"level,omitempty"`
	Problem  string `json:"problem,omitempty"`
	Status   string `json:"status,omitempty"`

	StartTime             *time.Time `json:"start_time"`
	EndTime               *time.Time `json:"end_time"`
	StartEscalationVendor *time.Time `json:"start_escalation_vendor,omitempty"`

	DurationMin            float64 `json:"duration_min"`
	DurationHMS            string  `json:"duration_hms"`
	DurationHuman          string  `json:"duration_human"`
	TotalDurationPauseMin  float64 `json:"total_duration_pause_min"`
	NetDurationMin         float64 `json:"net_duration_min"`
	DurationVendorMin      float64 `json:"duration_vendor_min,omitempty"`
	TotalDurationVendorMin float64 `json:"total_duration_vendor_min,omitempty"`

	State    engine.IncidentState `json:"state"`
	Warnings engine.WarningSet    `json:"warnings,omitempty"`
}

// IncidentListDTO pairs a page of incidents with its total for pagination.
type IncidentListDTO struct {
	List  []IncidentDTO `json:"list"`
	Total uint64        `json:"total"`
}
