package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"helpdesk-system/internal/engine"
)

// Incident is one network/service incident row as stored. Timestamp columns
// are nullable because upstream spreadsheets routinely omit them; duration
// columns hold the engine's last computed values.
type Incident struct {
	ID       uint64      `json:"id"`
	NoCase   string      `json:"no_case"`
	NCAL     string      `json:"ncal"`
	Site     null.String `json:"site"`
	Priority null.String `json:"priority"`
	Level    null.Int64  `json:"level"`
	Problem  null.String `json:"problem"`
	Status   null.String `json:"status"`

	StartTime             null.Time `json:"start_time"`
	EndTime               null.Time `json:"end_time"`
	StartEscalationVendor null.Time `json:"start_escalation_vendor"`
	StartPause1           null.Time `json:"start_pause1"`
	EndPause1             null.Time `json:"end_pause1"`
	StartPause2           null.Time `json:"start_pause2"`
	EndPause2             null.Time `json:"end_pause2"`

	DurationMin            float64 `json:"duration_min"`
	DurationVendorMin      float64 `json:"duration_vendor_min"`
	TotalDurationPauseMin  float64 `json:"total_duration_pause_min"`
	TotalDurationVendorMin float64 `json:"total_duration_vendor_min"`
	NetDurationMin         float64 `json:"net_duration_min"`

	BatchID    null.String `json:"batch_id"`
	ImportedAt null.Time   `json:"imported_at"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Tracked projects the incident onto the engine's unified entity view.
func (i Incident) Tracked() engine.TrackedEntity {
	return engine.TrackedEntity{
		OpenTime:        nullTimePtr(i.StartTime),
		CloseTime:       nullTimePtr(i.EndTime),
		EscalationStart: nullTimePtr(i.StartEscalationVendor),
		Pauses: []engine.Interval{
			{Start: nullTimePtr(i.StartPause1), End: nullTimePtr(i.EndPause1)},
			{Start: nullTimePtr(i.StartPause2), End: nullTimePtr(i.EndPause2)},
		},
		StatusText: i.Status.String,
	}
}

func nullTimePtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
