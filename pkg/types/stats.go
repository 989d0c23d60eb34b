package types

// IncidentStats is the aggregated incident view for the dashboard: totals,
// mean time to repair, vendor averages and the pause share of gross time.
type IncidentStats struct {
	Total         int                `json:"total"`
	Open          int                `json:"open"`
	MTTRMin       float64            `json:"mttr_min"`
	AvgVendorMin  float64            `json:"avg_vendor_min"`
	PauseRatio    float64            `json:"pause_ratio"`
	ByNCAL        map[string]int     `json:"by_ncal"`
	BySite        map[string]int     `json:"by_site"`
	ByMonth       map[string]int     `json:"by_month"`
	AvgNetByNCAL  map[string]float64 `json:"avg_net_by_ncal"`
	WarningCounts map[string]int     `json:"warning_counts"`
}

// BacklogStats summarizes ticket lifecycle classification across a set of
// tickets, plus age figures for the backlog slice.
type BacklogStats struct {
	Total          int     `json:"total"`
	Open           int     `json:"open"`
	Closed         int     `json:"closed"`
	Backlog        int     `json:"backlog"`
	AvgBacklogAgeH float64 `json:"avg_backlog_age_hours"`
	MaxBacklogAgeH float64 `json:"max_backlog_age_hours"`
}

// RecomputeReport is the outcome of one bulk duration recompute pass.
type RecomputeReport struct {
	Scanned      int      `json:"scanned"`
	Updated      int      `json:"updated"`
	Flagged      int      `json:"flagged"`
	Unchanged    int      `json:"unchanged"`
	FlaggedCases []string `json:"flagged_cases,omitempty"`
}

// ImportSummary is returned to the uploader after a workbook import.
type ImportSummary struct {
	BatchID       string   `json:"batch_id"`
	TotalRows     int      `json:"total_rows"`
	Imported      int      `json:"imported"`
	Skipped       int      `json:"skipped"`
	Failed        int      `json:"failed"`
	FixedEndTimes int      `json:"fixed_end_times"`
	RowWarnings   []string `json:"row_warnings,omitempty"`
}
