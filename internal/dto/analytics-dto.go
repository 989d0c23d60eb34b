package dto

// StatsRangeDTO narrows analytics queries to a start-time window. Both ends
// optional; YYYY-MM-DD when present.
type StatsRangeDTO struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// RecomputeRequestDTO controls a bulk duration recompute pass.
type RecomputeRequestDTO struct {
	// DryRun reports what would change without writing anything.
	DryRun bool `json:"dry_run"`
	// BatchID limits the pass to one import batch; empty means everything.
	BatchID string `json:"batch_id" validate:"omitempty,uuid4"`
}
