package engine

import (
	"math"
	"time"
)

// Warning codes attached to DurationResult. They are data-quality annotations,
// not errors: the engine always completes and callers decide what to do.
type Warning string

const (
	WarnImplausibleDuration Warning = "IMPLAUSIBLE_DURATION"
	WarnPauseExceedsGross   Warning = "PAUSE_EXCEEDS_GROSS"
)

// WarningSet is a small ordered set of warning codes.
type WarningSet []Warning

func (ws *WarningSet) Add(w Warning) {
	if ws.Has(w) {
		return
	}
	*ws = append(*ws, w)
}

func (ws WarningSet) Has(w Warning) bool {
	for _, have := range ws {
		if have == w {
			return true
		}
	}
	return false
}

// Config carries the constants the legacy scripts hard-coded inconsistently.
// One ceiling, one tolerance, applied everywhere.
type Config struct {
	// PlausibleCeilingMin flags (never zeroes) computed durations above it.
	PlausibleCeilingMin float64
	// RecomputeToleranceMin is the max |stored - recomputed| treated as a match.
	RecomputeToleranceMin float64
}

func DefaultConfig() Config {
	return Config{
		PlausibleCeilingMin:   1440,
		RecomputeToleranceMin: 1,
	}
}

// Interval is one pause window. Either endpoint may be missing.
type Interval struct {
	Start *time.Time
	End   *time.Time
}

// DurationResult is the calculator's output for one entity. All minute values
// are >= 0 and rounded to two decimals; NetMinutes never exceeds GrossMinutes.
type DurationResult struct {
	GrossMinutes      float64    `json:"gross_minutes"`
	TotalPauseMinutes float64    `json:"total_pause_minutes"`
	NetMinutes        float64    `json:"net_minutes"`
	VendorMinutes     float64    `json:"vendor_minutes,omitempty"`
	NetVendorMinutes  float64    `json:"net_vendor_minutes,omitempty"`
	Warnings          WarningSet `json:"warnings,omitempty"`
}

func (r DurationResult) Has(w Warning) bool { return r.Warnings.Has(w) }

// Calculator computes gross, pause and net durations for tickets and
// incidents. It is stateless apart from its Config and safe for concurrent
// use.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	if cfg.PlausibleCeilingMin <= 0 {
		cfg.PlausibleCeilingMin = DefaultConfig().PlausibleCeilingMin
	}
	if cfg.RecomputeToleranceMin <= 0 {
		cfg.RecomputeToleranceMin = DefaultConfig().RecomputeToleranceMin
	}
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() Config { return c.cfg }

// round2 is the single rounding point of the computation chain: every raw
// time difference is rounded to two decimals once, and all later sums and
// clamps operate on the already-rounded terms.
func round2(minutes float64) float64 {
	return math.Round(minutes*100) / 100
}

// diffMinutes returns the clamped minute difference b-a and whether the raw
// difference was negative.
func diffMinutes(a, b *time.Time) (minutes float64, negative bool) {
	if a == nil || b == nil {
		return 0, false
	}
	d := b.Sub(*a).Minutes()
	if d < 0 {
		return 0, true
	}
	return round2(d), false
}

// Gross is the wall-clock span open..close in minutes. Close at or before
// open yields 0; a strictly negative raw span additionally flags
// IMPLAUSIBLE_DURATION, as does a span above the plausibility ceiling.
func (c *Calculator) Gross(open, close *time.Time, ws *WarningSet) float64 {
	m, negative := diffMinutes(open, close)
	if ws != nil {
		if negative || m > c.cfg.PlausibleCeilingMin {
			ws.Add(WarnImplausibleDuration)
		}
	}
	return m
}

// VendorGross measures from the vendor-escalation instant instead of the
// open time. Incident-only; same rules as Gross.
func (c *Calculator) VendorGross(escalationStart, close *time.Time, ws *WarningSet) float64 {
	return c.Gross(escalationStart, close, ws)
}

// PauseTotal sums the given pause intervals. Intervals missing an endpoint or
// running backwards contribute 0 without disturbing the others, and the sum
// does not depend on interval order.
func (c *Calculator) PauseTotal(pauses []Interval) float64 {
	var total float64
	for _, p := range pauses {
		m, _ := diffMinutes(p.Start, p.End)
		total += m
	}
	return round2(total)
}

// Net subtracts pause time from gross, clamped at zero. Pause exceeding gross
// flags PAUSE_EXCEEDS_GROSS; the result is still 0, never negative.
func (c *Calculator) Net(gross, pauseTotal float64, ws *WarningSet) float64 {
	if pauseTotal > gross {
		if ws != nil {
			ws.Add(WarnPauseExceedsGross)
		}
		return 0
	}
	return round2(gross - pauseTotal)
}

// NetVendor applies the Net clamp to the vendor-measured gross.
func (c *Calculator) NetVendor(vendorGross, pauseTotal float64, ws *WarningSet) float64 {
	return c.Net(vendorGross, pauseTotal, ws)
}

// OverlapMinutes is the portion of pause p that falls inside the window
// start..end. The importer uses it to deduct only the pause time that
// actually overlaps the vendor escalation window.
func OverlapMinutes(p Interval, start, end *time.Time) float64 {
	if p.Start == nil || p.End == nil || start == nil || end == nil {
		return 0
	}
	s := maxTime(*p.Start, *start)
	e := minTime(*p.End, *end)
	d := e.Sub(s).Minutes()
	if d <= 0 {
		return 0
	}
	return round2(d)
}

// WithinTolerance reports whether a stored minute value matches a recomputed
// one under the configured tolerance.
func (c *Calculator) WithinTolerance(stored, recomputed float64) bool {
	return math.Abs(stored-recomputed) <= c.cfg.RecomputeToleranceMin
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
