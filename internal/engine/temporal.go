package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValueKind tells which canonical form a TemporalValue carries.
type ValueKind string

const (
	KindInstant  ValueKind = "instant"
	KindDuration ValueKind = "duration"
)

// TemporalValue is a parsed raw cell: either an absolute UTC instant or a
// duration in minutes, never both. Raw keeps the original input for import
// diagnostics.
type TemporalValue struct {
	Kind    ValueKind
	Instant *time.Time
	Minutes float64
	Raw     interface{}
}

// NewInstantValue parses raw as an absolute instant.
func NewInstantValue(raw interface{}) TemporalValue {
	return TemporalValue{Kind: KindInstant, Instant: ParseInstant(raw), Raw: raw}
}

// NewDurationValue parses raw as a duration in minutes.
func NewDurationValue(raw interface{}) TemporalValue {
	return TemporalValue{Kind: KindDuration, Minutes: ParseMinutes(raw), Raw: raw}
}

// Valid reports whether parsing produced a usable value.
func (v TemporalValue) Valid() bool {
	if v.Kind == KindInstant {
		return v.Instant != nil
	}
	return v.Minutes > 0
}

// excelEpoch is 1899-12-30 UTC: serial 25569 lands on the Unix epoch.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// excelSerialToTime converts an Excel day serial (integer days, fractional
// time-of-day) to a UTC instant, rounded to the nearest second so float
// noise in the fraction does not leak into comparisons.
func excelSerialToTime(serial float64) time.Time {
	seconds := math.Round(serial * 86400)
	return excelEpoch.Add(time.Duration(seconds) * time.Second)
}

var (
	// D/M/Y with optional time, 2- or 4-digit year, separators / or -.
	dmyPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})(?:[ T](\d{1,2}):(\d{1,2})(?::(\d{1,2}))?)?$`)
	// YYYY-MM-DD with optional time.
	ymdPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[ T](\d{1,2}):(\d{1,2})(?::(\d{1,2}))?)?$`)

	hmsPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})$`)
	hmPattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

	hoursMinutesPatterns = []struct {
		re       *regexp.Regexp
		hasHours bool
		hasMins  bool
	}{
		{regexp.MustCompile(`(?i)^(\d+)h\s*(\d+)m$`), true, true},
		{regexp.MustCompile(`(?i)^(\d+)h$`), true, false},
		{regexp.MustCompile(`(?i)^(\d+)m$`), false, true},
		{regexp.MustCompile(`(?i)^(\d+)\s*hours?\s*(\d+)\s*minutes?$`), true, true},
		{regexp.MustCompile(`(?i)^(\d+)\s*hours?$`), true, false},
		{regexp.MustCompile(`(?i)^(\d+)\s*minutes?$`), false, true},
	}

	// Fallback layouts for strings the regex family does not cover.
	fallbackLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"02 Jan 2006 15:04:05",
		"02 Jan 2006",
		time.RFC1123,
	}
)

// ParseInstant normalizes a raw date cell into a UTC instant. Accepted inputs:
// native times, Excel numeric serials, D/M/Y[Y] strings with optional
// time-of-day, ISO-style Y-M-D strings, and a handful of fallback layouts.
// Anything else yields nil; malformed imports must degrade, not abort.
func ParseInstant(raw interface{}) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		u := v.UTC()
		return &u
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		u := v.UTC()
		return &u
	case float64:
		return instantFromSerial(v)
	case float32:
		return instantFromSerial(float64(v))
	case int:
		return instantFromSerial(float64(v))
	case int64:
		return instantFromSerial(float64(v))
	case string:
		return parseInstantString(v)
	}
	return nil
}

// Serials below ~1000 are too early to be real helpdesk dates; treating them
// as dates would turn stray duration cells into instants in the year 1902.
func instantFromSerial(serial float64) *time.Time {
	if !isFinite(serial) || serial <= 1000 {
		return nil
	}
	t := excelSerialToTime(serial)
	return &t
}

func parseInstantString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return instantFromSerial(n)
	}

	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		if t := buildDate(m[3], m[2], m[1], m[4], m[5], m[6]); t != nil {
			return t
		}
	}
	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		if t := buildDate(m[1], m[2], m[3], m[4], m[5], m[6]); t != nil {
			return t
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

// buildDate assembles a UTC instant from string components, applying the
// two-digit-year rule: <50 maps to 2000s, >=50 to 1900s.
func buildDate(year, month, day, hour, minute, second string) *time.Time {
	y := atoi(year)
	if y < 100 {
		if y < 50 {
			y += 2000
		} else {
			y += 1900
		}
	}
	mo, d := atoi(month), atoi(day)
	h, mi, se := atoi(hour), atoi(minute), atoi(second)

	if d < 1 || d > 31 || mo < 1 || mo > 12 || h > 23 || mi > 59 || se > 59 {
		return nil
	}
	t := time.Date(y, time.Month(mo), d, h, mi, se, 0, time.UTC)
	// time.Date normalizes overflow (31/04 becomes 01/05); reject that.
	if t.Day() != d || t.Month() != time.Month(mo) {
		return nil
	}
	return &t
}

// ParseMinutes normalizes a raw duration cell into minutes. Accepted inputs:
// native times read as time-of-day, HH:MM[:SS] strings, Excel day fractions,
// free-text hour/minute phrases, and bare numbers (minutes when small,
// seconds when >=1000). Anything else yields 0.
func ParseMinutes(raw interface{}) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case time.Time:
		if v.IsZero() {
			return 0
		}
		u := v.UTC()
		return float64(u.Hour()*60+u.Minute()) + math.Round(float64(u.Second())/60)
	case float64:
		return minutesFromNumber(v)
	case float32:
		return minutesFromNumber(float64(v))
	case int:
		return minutesFromNumber(float64(v))
	case int64:
		return minutesFromNumber(float64(v))
	case string:
		return parseMinutesString(v)
	}
	return 0
}

func parseMinutesString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return minutesFromNumber(n)
	}

	if m := hmsPattern.FindStringSubmatch(s); m != nil {
		h, mi, se := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if h <= 23 && mi <= 59 && se <= 59 {
			return float64(h*60+mi) + math.Round(float64(se)/60)
		}
	}
	if m := hmPattern.FindStringSubmatch(s); m != nil {
		h, mi := atoi(m[1]), atoi(m[2])
		if h <= 23 && mi <= 59 {
			return float64(h*60 + mi)
		}
	}

	for _, p := range hoursMinutesPatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		var total float64
		switch {
		case p.hasHours && p.hasMins:
			total = float64(atoi(m[1]))*60 + float64(atoi(m[2]))
		case p.hasHours:
			total = float64(atoi(m[1])) * 60
		default:
			total = float64(atoi(m[1]))
		}
		return total
	}

	return 0
}

// minutesFromNumber interprets a bare numeric cell: an Excel time fraction in
// (0,1), minutes when below 1000, otherwise seconds recorded by an upstream
// system that stored raw second counts.
func minutesFromNumber(n float64) float64 {
	if !isFinite(n) || n <= 0 {
		return 0
	}
	if n < 1 {
		return math.Round(n * 1440)
	}
	if n < 1000 {
		return math.Round(n)
	}
	return math.Round(n / 60)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
