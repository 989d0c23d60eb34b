package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatMinutesHMS renders a minute count as HH:MM:SS for grid display.
// Negative or NaN input renders as zero. Inverse of engine.ParseMinutes for
// whole minute values below a day.
func FormatMinutesHMS(minutes float64) string {
	if math.IsNaN(minutes) || minutes <= 0 {
		return "00:00:00"
	}
	totalSeconds := int(math.Floor(minutes * 60))
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatMinutesHuman renders a minute count as "2d 3h 45m" for dashboard
// labels; sub-minute remainders are dropped.
func FormatMinutesHuman(minutes float64) string {
	if math.IsNaN(minutes) || minutes < 1 {
		return "0m"
	}
	total := int(math.Round(minutes))
	days := total / (24 * 60)
	total %= 24 * 60
	hours := total / 60
	mins := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	return strings.Join(parts, " ")
}
