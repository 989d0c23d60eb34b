package engine

import (
	"strings"
	"time"
)

// TicketState is the computed lifecycle state of a ticket.
type TicketState string

const (
	TicketOpen    TicketState = "OPEN"
	TicketClosed  TicketState = "CLOSED"
	TicketBacklog TicketState = "BACKLOG"
)

// IncidentState is the simpler two-state incident variant.
type IncidentState string

const (
	IncidentOpen   IncidentState = "OPEN"
	IncidentClosed IncidentState = "CLOSED"
)

const backlogSpanDays = 30

var (
	closedSynonyms = map[string]struct{}{
		"closed": {}, "close": {}, "close ticket": {},
	}
	openSynonyms = map[string]struct{}{
		"open": {}, "open ticket": {},
	}
	incidentDoneSynonyms = map[string]struct{}{
		"done": {}, "closed": {}, "close": {}, "resolved": {},
	}
)

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// closeTimeUntrusted reports whether the close timestamp cannot be taken at
// face value: absent, in the future, more than 30 days after open, or in a
// calendar month after open's month. Any of these demotes the ticket to
// BACKLOG regardless of what its status text claims.
func closeTimeUntrusted(openTime, closeTime *time.Time, now time.Time) bool {
	if closeTime == nil {
		return true
	}
	if closeTime.After(now) {
		return true
	}
	if openTime == nil {
		return false
	}
	if closeTime.Sub(*openTime).Hours() > backlogSpanDays*24 {
		return true
	}
	oy, om, _ := openTime.Date()
	cy, cm, _ := closeTime.Date()
	if cy > oy || (cy == oy && cm > om) {
		return true
	}
	return false
}

// ClassifyTicket assigns OPEN, CLOSED or BACKLOG from the status text and the
// open/close instants. Rules are evaluated top to bottom, first match wins:
// explicit status text is authoritative only when the close timestamp
// corroborates it; an untrustworthy close time always means BACKLOG. The
// caller supplies now so results are reproducible.
func ClassifyTicket(statusText string, openTime, closeTime *time.Time, now time.Time) TicketState {
	status := normalizeStatus(statusText)

	if _, ok := closedSynonyms[status]; ok {
		if closeTimeUntrusted(openTime, closeTime, now) {
			return TicketBacklog
		}
		return TicketClosed
	}

	if _, ok := openSynonyms[status]; ok {
		if closeTimeUntrusted(openTime, closeTime, now) {
			return TicketBacklog
		}
		return TicketOpen
	}

	if closeTimeUntrusted(openTime, closeTime, now) {
		return TicketBacklog
	}
	return TicketClosed
}

// IsOpenTicket treats BACKLOG as a flavor of open: the work is not done.
func IsOpenTicket(statusText string, openTime, closeTime *time.Time, now time.Time) bool {
	s := ClassifyTicket(statusText, openTime, closeTime, now)
	return s == TicketOpen || s == TicketBacklog
}

func IsClosedTicket(statusText string, openTime, closeTime *time.Time, now time.Time) bool {
	return ClassifyTicket(statusText, openTime, closeTime, now) == TicketClosed
}

func IsBacklogTicket(statusText string, openTime, closeTime *time.Time, now time.Time) bool {
	return ClassifyTicket(statusText, openTime, closeTime, now) == TicketBacklog
}

// ClassifyIncident is the two-state variant: an incident is CLOSED only when
// its status text says so and a close time actually exists.
func ClassifyIncident(statusText string, closeTime *time.Time) IncidentState {
	status := normalizeStatus(statusText)
	if _, done := incidentDoneSynonyms[status]; done && closeTime != nil {
		return IncidentClosed
	}
	return IncidentOpen
}

// ncalSynonyms maps English and Indonesian severity spellings to the
// canonical NCAL color names.
var ncalSynonyms = map[string]string{
	"blue":   "Blue",
	"biru":   "Blue",
	"yellow": "Yellow",
	"kuning": "Yellow",
	"orange": "Orange",
	"oranye": "Orange",
	"red":    "Red",
	"merah":  "Red",
	"black":  "Black",
	"hitam":  "Black",
}

// NormalizeNCAL maps a free-text NCAL severity to its canonical color name.
// Unrecognized but non-empty input passes through trimmed, so odd values stay
// visible in reports; only a genuinely empty cell becomes "Unknown".
func NormalizeNCAL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown"
	}
	if canonical, ok := ncalSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
