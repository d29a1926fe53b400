package domain

import "strings"

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// StatusOrder is the canonical cycling order for note statuses.
var StatusOrder = []Status{StatusNotStarted, StatusInProgress, StatusDone}

var statusLabels = map[Status]string{
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// NormalizeStatus maps unknown or legacy status strings to not_started.
func NormalizeStatus(s Status) Status {
	for _, known := range StatusOrder {
		if s == known {
			return s
		}
	}
	return StatusNotStarted
}

// ParseStatus resolves a user-entered status value. It accepts both the
// stored form ("not_started") and the display form ("Not Started").
func ParseStatus(value string) (Status, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", "_"))
	for _, known := range StatusOrder {
		if Status(normalized) == known {
			return known, true
		}
	}
	return StatusNotStarted, false
}

// Next returns the following status in cycling order, wrapping around.
func (s Status) Next() Status {
	current := NormalizeStatus(s)
	for i, known := range StatusOrder {
		if known == current {
			return StatusOrder[(i+1)%len(StatusOrder)]
		}
	}
	return StatusNotStarted
}

// Label returns the display label for the status.
func (s Status) Label() string {
	if label, ok := statusLabels[NormalizeStatus(s)]; ok {
		return label
	}
	return statusLabels[StatusNotStarted]
}

// Ordinal returns the position of the status in cycling order.
func (s Status) Ordinal() int {
	current := NormalizeStatus(s)
	for i, known := range StatusOrder {
		if known == current {
			return i
		}
	}
	return 0
}

type SessionType string

const (
	SessionMeeting   SessionType = "meeting"
	SessionPhoneCall SessionType = "phone_call"
)

// System note type identifiers. A legacy "deliverable" type is migrated to
// "note" when loading stored state.
const (
	TypeNote              = "note"
	TypeToDo              = "to_do"
	TypeLegacyDeliverable = "deliverable"
)

// TitleCase converts identifier-style values ("phone_call") to display form
// ("Phone Call"). Used as the fallback label for user-defined note types.
func TitleCase(value string) string {
	if value == "" {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(value, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
