package ingest

import (
	"strings"
	"time"
)

// Layouts in observed frequency order. The tail entries cover values pasted
// into exports by hand.
var dateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-Jan-2006",
}

// ParseDate tries each known export layout in order. ok is false when the
// value is empty or matches none of them.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateISO returns the value as a YYYY-MM-DD string, or nil when it does
// not parse.
func ParseDateISO(s string) *string {
	t, ok := ParseDate(s)
	if !ok {
		return nil
	}
	iso := t.Format("2006-01-02")
	return &iso
}
