package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Canonical storage and wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDashPattern  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	dmySlashPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// fallbackLayouts are tried last, in order, for inputs that match none of the
// recognized day-first shapes.
var fallbackLayouts = []string{
	"1/2/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-1-2",
}

// NormalizeDate converts common date inputs to canonical YYYY-MM-DD form.
// Accepted shapes, in priority order: ISO YYYY-MM-DD, DD-MM-YYYY, DD/MM/YYYY,
// then a small set of fallback layouts including US M/D/YYYY. Slash-separated
// input is read day-first; if that yields an impossible calendar date the US
// interpretation is tried before giving up. Input that parses under no layout
// returns ErrUnrecognizedDate.
func NormalizeDate(input string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnrecognizedDate)
	}

	switch {
	case isoDatePattern.MatchString(raw):
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return "", fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
		}
		return raw, nil

	case dmyDashPattern.MatchString(raw):
		if t, err := time.Parse("02-01-2006", raw); err == nil {
			return t.Format(DateLayout), nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)

	case dmySlashPattern.MatchString(raw):
		if t, err := time.Parse("02/01/2006", raw); err == nil {
			return t.Format(DateLayout), nil
		}
		// Day-first failed; the input may be American month-first.
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
}

// Today returns the current canonical date in UTC.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// IsPastDate reports whether a canonical date falls strictly before today.
// Comparison is day-granular; time of day never enters into it. Canonical
// zero-padded dates compare correctly as strings.
func IsPastDate(date string) bool {
	return date < Today()
}
