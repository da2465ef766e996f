package typed

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. RIR dumps mix RFC3339 with several
// legacy layouts, and some `changed:` lines carry a leading email address
// before the timestamp (see ParseFlexible).
var dateLayouts = []string{
	time.RFC3339,
	"20060102 150405",
	"20060102",
	"2006-01-02",
}

// ParseFlexible parses a datetime value in any of the layouts RIR dumps
// use. If the whole string does not match, the last whitespace-separated
// token is retried in isolation (legacy `changed:` lines sometimes prefix
// the timestamp with an email address).
func ParseFlexible(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := tryLayouts(s); err == nil {
		return t, nil
	}
	fields := strings.Fields(s)
	if len(fields) > 0 {
		if t, err := tryLayouts(fields[len(fields)-1]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime: %q", s)
}

func tryLayouts(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
