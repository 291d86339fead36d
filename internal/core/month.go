// Package core holds the ledger domain model plus the filter and
// aggregation engines. Everything here is pure: no storage, no clock of
// its own, no error paths beyond input validation.
package core

import (
	"fmt"
	"sort"
	"time"
)

// Month is a calendar bucket (year + month). It replaces free-form
// "yyyy-MM" strings as the aggregation key so that chronological ordering
// does not depend on lexicographic string comparison.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the bucket containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Key renders the month in the fixed "yyyy-MM" wire format.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonthKey parses a "yyyy-MM" key. Malformed keys report ok=false
// and are skipped by callers rather than raising an error.
func ParseMonthKey(s string) (Month, bool) {
	var y, mo int
	if _, err := fmt.Sscanf(s, "%4d-%2d", &y, &mo); err != nil {
		return Month{}, false
	}
	if len(s) != 7 || s[4] != '-' || mo < 1 || mo > 12 {
		return Month{}, false
	}
	return Month{Year: y, Month: time.Month(mo)}, true
}

// Before reports whether m is chronologically earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// MarshalText renders the "yyyy-MM" key, so maps keyed by Month serialize
// the way the chart and breakdown consumers expect.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.Key()), nil
}

// UnmarshalText parses a "yyyy-MM" key.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, ok := ParseMonthKey(string(b))
	if !ok {
		return fmt.Errorf("malformed month key %q", string(b))
	}
	*m = parsed
	return nil
}

// SortedMonths returns the keys of an aggregation mapping in chronological
// order: ascending for bar charts, descending (most recent first) for the
// itemized breakdown list.
func SortedMonths[V any](totals map[Month]V, descending bool) []Month {
	months := make([]Month, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		if descending {
			return months[j].Before(months[i])
		}
		return months[i].Before(months[j])
	})
	return months
}
