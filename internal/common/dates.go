package common

import (
	"fmt"
	"time"
)

const (
	// ISODate is the layout used on the command line and in cache keys.
	ISODate = "2006-01-02"
	// CompactDate is the 8-digit layout used in exported rows.
	CompactDate = "20060102"
	// YearMonth is the layout of a monthly batch id.
	YearMonth = "2006-01"
)

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ISODate, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ParseCompact parses a YYYYMMDD string as a UTC calendar date.
func ParseCompact(s string) (time.Time, error) {
	t, err := time.ParseInLocation(CompactDate, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid compact date %q: %w", s, err)
	}
	return t, nil
}

// Compact converts YYYY-MM-DD to YYYYMMDD. Inputs of other shapes are returned unchanged.
func Compact(iso string) string {
	if len(iso) != len(ISODate) {
		return iso
	}
	return iso[0:4] + iso[5:7] + iso[8:10]
}

// Expand converts YYYYMMDD to YYYY-MM-DD. Inputs of other shapes are returned unchanged.
func Expand(compact string) string {
	if len(compact) != len(CompactDate) {
		return compact
	}
	return compact[0:4] + "-" + compact[4:6] + "-" + compact[6:8]
}
