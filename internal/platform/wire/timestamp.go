package wire

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the full HL7 timestamp format (DTM to seconds).
const TimestampLayout = "20060102150405"

// ParseTimestamp parses an HL7 timestamp (YYYYMMDD[HHmm[ss]]), ignoring any
// trailing fractional seconds or timezone offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case len(s) >= 14:
		return time.Parse(TimestampLayout, s[:14])
	case len(s) >= 12:
		return time.Parse("200601021504", s[:12])
	case len(s) >= 8:
		return time.Parse("20060102", s[:8])
	default:
		return time.Time{}, fmt.Errorf("wire: unrecognized timestamp format: %q", s)
	}
}

// FormatTimestamp renders t as a full HL7 timestamp in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
