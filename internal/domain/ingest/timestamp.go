// Package ingest turns tracker CSV exports into typed raw rows.
//
// Parsing is deliberately lenient: malformed timestamps and integer columns
// degrade to zero instead of failing the upload, and unreadable measurement
// cells become nulls that are reported as Issues.
package ingest

import "strings"

const (
	millisPerSecond = 1000
	secondsPerMin   = 60
	secondsPerHour  = 3600
)

// ParseTimestamp converts "HH:MM:SS.mmm" into milliseconds since midnight.
// Segments without a leading integer count as zero, and input that does not
// have exactly three colon-separated segments yields 0.
func ParseTimestamp(ts string) int64 {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}
	hours := leadingInt(parts[0])
	minutes := leadingInt(parts[1])

	sec, millis, _ := strings.Cut(parts[2], ".")
	seconds := leadingInt(sec)
	ms := leadingInt(millis)

	return (hours*secondsPerHour+minutes*secondsPerMin+seconds)*millisPerSecond + ms
}

// leadingInt parses the longest signed decimal prefix of s after leading
// whitespace, returning 0 when there are no digits.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		return -n
	}
	return n
}
