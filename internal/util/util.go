package util

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Truncate cuts s to at most max runes. No ellipsis is added; stored
// field limits are hard cutoffs.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func Slugify(name string) string {
	return slug.Make(name)
}

// UnixToISO8601 converts epoch seconds to the RFC3339 UTC form used in
// the database.
func UnixToISO8601(unixTime int64) string {
	return time.Unix(unixTime, 0).UTC().Format(time.RFC3339)
}

func ParseISO8601(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339, timeStr)
}

// NowISO8601 returns the current UTC time in the database timestamp
// format.
func NowISO8601() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FirstLine returns the text up to the first line break, trimmed.
func FirstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
