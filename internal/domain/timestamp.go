package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts a subtitle timestamp (H:MM:SS.mmm) to a duration.
// Hours are unbounded; the fractional part keeps millisecond precision.
func ParseTimestamp(ts string) (time.Duration, error) {
	fields := strings.Split(strings.TrimSpace(ts), ":")
	if len(fields) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	secs, frac, ok := strings.Cut(fields[2], ".")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	hours, err := strconv.Atoi(fields[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}
	minutes, err := strconv.Atoi(fields[1])
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}
	seconds, err := strconv.Atoi(secs)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	millis, err := parseMillis(frac)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// parseMillis reads a fractional-second field as milliseconds: "5" is 500ms,
// "123456" is 123ms.
func parseMillis(frac string) (int, error) {
	if frac == "" {
		return 0, fmt.Errorf("empty fraction")
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid fraction %q", frac)
		}
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return strconv.Atoi(frac)
}

// FormatTimestamp converts seconds to a zero-padded HH:MM:SS string.
// Sub-second precision is truncated and hours do not wrap at 24.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatDuration is FormatTimestamp for a duration.
func FormatDuration(d time.Duration) string {
	return FormatTimestamp(d.Seconds())
}

// FormatSRTTime renders a duration as H:MM:SS.mmm, truncating to milliseconds.
func FormatSRTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := int64(d / time.Millisecond)
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	secs := (ms % 60_000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// Seconds converts fractional seconds (as produced by transcription engines)
// to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
