// Package timemodel converts "HH:MM" clock strings into fractional hours and
// derives the bounds, ticks and labels of a wrapping 24-hour chart axis.
package timemodel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const hoursPerDay = 24

var (
	// ErrNoTimes is returned when an axis bound is requested for an empty set.
	ErrNoTimes = errors.New("no times given")
	// ErrLengthMismatch is returned when start and end lists differ in length.
	ErrLengthMismatch = errors.New("start and end lists differ in length")
)

// FormatError reports a time string that is not a valid 24-hour clock time.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// ParseTime parses "H:MM" or "HH:MM" into hour + minute/60.
func ParseTime(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: s, Reason: "expected H:MM or HH:MM"}
	}
	hourStr, minStr := parts[0], parts[1]

	if len(hourStr) < 1 || len(hourStr) > 2 || !isDigits(hourStr) {
		return 0, &FormatError{Input: s, Reason: "hour must be 1 or 2 digits"}
	}
	if len(minStr) != 2 || !isDigits(minStr) {
		return 0, &FormatError{Input: s, Reason: "minute must be 2 digits"}
	}

	hour, _ := strconv.Atoi(hourStr)
	minute, _ := strconv.Atoi(minStr)
	if hour > 23 {
		return 0, &FormatError{Input: s, Reason: "hour out of range 0-23"}
	}
	if minute > 59 {
		return 0, &FormatError{Input: s, Reason: "minute out of range 0-59"}
	}

	return float64(hour) + float64(minute)/60, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Wraps reports whether a shift crosses midnight. A shift whose end equals
// its start covers the full day and wraps as well.
func Wraps(start, end float64) bool {
	return end <= start
}

// Duration returns the length in hours of the interval start..end on a
// 24-hour clock.
func Duration(start, end float64) float64 {
	if Wraps(start, end) {
		return end + hoursPerDay - start
	}
	return end - start
}

// MinTime returns the left axis bound for a set of start times: the floor of
// the earliest start, one hour earlier when that start is an exact hour.
func MinTime(starts []string) (int, error) {
	if len(starts) == 0 {
		return 0, ErrNoTimes
	}

	earliest := math.Inf(1)
	for _, s := range starts {
		v, err := ParseTime(s)
		if err != nil {
			return 0, err
		}
		earliest = math.Min(earliest, v)
	}

	floor := math.Floor(earliest)
	if earliest == floor {
		return int(floor) - 1, nil
	}
	return int(floor), nil
}

// MaxTime returns the number of axis ticks needed to cover every shift from
// MinTime(starts) up to the padded latest end. Wrapping ends count as +24h.
func MaxTime(starts, ends []string) (int, error) {
	if len(starts) != len(ends) {
		return 0, ErrLengthMismatch
	}
	lower, err := MinTime(starts)
	if err != nil {
		return 0, err
	}

	latest := 0.0
	for i := range starts {
		start, err := ParseTime(starts[i])
		if err != nil {
			return 0, err
		}
		end, err := ParseTime(ends[i])
		if err != nil {
			return 0, err
		}
		if Wraps(start, end) {
			end += hoursPerDay
		}
		latest = math.Max(latest, end)
	}

	return int(math.Ceil(latest)) + 1 - lower, nil
}

// Ticks returns the integer hour positions lower, lower+1, ..., lower+count-1.
func Ticks(lower, count int) []int {
	if count <= 0 {
		return nil
	}
	ticks := make([]int, count)
	for i := range ticks {
		ticks[i] = lower + i
	}
	return ticks
}

// TickLabel formats an hour position as a 12-hour clock label such as "1A"
// or "12P". Positions outside 0..23 wrap around the clock.
func TickLabel(t int) string {
	h := floorMod(t, 12)
	if h == 0 {
		h = 12
	}
	suffix := "P"
	if floorMod(t, hoursPerDay) < 12 {
		suffix = "A"
	}
	return strconv.Itoa(h) + suffix
}

func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
