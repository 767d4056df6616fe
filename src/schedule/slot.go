// Package schedule provides slot arithmetic over salon-local "HH:MM" clock
// strings: end-time derivation and half-open interval overlap.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", clock)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back into "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ComputeEndTime adds a service duration to a start time. The result wraps
// past midnight; business-hours validation upstream keeps wrapped values out
// of real bookings.
func ComputeEndTime(start string, durationMinutes int) (string, error) {
	s, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	return FormatClock(s + durationMinutes), nil
}

// Overlaps reports whether two half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching intervals (aEnd == bStart) do not
// overlap. Malformed clock values never overlap anything.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, err := ParseClock(aStart)
	if err != nil {
		return false
	}
	ae, err := ParseClock(aEnd)
	if err != nil {
		return false
	}
	bs, err := ParseClock(bStart)
	if err != nil {
		return false
	}
	be, err := ParseClock(bEnd)
	if err != nil {
		return false
	}
	return as < be && bs < ae
}
