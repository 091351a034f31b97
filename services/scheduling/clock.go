package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// Wall-clock times are carried as minutes from midnight (e.g., 540 for
// 9:00 AM) and exchanged on the wire as "HH:MM:SS" strings. No timezone
// conversion happens anywhere in this package; schedules and appointments
// are assumed to share one local time convention.

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM:SS" time-of-day string to minutes from
// midnight. "HH:MM" is accepted as shorthand; seconds, when present, must
// be zero since schedules are kept at minute granularity.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM:SS", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		ss, err := strconv.Atoi(parts[2])
		if err != nil || ss != 0 {
			return 0, fmt.Errorf("invalid seconds in %q: sub-minute times are not supported", s)
		}
	}
	return hh*60 + mm, nil
}

// FormatClock renders minutes from midnight as "HH:MM:SS".
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// AddMinutes advances a time-of-day by n minutes.
func AddMinutes(t, n int) int {
	return t + n
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back slots, where one ends exactly
// when the other begins, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// validClockRange reports whether [start, end) is a well-formed non-empty
// window within a single day.
func validClockRange(start, end int) bool {
	return start >= 0 && end <= minutesPerDay && start < end
}
