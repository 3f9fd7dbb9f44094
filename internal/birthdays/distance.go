package birthdays

import (
	"strings"
	"time"

	"github.com/cwkr/birthday-board/internal/people"
	"github.com/juju/errors"
)

// Mode selects how the distance to a birthday is counted.
type Mode int

const (
	// Exact counts calendar days to the next occurrence.
	Exact Mode = iota
	// Approximate places every date at month*31+day and wraps by 365 days.
	// It reproduces the ordering of older displays. The index spans 32..403,
	// so a late December today against an early January birthday stays
	// negative after the wrap (Dec 31 to Jan 1 is -6) and ranks before today.
	Approximate
)

const daysPerYear = 365

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "approximate":
		return Approximate, nil
	}
	return Exact, errors.Errorf("unknown distance mode %q", s)
}

func (m Mode) String() string {
	if m == Approximate {
		return "approximate"
	}
	return "exact"
}

// DaysUntil returns the forward distance in days from today to the next
// occurrence of b. A birthday today is 0. Exact results lie in [0, 365];
// Approximate results may be negative around the turn of the year. Only the
// date of today in its own location matters. b must be set.
func DaysUntil(b people.Birthday, today time.Time, mode Mode) int {
	if mode == Approximate {
		var delta = linearIndex(b.Month, b.Day) - linearIndex(today.Month(), today.Day())
		if delta < 0 {
			delta += daysPerYear
		}
		return delta
	}

	var year = today.Year()
	var start = time.Date(year, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	var next = occurrence(b, year)
	if next.Before(start) {
		next = occurrence(b, year+1)
	}
	return int(next.Sub(start) / (24 * time.Hour))
}

// IsBirthdayToday compares month and day only. Feb 29 birthdays are
// celebrated on Feb 28 in common years.
func IsBirthdayToday(b people.Birthday, today time.Time) bool {
	if !b.IsSet() {
		return false
	}
	var month, day = observed(b, today.Year())
	return month == today.Month() && day == today.Day()
}

func linearIndex(month time.Month, day int) int {
	return int(month)*31 + day
}

func observed(b people.Birthday, year int) (time.Month, int) {
	if b.Month == time.February && b.Day == 29 && people.DaysIn(time.February, year) == 28 {
		return time.February, 28
	}
	return b.Month, b.Day
}

func occurrence(b people.Birthday, year int) time.Time {
	var month, day = observed(b, year)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
