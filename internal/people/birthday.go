package people

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"
)

// Birthday is a recurring annual date. Year is 0 when it was not recorded.
// The zero value and the directory sentinel 0001-01-01 both mean "unset".
type Birthday struct {
	Year  int
	Month time.Month
	Day   int
}

func NewBirthday(year int, month time.Month, day int) Birthday {
	return Birthday{Year: year, Month: month, Day: day}
}

// ParseBirthday is the lenient variant of ParseBirthdayStrict: anything it
// cannot read is an unset birthday.
func ParseBirthday(value string) Birthday {
	var b, err = ParseBirthdayStrict(value)
	if err != nil {
		return Birthday{}
	}
	return b
}

// ParseBirthdayStrict reads the formats the supported directories emit:
// 2006-01-02, RFC 3339 timestamps, --01-02, 01-02, 20060102 and LDAP
// generalized time. An empty value is unset and not an error.
func ParseBirthdayStrict(value string) (Birthday, error) {
	var s = strings.TrimSpace(value)
	if s == "" {
		return Birthday{}, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		// month and day are taken in UTC, the way the directory stores them
		t = t.UTC()
		return Birthday{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return Birthday{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	}

	var yearless = strings.TrimPrefix(s, "--")
	if len(yearless) == 5 && yearless[2] == '-' {
		var month, day int
		if _, err := fmt.Sscanf(yearless, "%02d-%02d", &month, &day); err == nil {
			return validated(0, month, day, value)
		}
	}

	if len(s) >= 8 && allDigits(s[:8]) {
		var year, month, day int
		if _, err := fmt.Sscanf(s[:8], "%04d%02d%02d", &year, &month, &day); err == nil {
			return validated(year, month, day, value)
		}
	}

	return Birthday{}, errors.Annotatef(ErrInvalidBirthday, "%q", value)
}

func validated(year, month, day int, value string) (Birthday, error) {
	if month < 1 || month > 12 || day < 1 {
		return Birthday{}, errors.Annotatef(ErrInvalidBirthday, "%q", value)
	}
	var checkYear = year
	if checkYear <= 1 {
		// any leap year will do when the year is unknown
		checkYear = 2000
	}
	if day > DaysIn(time.Month(month), checkYear) {
		return Birthday{}, errors.Annotatef(ErrInvalidBirthday, "%q", value)
	}
	return Birthday{Year: year, Month: time.Month(month), Day: day}, nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DaysIn returns the number of days of month in year.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (b Birthday) IsSentinel() bool {
	return b.Year == 1 && b.Month == time.January && b.Day == 1
}

func (b Birthday) IsSet() bool {
	return b.Month >= time.January && b.Month <= time.December && b.Day >= 1 && !b.IsSentinel()
}

// HasYear reports whether the birth year was recorded.
func (b Birthday) HasYear() bool {
	return b.IsSet() && b.Year > 1
}

func (b Birthday) String() string {
	if !b.IsSet() {
		return ""
	}
	if b.HasYear() {
		return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
	}
	return fmt.Sprintf("--%02d-%02d", b.Month, b.Day)
}

func (b Birthday) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *Birthday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var parsed, err = ParseBirthdayStrict(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
