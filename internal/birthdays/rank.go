package birthdays

import (
	"sort"
	"time"

	"github.com/cwkr/birthday-board/internal/people"
)

const DefaultLimit = 5

type Entry struct {
	Person    people.Person
	DaysUntil int
	IsToday   bool
}

// Rank drops people without a birthday, orders the rest by the distance to
// their next birthday and keeps the nearest limit. Ties keep input order.
// limit <= 0 means DefaultLimit.
func Rank(persons []people.Person, today time.Time, limit int, mode Mode) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var entries = make([]Entry, 0, len(persons))
	for _, person := range persons {
		if !person.Birthday.IsSet() {
			continue
		}
		entries = append(entries, Entry{
			Person:    person,
			DaysUntil: DaysUntil(person.Birthday, today, mode),
			IsToday:   IsBirthdayToday(person.Birthday, today),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DaysUntil < entries[j].DaysUntil
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
