package birthdays

import (
	"fmt"
	"testing"
	"time"

	"github.com/cwkr/birthday-board/internal/people"
)

func ids(entries []Entry) string {
	var s []string
	for _, entry := range entries {
		s = append(s, entry.Person.ID)
	}
	return fmt.Sprint(s)
}

func TestRank_Order(t *testing.T) {
	var today = date(2024, 6, 15)
	var persons = []people.Person{
		{ID: "past", Birthday: birthdayIn(today, -5)},
		{ID: "soon", Birthday: birthdayIn(today, 10)},
		{ID: "today", Birthday: birthdayIn(today, 0)},
		{ID: "tomorrow", Birthday: birthdayIn(today, 1)},
	}

	for _, mode := range []Mode{Exact, Approximate} {
		var entries = Rank(persons, today, 0, mode)
		if got := ids(entries); got != "[today tomorrow soon past]" {
			t.Fatalf("%s: Rank = %s", mode, got)
		}
		if !entries[0].IsToday || entries[0].DaysUntil != 0 {
			t.Fatalf("%s: first entry = %+v", mode, entries[0])
		}
		for _, entry := range entries[1:] {
			if entry.IsToday {
				t.Fatalf("%s: %s is not today", mode, entry.Person.ID)
			}
		}
	}
}

func TestRank_Limit(t *testing.T) {
	var today = date(2024, 1, 10)
	for n := 0; n <= 8; n++ {
		var persons []people.Person
		for i := 0; i < n; i++ {
			persons = append(persons, people.Person{ID: fmt.Sprint(i), Birthday: birthdayIn(today, i*7)})
		}
		if got, want := len(Rank(persons, today, 0, Exact)), min(DefaultLimit, n); got != want {
			t.Fatalf("Rank of %d people has %d entries, want %d", n, got, want)
		}
		if got, want := len(Rank(persons, today, 2, Exact)), min(2, n); got != want {
			t.Fatalf("Rank(limit 2) of %d people has %d entries, want %d", n, got, want)
		}
	}
}

func TestRank_SkipsUnsetBirthdays(t *testing.T) {
	var today = date(2024, 1, 1)
	var persons = []people.Person{
		{ID: "sentinel", Birthday: people.NewBirthday(1, time.January, 1)},
		{ID: "unset"},
		{ID: "set", Birthday: people.NewBirthday(1970, time.March, 3)},
	}
	if got := ids(Rank(persons, today, 0, Exact)); got != "[set]" {
		t.Fatalf("Rank = %s", got)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	var today = date(2024, 1, 1)
	var persons []people.Person
	for _, id := range []string{"e", "b", "d", "a", "c"} {
		persons = append(persons, people.Person{ID: id, Birthday: people.NewBirthday(1980, time.May, 5)})
	}
	if got := ids(Rank(persons, today, 0, Exact)); got != "[e b d a c]" {
		t.Fatalf("Rank = %s", got)
	}
}
