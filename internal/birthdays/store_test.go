package birthdays

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwkr/birthday-board/internal/people"
	"github.com/juju/errors"
)

var errDirectory = errors.New("directory unavailable")

var testPhoto = &people.Photo{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}

// fakeStore serves people in pages of two. Lookups of ids in failLookup and
// photos of ids in failPhoto fail.
type fakeStore struct {
	people     []people.Person
	photos     map[string]*people.Photo
	failLookup map[string]bool
	failPhoto  map[string]bool
	failList   bool
	delay      time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu      sync.Mutex
	lookups int
}

func (s *fakeStore) ListPage(ctx context.Context, cursor string) (people.Page, error) {
	if s.failList {
		return people.Page{}, errDirectory
	}
	var offset, _ = strconv.Atoi(cursor)
	var end = min(offset+2, len(s.people))
	var page people.Page
	for _, person := range s.people[offset:end] {
		page.People = append(page.People, people.Person{ID: person.ID, DisplayName: person.DisplayName})
	}
	if end < len(s.people) {
		page.Next = strconv.Itoa(end)
	}
	return page, nil
}

func (s *fakeStore) Lookup(ctx context.Context, userID string) (*people.Person, error) {
	var n = s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		var peak = s.maxInFlight.Load()
		if n <= peak || s.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	s.mu.Lock()
	s.lookups++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.failLookup[userID] {
		return nil, errDirectory
	}
	for _, person := range s.people {
		if person.ID == userID {
			var details = person
			return &details, nil
		}
	}
	return nil, people.ErrPersonNotFound
}

func (s *fakeStore) Photo(ctx context.Context, userID string) (*people.Photo, error) {
	if s.failPhoto[userID] {
		return nil, errDirectory
	}
	if photo, found := s.photos[userID]; found {
		return photo, nil
	}
	return nil, people.ErrPhotoNotFound
}

func (s *fakeStore) Ping(ctx context.Context) error {
	if s.failList {
		return errDirectory
	}
	return nil
}

func (s *fakeStore) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func birthdayIn(today time.Time, days int) people.Birthday {
	var d = today.AddDate(0, 0, days)
	return people.NewBirthday(1990, d.Month(), d.Day())
}
