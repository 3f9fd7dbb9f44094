package people

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// EmbeddedPerson is a person listed in the settings file. PhotoFile names an
// image file relative to the settings directory.
type EmbeddedPerson struct {
	Person
	PhotoFile string `json:"photo_file,omitempty" conform:"trim"`
}

type embeddedStore struct {
	basePath string
	ids      []string
	people   map[string]EmbeddedPerson
	pageSize int
}

func NewEmbeddedStore(basePath string, people map[string]EmbeddedPerson, pageSize int) Store {
	var ids = make([]string, 0, len(people))
	var byID = make(map[string]EmbeddedPerson, len(people))
	for id, person := range people {
		var lowercaseID = strings.ToLower(id)
		person.ID = id
		byID[lowercaseID] = person
		ids = append(ids, lowercaseID)
	}
	sort.Strings(ids)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &embeddedStore{
		basePath: basePath,
		ids:      ids,
		people:   byID,
		pageSize: pageSize,
	}
}

func (e embeddedStore) ListPage(ctx context.Context, cursor string) (Page, error) {
	var offset int
	if cursor != "" {
		var err error
		if offset, err = strconv.Atoi(cursor); err != nil || offset < 0 || offset > len(e.ids) {
			return Page{}, errors.Errorf("invalid cursor %q", cursor)
		}
	}

	var end = min(offset+e.pageSize, len(e.ids))
	var page = Page{People: make([]Person, 0, end-offset)}
	for _, id := range e.ids[offset:end] {
		var person = e.people[id].Person
		// the listing carries no birthday, just like a remote directory
		person.Birthday = Birthday{}
		page.People = append(page.People, person)
	}
	if end < len(e.ids) {
		page.Next = strconv.Itoa(end)
	}
	return page, nil
}

func (e embeddedStore) Lookup(ctx context.Context, userID string) (*Person, error) {
	if person, found := e.people[strings.ToLower(userID)]; found {
		var details = person.Person
		return &details, nil
	}
	return nil, ErrPersonNotFound
}

func (e embeddedStore) Photo(ctx context.Context, userID string) (*Photo, error) {
	var person, found = e.people[strings.ToLower(userID)]
	if !found {
		return nil, ErrPersonNotFound
	}
	if person.PhotoFile == "" {
		return nil, ErrPhotoNotFound
	}
	var data, err = os.ReadFile(filepath.Join(e.basePath, person.PhotoFile))
	if err != nil {
		return nil, errors.Annotate(err, "read photo")
	}
	if photo := NewPhoto(data); photo != nil {
		return photo, nil
	}
	return nil, ErrPhotoNotFound
}

func (e embeddedStore) Ping(ctx context.Context) error {
	return nil
}
