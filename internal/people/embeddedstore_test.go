package people

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
)

func sampleEmbeddedPeople() map[string]EmbeddedPerson {
	return map[string]EmbeddedPerson{
		"Ada":   {Person: Person{DisplayName: "Ada Lovelace", Birthday: NewBirthday(1815, 12, 10)}, PhotoFile: "ada.png"},
		"grace": {Person: Person{DisplayName: "Grace Hopper", Birthday: NewBirthday(1906, 12, 9)}},
		"alan":  {Person: Person{DisplayName: "Alan Turing"}, PhotoFile: "missing.png"},
	}
}

func TestEmbeddedStore_ListPage(t *testing.T) {
	var store = NewEmbeddedStore(t.TempDir(), sampleEmbeddedPeople(), 2)

	var all, err = ListAll(context.Background(), store, 0)
	if err != nil {
		t.Fatalf("ListAll err=%v", err)
	}
	var ids []string
	for _, person := range all {
		if person.Birthday.IsSet() {
			t.Fatalf("listing carries birthday: %+v", person)
		}
		ids = append(ids, person.ID)
	}
	if want := []string{"Ada", "alan", "grace"}; len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
		t.Fatalf("ids=%v, want %v", ids, want)
	}

	if _, err := store.ListPage(context.Background(), "nope"); err == nil {
		t.Fatalf("invalid cursor must fail")
	}
}

func TestEmbeddedStore_Lookup(t *testing.T) {
	var store = NewEmbeddedStore(t.TempDir(), sampleEmbeddedPeople(), 0)

	var person, err = store.Lookup(context.Background(), "ADA")
	if err != nil {
		t.Fatalf("Lookup err=%v", err)
	}
	if person.ID != "Ada" || person.Birthday != NewBirthday(1815, 12, 10) {
		t.Fatalf("person=%+v", person)
	}
	if _, err := store.Lookup(context.Background(), "bob"); errors.Cause(err) != ErrPersonNotFound {
		t.Fatalf("err=%v, want ErrPersonNotFound", err)
	}
}

func TestEmbeddedStore_Photo(t *testing.T) {
	var dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ada.png"), pngBytes, 0o600); err != nil {
		t.Fatal(err)
	}
	var store = NewEmbeddedStore(dir, sampleEmbeddedPeople(), 0)

	var photo, err = store.Photo(context.Background(), "ada")
	if err != nil {
		t.Fatalf("Photo err=%v", err)
	}
	if photo.ContentType != "image/png" || len(photo.Data) != len(pngBytes) {
		t.Fatalf("photo=%s %d bytes", photo.ContentType, len(photo.Data))
	}

	if _, err := store.Photo(context.Background(), "grace"); errors.Cause(err) != ErrPhotoNotFound {
		t.Fatalf("err=%v, want ErrPhotoNotFound", err)
	}
	if _, err := store.Photo(context.Background(), "alan"); err == nil {
		t.Fatalf("unreadable photo file must fail")
	}
}
