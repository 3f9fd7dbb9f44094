package birthdays

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cwkr/birthday-board/internal/people"
	"github.com/juju/errors"
)

func enrichStore() *fakeStore {
	return &fakeStore{
		people: []people.Person{
			{ID: "ada", DisplayName: "Ada Lovelace", Birthday: people.NewBirthday(1815, 12, 10)},
			{ID: "grace", DisplayName: "Grace Hopper", Birthday: people.NewBirthday(1906, 12, 9)},
			{ID: "alan", DisplayName: "Alan Turing", Birthday: people.NewBirthday(1912, 6, 23)},
		},
		photos:    map[string]*people.Photo{"ada": testPhoto, "alan": testPhoto},
		failPhoto: map[string]bool{"alan": true},
	}
}

func TestEnrich_PhotoFailureIsIsolated(t *testing.T) {
	var store = enrichStore()
	var listed = []people.Person{{ID: "ada"}, {ID: "grace"}, {ID: "alan"}}

	var enriched, skipped, err = NewEnricher(store, nil).Enrich(context.Background(), listed)
	if err != nil {
		t.Fatalf("Enrich err=%v", err)
	}
	if skipped != 0 || len(enriched) != 3 {
		t.Fatalf("enriched=%d skipped=%d", len(enriched), skipped)
	}
	for i, want := range []string{"ada", "grace", "alan"} {
		if enriched[i].ID != want || !enriched[i].Birthday.IsSet() {
			t.Fatalf("enriched[%d]=%+v, want %s with birthday", i, enriched[i], want)
		}
	}
	if enriched[0].Photo != testPhoto {
		t.Fatalf("ada has no photo")
	}
	if enriched[1].Photo != nil || enriched[2].Photo != nil {
		t.Fatalf("grace and alan must have no photo")
	}
}

func TestEnrich_DetailFailure(t *testing.T) {
	var listed = []people.Person{{ID: "ada"}, {ID: "grace"}, {ID: "alan"}}

	var store = enrichStore()
	store.failLookup = map[string]bool{"grace": true}
	var enriched, skipped, err = NewEnricher(store, nil).Enrich(context.Background(), listed)
	if err != nil {
		t.Fatalf("Enrich err=%v", err)
	}
	if skipped != 1 || len(enriched) != 2 || enriched[0].ID != "ada" || enriched[1].ID != "alan" {
		t.Fatalf("enriched=%v skipped=%d", enriched, skipped)
	}

	_, _, err = NewEnricher(store, &ConfigEnricher{FailFast: true}).Enrich(context.Background(), listed)
	if errors.Cause(err) != errDirectory {
		t.Fatalf("FailFast err=%v, want %v", err, errDirectory)
	}
}

func TestEnrich_UnknownPersonIsSkipped(t *testing.T) {
	var listed = []people.Person{{ID: "ada"}, {ID: "ghost"}}
	var enriched, skipped, err = NewEnricher(enrichStore(), nil).Enrich(context.Background(), listed)
	if err != nil || skipped != 1 || len(enriched) != 1 {
		t.Fatalf("enriched=%d skipped=%d err=%v", len(enriched), skipped, err)
	}
}

func TestEnrich_BoundedConcurrency(t *testing.T) {
	var store = &fakeStore{delay: 5 * time.Millisecond}
	var listed []people.Person
	for i := 0; i < 40; i++ {
		var id = fmt.Sprintf("p%02d", i)
		store.people = append(store.people, people.Person{ID: id, Birthday: people.NewBirthday(1990, 1, 1+i%28)})
		listed = append(listed, people.Person{ID: id})
	}

	var enriched, _, err = NewEnricher(store, &ConfigEnricher{Concurrency: 3, SkipPhotos: true}).Enrich(context.Background(), listed)
	if err != nil {
		t.Fatalf("Enrich err=%v", err)
	}
	if len(enriched) != 40 || store.lookupCount() != 40 {
		t.Fatalf("enriched=%d lookups=%d", len(enriched), store.lookupCount())
	}
	if peak := store.maxInFlight.Load(); peak > 3 {
		t.Fatalf("%d lookups in flight, want at most 3", peak)
	}
}

func TestEnrich_CanceledContext(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	var _, _, err = NewEnricher(enrichStore(), nil).Enrich(ctx, []people.Person{{ID: "ada"}})
	if errors.Cause(err) != context.Canceled {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func TestEnricher_Photos(t *testing.T) {
	var entries = []Entry{
		{Person: people.Person{ID: "ada"}},
		{Person: people.Person{ID: "grace"}},
		{Person: people.Person{ID: "alan"}},
	}
	NewEnricher(enrichStore(), nil).Photos(context.Background(), entries)
	if entries[0].Person.Photo != testPhoto || entries[1].Person.Photo != nil || entries[2].Person.Photo != nil {
		t.Fatalf("photos=%v %v %v", entries[0].Person.Photo, entries[1].Person.Photo, entries[2].Person.Photo)
	}
}
