package birthdays

import (
	"context"

	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/cwkr/birthday-board/internal/people"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

// ConfigEnricher configures an Enricher.
type ConfigEnricher struct {
	Log *logrus.Logger
	// Concurrency bounds how many people are enriched at the same time.
	Concurrency int
	// FailFast aborts the whole batch on the first failed detail lookup
	// instead of skipping the person.
	FailFast bool
	// SkipPhotos leaves photos out; they can be fetched later with Photos.
	SkipPhotos bool
}

// Enricher adds the detail fields and the photo to listed people.
type Enricher struct {
	store       people.Store
	concurrency int
	failFast    bool
	skipPhotos  bool
	log         *logrus.Entry
}

func NewEnricher(store people.Store, config *ConfigEnricher) *Enricher {
	if config == nil {
		config = &ConfigEnricher{}
	}
	var concurrency = config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{
		store:       store,
		concurrency: concurrency,
		failFast:    config.FailFast,
		skipPhotos:  config.SkipPhotos,
		log:         logger.Component(config.Log, "birthdays", "enricher"),
	}
}

// Enrich returns the enriched people in input order. People whose details
// could not be read are skipped and counted, unless FailFast is set.
// A missing or unreadable photo never fails a person.
func (e *Enricher) Enrich(ctx context.Context, persons []people.Person) ([]people.Person, int, error) {
	var (
		enriched = make([]people.Person, len(persons))
		ok       = make([]bool, len(persons))
	)

	var g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range persons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var person, err = e.enrichOne(gctx, persons[i])
			if err != nil {
				if e.failFast || ctx.Err() != nil {
					return err
				}
				e.log.Warnf("skipping %s: %v", persons[i].ID, err)
				return nil
			}
			enriched[i], ok[i] = person, true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, errors.Trace(err)
	}

	var result = make([]people.Person, 0, len(persons))
	for i := range enriched {
		if ok[i] {
			result = append(result, enriched[i])
		}
	}
	return result, len(persons) - len(result), nil
}

func (e *Enricher) enrichOne(ctx context.Context, person people.Person) (people.Person, error) {
	var (
		details *people.Person
		photo   *people.Photo
		g       errgroup.Group
	)

	g.Go(func() error {
		var d, err = e.store.Lookup(ctx, person.ID)
		if err != nil {
			return errors.Annotatef(err, "lookup %s", person.ID)
		}
		if d == nil {
			return errors.Annotatef(people.ErrPersonNotFound, "lookup %s", person.ID)
		}
		details = d
		return nil
	})

	if !e.skipPhotos {
		g.Go(func() error {
			photo = e.photo(ctx, person.ID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return people.Person{}, err
	}

	var merged = person.Merge(*details)
	merged.Photo = photo
	return merged, nil
}

// photo swallows every failure: no photo is a valid outcome.
func (e *Enricher) photo(ctx context.Context, userID string) *people.Photo {
	var photo, err = e.store.Photo(ctx, userID)
	if err != nil {
		if errors.Cause(err) != people.ErrPhotoNotFound {
			e.log.Debugf("no photo for %s: %v", userID, err)
		}
		return nil
	}
	return photo
}

// Photos fills in the photos of entries in place, with the same bound on
// concurrency as Enrich.
func (e *Enricher) Photos(ctx context.Context, entries []Entry) {
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range entries {
		if entries[i].Person.Photo != nil {
			continue
		}
		g.Go(func() error {
			entries[i].Person.Photo = e.photo(ctx, entries[i].Person.ID)
			return nil
		})
	}
	g.Wait()
}
