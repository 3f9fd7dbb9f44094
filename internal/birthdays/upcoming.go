package birthdays

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/cwkr/birthday-board/internal/clock"
	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/cwkr/birthday-board/internal/people"
	"github.com/juju/errors"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Result is one ranking of upcoming birthdays.
type Result struct {
	ID          string
	GeneratedAt time.Time
	Today       time.Time
	Entries     []Entry
	// Listed is the number of people in the directory listing, Skipped the
	// number of them whose details could not be read.
	Listed  int
	Skipped int
}

// ConfigFinder configures a Finder.
type ConfigFinder struct {
	Log         *logrus.Logger
	Clock       clock.Clock
	Limit       int
	MaxPages    int
	Concurrency int
	Mode        Mode
	FailFast    bool
	// LazyPhotos fetches photos only for the ranked entries.
	LazyPhotos bool
}

// Finder runs listing, enrichment and ranking against one store.
type Finder struct {
	store      people.Store
	enricher   *Enricher
	clock      clock.Clock
	limit      int
	maxPages   int
	mode       Mode
	lazyPhotos bool
	log        *logrus.Entry
}

func NewFinder(store people.Store, config *ConfigFinder) *Finder {
	if config == nil {
		config = &ConfigFinder{}
	}
	var clk = config.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Finder{
		store: store,
		enricher: NewEnricher(store, &ConfigEnricher{
			Log:         config.Log,
			Concurrency: config.Concurrency,
			FailFast:    config.FailFast,
			SkipPhotos:  config.LazyPhotos,
		}),
		clock:      clk,
		limit:      config.Limit,
		maxPages:   config.MaxPages,
		mode:       config.Mode,
		lazyPhotos: config.LazyPhotos,
		log:        logger.Component(config.Log, "birthdays", "finder"),
	}
}

// Upcoming lists the whole directory, enriches every person and ranks the
// nearest birthdays as of the finder's clock.
func (f *Finder) Upcoming(ctx context.Context) (*Result, error) {
	var now = f.clock.Now()

	var listed, err = people.ListAll(ctx, f.store, f.maxPages)
	if err != nil {
		return nil, errors.Annotate(err, "list people")
	}

	enriched, skipped, err := f.enricher.Enrich(ctx, listed)
	if err != nil {
		return nil, errors.Annotate(err, "enrich people")
	}

	var entries = Rank(enriched, now, f.limit, f.mode)
	if f.lazyPhotos {
		f.enricher.Photos(ctx, entries)
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, errors.Trace(err)
	}

	f.log.Infof("ranked %d of %d people (%d skipped)", len(entries), len(listed), skipped)
	return &Result{
		ID:          id.String(),
		GeneratedAt: now,
		Today:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Entries:     entries,
		Listed:      len(listed),
		Skipped:     skipped,
	}, nil
}

// Ping checks that the directory is reachable.
func (f *Finder) Ping(ctx context.Context) error {
	return f.store.Ping(ctx)
}
