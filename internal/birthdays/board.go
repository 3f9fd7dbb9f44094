package birthdays

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/cwkr/birthday-board/internal/people"
	"github.com/juju/errors"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const DefaultRefreshTimeout = 2 * time.Minute

var ErrNotReady = errors.New("upcoming birthdays not loaded yet")

// ConfigBoard configures a Board.
type ConfigBoard struct {
	Log            *logrus.Logger
	RefreshTimeout time.Duration
	// PhotoTTL bounds how long photos are served; zero keeps them until the
	// next successful refresh.
	PhotoTTL time.Duration
}

type flight struct {
	done   chan struct{}
	result *Result
	err    error
}

// Board holds the latest ranking and the photos of its entries.
type Board struct {
	finder  *Finder
	photos  *cache.Cache
	timeout time.Duration
	log     *logrus.Entry

	mu         sync.Mutex
	current    *Result
	lastErr    error
	refreshing *flight
}

func NewBoard(finder *Finder, config *ConfigBoard) *Board {
	if config == nil {
		config = &ConfigBoard{}
	}
	var timeout = config.RefreshTimeout
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	var ttl = config.PhotoTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Board{
		finder:  finder,
		photos:  cache.New(ttl, 10*time.Minute),
		timeout: timeout,
		log:     logger.Component(config.Log, "birthdays", "board"),
	}
}

// Refresh recomputes the ranking. Concurrent callers share one run, which
// outlives any single caller and is bounded by the refresh timeout only. ctx
// limits how long this caller waits. On failure the previous ranking stays
// current.
func (b *Board) Refresh(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	var f = b.refreshing
	if f == nil {
		f = &flight{done: make(chan struct{})}
		b.refreshing = f
		go b.refresh(context.WithoutCancel(ctx), f)
	}
	b.mu.Unlock()

	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, errors.Trace(ctx.Err())
	}
}

func (b *Board) refresh(ctx context.Context, f *flight) {
	var started = time.Now()
	var rctx, cancel = context.WithTimeout(ctx, b.timeout)
	f.result, f.err = b.finder.Upcoming(rctx)
	cancel()

	b.mu.Lock()
	if f.err == nil {
		b.current = f.result
		b.lastErr = nil
		b.photos.Flush()
		for _, entry := range f.result.Entries {
			if entry.Person.Photo != nil {
				b.photos.SetDefault(strings.ToLower(entry.Person.ID), entry.Person.Photo)
			}
		}
		b.log.Infof("refreshed %s in %v", f.result.ID, time.Since(started))
	} else {
		b.lastErr = f.err
		b.log.Errorf("refresh failed: %v", f.err)
	}
	b.refreshing = nil
	b.mu.Unlock()

	close(f.done)
}

// Current returns the latest ranking or ErrNotReady before the first
// successful refresh.
func (b *Board) Current() (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil, ErrNotReady
	}
	return b.current, nil
}

// LastError is the error of the latest refresh, nil after a success.
func (b *Board) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Photo returns the photo of a person on the current board.
func (b *Board) Photo(userID string) (*people.Photo, bool) {
	if value, found := b.photos.Get(strings.ToLower(userID)); found {
		return value.(*people.Photo), true
	}
	return nil, false
}

func (b *Board) Ping(ctx context.Context) error {
	return b.finder.Ping(ctx)
}

// Run refreshes right away and then every interval until ctx ends.
func (b *Board) Run(ctx context.Context, interval time.Duration) error {
	var ticker = time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// failures are logged and kept in LastError
		b.Refresh(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
