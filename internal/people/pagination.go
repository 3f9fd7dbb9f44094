package people

import (
	"context"

	"github.com/juju/errors"
)

const DefaultMaxPages = 1000

// ListAll follows next page cursors until the store reports none, collecting
// all records in listing order. maxPages <= 0 means DefaultMaxPages.
func ListAll(ctx context.Context, store Store, maxPages int) ([]Person, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var (
		all    []Person
		cursor string
		seen   = map[string]bool{}
	)

	for pages := 0; ; pages++ {
		if pages == maxPages {
			return nil, errors.Annotatef(ErrTooManyPages, "%d pages", maxPages)
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Trace(err)
		}

		var page, err = store.ListPage(ctx, cursor)
		if err != nil {
			return nil, errors.Annotatef(err, "page %d", pages+1)
		}
		all = append(all, page.People...)

		if page.Next == "" {
			return all, nil
		}
		if seen[page.Next] {
			return nil, errors.Annotatef(ErrCursorLoop, "page %d", pages+1)
		}
		seen[page.Next] = true
		cursor = page.Next
	}
}
