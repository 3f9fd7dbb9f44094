package people

import (
	"context"
	"fmt"
	"testing"

	"github.com/juju/errors"
)

// pagedStore serves pages keyed by cursor.
type pagedStore struct {
	pages map[string]Page
	fail  map[string]error
	calls []string
}

func (p *pagedStore) ListPage(ctx context.Context, cursor string) (Page, error) {
	p.calls = append(p.calls, cursor)
	if err := p.fail[cursor]; err != nil {
		return Page{}, err
	}
	return p.pages[cursor], nil
}

func (p *pagedStore) Lookup(ctx context.Context, userID string) (*Person, error) {
	return nil, ErrPersonNotFound
}

func (p *pagedStore) Photo(ctx context.Context, userID string) (*Photo, error) {
	return nil, ErrPhotoNotFound
}

func (p *pagedStore) Ping(ctx context.Context) error { return nil }

func TestListAll_FollowsCursorsIncludingFirstPage(t *testing.T) {
	var store = &pagedStore{pages: map[string]Page{
		"":   {People: []Person{{ID: "a"}, {ID: "b"}}, Next: "p2"},
		"p2": {People: []Person{{ID: "c"}}, Next: "p3"},
		"p3": {People: []Person{{ID: "d"}}},
	}}

	var all, err = ListAll(context.Background(), store, 0)
	if err != nil {
		t.Fatalf("ListAll err=%v", err)
	}
	var ids []string
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	if fmt.Sprint(ids) != "[a b c d]" {
		t.Fatalf("ids=%v", ids)
	}
	if fmt.Sprint(store.calls) != "[ p2 p3]" {
		t.Fatalf("calls=%q", store.calls)
	}
}

func TestListAll_PageLimit(t *testing.T) {
	var pages = map[string]Page{}
	for i := 0; i < 10; i++ {
		var cursor string
		if i > 0 {
			cursor = fmt.Sprint(i)
		}
		pages[cursor] = Page{People: []Person{{ID: fmt.Sprint("p", i)}}, Next: fmt.Sprint(i + 1)}
	}
	var store = &pagedStore{pages: pages}

	var _, err = ListAll(context.Background(), store, 3)
	if errors.Cause(err) != ErrTooManyPages {
		t.Fatalf("err=%v, want ErrTooManyPages", err)
	}
	if len(store.calls) != 3 {
		t.Fatalf("calls=%d, want 3", len(store.calls))
	}
}

func TestListAll_CursorLoop(t *testing.T) {
	var store = &pagedStore{pages: map[string]Page{
		"":  {People: []Person{{ID: "a"}}, Next: "x"},
		"x": {People: []Person{{ID: "b"}}, Next: "x"},
	}}

	var _, err = ListAll(context.Background(), store, 0)
	if errors.Cause(err) != ErrCursorLoop {
		t.Fatalf("err=%v, want ErrCursorLoop", err)
	}
}

func TestListAll_PageErrorIsFatal(t *testing.T) {
	var boom = errors.New("directory down")
	var store = &pagedStore{
		pages: map[string]Page{"": {People: []Person{{ID: "a"}}, Next: "p2"}},
		fail:  map[string]error{"p2": boom},
	}

	var all, err = ListAll(context.Background(), store, 0)
	if errors.Cause(err) != boom {
		t.Fatalf("err=%v, want %v", err, boom)
	}
	if all != nil {
		t.Fatalf("all=%v, want nil", all)
	}
}

func TestListAll_CanceledContext(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()

	var store = &pagedStore{pages: map[string]Page{"": {}}}
	if _, err := ListAll(ctx, store, 0); errors.Cause(err) != context.Canceled {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
