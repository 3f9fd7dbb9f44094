package people

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// Page is one page of a directory listing. Next is empty on the last page.
type Page struct {
	People []Person
	Next   string
}

// Store is a paged people directory.
type Store interface {
	// ListPage returns the page addressed by cursor; the empty cursor
	// addresses the first page.
	ListPage(ctx context.Context, cursor string) (Page, error)
	// Lookup returns the detail record of a person, most importantly the
	// birthday.
	Lookup(ctx context.Context, userID string) (*Person, error)
	// Photo returns ErrPhotoNotFound when the person has no picture.
	Photo(ctx context.Context, userID string) (*Photo, error)
	Ping(ctx context.Context) error
}

// NewStore picks the backend by the scheme of settings.URI. Without settings
// the embedded people are served.
func NewStore(settings *StoreSettings, basePath string, embedded map[string]EmbeddedPerson, httpClient *http.Client, log *logrus.Logger) (Store, error) {
	if settings == nil || settings.URI == "" {
		var pageSize int
		if settings != nil {
			pageSize = settings.PageSize
		}
		return NewEmbeddedStore(basePath, embedded, pageSize), nil
	}

	var uri = strings.ToLower(settings.URI)
	switch {
	case strings.HasPrefix(uri, "https:") || strings.HasPrefix(uri, "http:"):
		return NewGraphStore(settings, httpClient, log)
	case strings.HasPrefix(uri, "ldap:") || strings.HasPrefix(uri, "ldaps:"):
		return NewLdapStore(settings, log)
	case strings.HasPrefix(uri, "postgresql:") || strings.HasPrefix(uri, "postgres:"):
		return NewSqlStore(map[string]*sql.DB{}, settings, log)
	}
	return nil, errors.Annotatef(ErrUnsupportedURI, "%q", settings.URI)
}
