package people

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blockloop/scan/v2"
	"github.com/cwkr/birthday-board/internal/logger"
	jujuerrors "github.com/juju/errors"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// personRow is the column layout every configured query must produce.
type personRow struct {
	ID          string `db:"id"`
	DisplayName string `db:"display_name"`
	GivenName   string `db:"given_name"`
	FamilyName  string `db:"family_name"`
	Email       string `db:"email"`
	Birthdate   string `db:"birthdate"`
}

func (r personRow) person() Person {
	return Person{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		GivenName:   r.GivenName,
		FamilyName:  r.FamilyName,
		Email:       r.Email,
		Birthday:    ParseBirthday(r.Birthdate),
	}
}

type sqlStore struct {
	dbconn   *sql.DB
	settings *StoreSettings
	pageSize int
	log      *logrus.Entry
}

// NewSqlStore needs list_query and details_query; photo_query is optional.
func NewSqlStore(dbs map[string]*sql.DB, settings *StoreSettings, log *logrus.Logger) (Store, error) {
	if settings.ListQuery == "" {
		return nil, jujuerrors.Annotate(ErrMissingQuery, "list_query")
	}
	if settings.DetailsQuery == "" {
		return nil, jujuerrors.Annotate(ErrMissingQuery, "details_query")
	}
	if dbs[settings.URI] == nil {
		dbconn, err := sql.Open("postgres", settings.URI)
		if err != nil {
			return nil, jujuerrors.Trace(err)
		}
		dbs[settings.URI] = dbconn
	}
	return &sqlStore{
		dbconn:   dbs[settings.URI],
		settings: settings,
		pageSize: settings.pageSize(),
		log:      logger.Component(log, "people", "sql"),
	}, nil
}

// ListPage pages by key: the cursor is the last id of the previous page.
func (p sqlStore) ListPage(ctx context.Context, cursor string) (Page, error) {
	var rows []personRow

	p.log.Debugf("SQL: %s; -- %q, %d", p.settings.ListQuery, cursor, p.pageSize)
	// SELECT user_id id, COALESCE(display_name, '') display_name, COALESCE(given_name, '') given_name,
	// COALESCE(family_name, '') family_name, COALESCE(email, '') email, '' birthdate
	// FROM people WHERE user_id > $1 ORDER BY user_id LIMIT $2
	if result, err := p.dbconn.QueryContext(ctx, p.settings.ListQuery, cursor, p.pageSize); err == nil {
		if err := scan.Rows(&rows, result); err != nil {
			return Page{}, jujuerrors.Trace(err)
		}
	} else {
		p.log.Errorf("query for people failed: %v", err)
		return Page{}, jujuerrors.Trace(err)
	}

	var page = Page{People: make([]Person, 0, len(rows))}
	for _, row := range rows {
		page.People = append(page.People, row.person())
	}
	if len(rows) == p.pageSize {
		page.Next = rows[len(rows)-1].ID
	}
	return page, nil
}

func (p sqlStore) Lookup(ctx context.Context, userID string) (*Person, error) {
	var row personRow

	p.log.Debugf("SQL: %s; -- %s", p.settings.DetailsQuery, userID)
	// SELECT user_id id, COALESCE(display_name, '') display_name, COALESCE(given_name, '') given_name,
	// COALESCE(family_name, '') family_name, COALESCE(email, '') email,
	// COALESCE(TO_CHAR(birthdate, 'YYYY-MM-DD'), '') birthdate
	// FROM people WHERE lower(user_id) = lower($1)
	if rows, err := p.dbconn.QueryContext(ctx, p.settings.DetailsQuery, userID); err == nil {
		if err := scan.RowStrict(&row, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPersonNotFound
			}
			return nil, jujuerrors.Trace(err)
		}
	} else {
		p.log.Errorf("query for details failed: %v", err)
		return nil, jujuerrors.Trace(err)
	}

	var person = row.person()
	return &person, nil
}

func (p sqlStore) Photo(ctx context.Context, userID string) (*Photo, error) {
	if p.settings.PhotoQuery == "" {
		return nil, ErrPhotoNotFound
	}

	var data []byte
	p.log.Debugf("SQL: %s; -- %s", p.settings.PhotoQuery, userID)
	// SELECT photo FROM people WHERE lower(user_id) = lower($1) AND photo IS NOT NULL
	if err := p.dbconn.QueryRowContext(ctx, p.settings.PhotoQuery, userID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, jujuerrors.Trace(err)
	}
	if photo := NewPhoto(data); photo != nil {
		return photo, nil
	}
	return nil, ErrPhotoNotFound
}

func (p sqlStore) Ping(ctx context.Context) error {
	return jujuerrors.Trace(p.dbconn.PingContext(ctx))
}
