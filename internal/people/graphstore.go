package people

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	graphListSelect    = "id,displayName,givenName,surname,mail"
	graphDetailsSelect = "id,displayName,birthday"
	maxResponseSize    = 4 << 20
	maxErrorBodySize   = 64 << 10
)

type graphUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	GivenName   string `json:"givenName"`
	Surname     string `json:"surname"`
	Mail        string `json:"mail"`
	Birthday    string `json:"birthday"`
}

func (u graphUser) person() Person {
	return Person{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		GivenName:   u.GivenName,
		FamilyName:  u.Surname,
		Email:       u.Mail,
		Birthday:    ParseBirthday(u.Birthday),
	}
}

type graphPage struct {
	Value    []graphUser `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type graphStore struct {
	baseURL    *url.URL
	token      string
	pageSize   int
	httpClient *http.Client
	log        *logrus.Entry
}

// NewGraphStore reads people from a Microsoft Graph style REST API rooted at
// settings.URI, e.g. https://graph.microsoft.com/v1.0. The bearer token is
// passed through as is.
func NewGraphStore(settings *StoreSettings, httpClient *http.Client, log *logrus.Logger) (Store, error) {
	var baseURL, err = url.Parse(strings.TrimRight(settings.URI, "/"))
	if err != nil {
		return nil, errors.Annotate(err, "graph uri")
	}
	if baseURL.Host == "" {
		return nil, errors.Annotatef(ErrUnsupportedURI, "%q", settings.URI)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &graphStore{
		baseURL:    baseURL,
		token:      settings.Token,
		pageSize:   settings.pageSize(),
		httpClient: httpClient,
		log:        logger.Component(log, "people", "graph"),
	}, nil
}

func (g graphStore) ListPage(ctx context.Context, cursor string) (Page, error) {
	var pageURL string
	if cursor == "" {
		pageURL = fmt.Sprintf("%s/users?$select=%s&$top=%d", g.baseURL, graphListSelect, g.pageSize)
	} else {
		var next, err = url.Parse(cursor)
		if err != nil {
			return Page{}, errors.Annotate(err, "next link")
		}
		if !strings.EqualFold(next.Scheme, g.baseURL.Scheme) || !strings.EqualFold(next.Host, g.baseURL.Host) {
			return Page{}, errors.Annotatef(ErrForeignCursor, "%s", next.Host)
		}
		pageURL = cursor
	}

	var body, err = g.get(ctx, pageURL)
	if err != nil {
		return Page{}, errors.Trace(err)
	}

	var result graphPage
	if err := json.Unmarshal(body, &result); err != nil {
		return Page{}, errors.Annotate(err, "decode users page")
	}

	var page = Page{
		People: make([]Person, 0, len(result.Value)),
		Next:   result.NextLink,
	}
	for _, user := range result.Value {
		page.People = append(page.People, user.person())
	}
	g.log.Debugf("listed %d users, next=%t", len(page.People), page.Next != "")
	return page, nil
}

func (g graphStore) Lookup(ctx context.Context, userID string) (*Person, error) {
	var detailsURL = fmt.Sprintf("%s/users/%s?$select=%s", g.baseURL, url.PathEscape(userID), graphDetailsSelect)

	var body, err = g.get(ctx, detailsURL)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, errors.Trace(err)
	}

	var user graphUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Annotatef(err, "decode user %s", userID)
	}
	var person = user.person()
	if person.ID == "" {
		person.ID = userID
	}
	return &person, nil
}

func (g graphStore) Photo(ctx context.Context, userID string) (*Photo, error) {
	var photoURL = fmt.Sprintf("%s/users/%s/photo/$value", g.baseURL, url.PathEscape(userID))

	var body, err = g.get(ctx, photoURL)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, errors.Trace(err)
	}
	if photo := NewPhoto(body); photo != nil {
		return photo, nil
	}
	return nil, ErrPhotoNotFound
}

func (g graphStore) Ping(ctx context.Context) error {
	var _, err = g.get(ctx, fmt.Sprintf("%s/users?$select=id&$top=1", g.baseURL))
	return errors.Trace(err)
}

func (g graphStore) get(ctx context.Context, rawURL string) ([]byte, error) {
	var req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	req.Header.Set("Accept", "application/json, image/*")

	g.log.Debugf("GET %s", rawURL)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Annotatef(err, "GET %s", req.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var raw, _ = io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		var apiError = &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body graphErrorBody
		if json.Unmarshal(raw, &body) == nil && body.Error.Code != "" {
			apiError.Code = body.Error.Code
			apiError.Message = body.Error.Message
		}
		return nil, apiError
	}

	var body []byte
	if body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1)); err != nil {
		return nil, errors.Annotatef(err, "read %s", req.URL.Path)
	}
	if len(body) > maxResponseSize {
		return nil, errors.Annotatef(ErrResponseTooLarge, "GET %s", req.URL.Path)
	}
	return body, nil
}

func isStatus(err error, status int) bool {
	var apiError, ok = errors.Cause(err).(*APIError)
	return ok && apiError.Status == status
}
