package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cwkr/birthday-board/internal/birthdays"
	"github.com/cwkr/birthday-board/internal/httputil"
	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

type EntryResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	DaysUntil   int    `json:"days_until"`
	IsToday     bool   `json:"is_today"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

type ResultResponse struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Today       string          `json:"today"`
	Listed      int             `json:"listed"`
	Skipped     int             `json:"skipped"`
	Entries     []EntryResponse `json:"entries"`
}

func NewResultResponse(result *birthdays.Result, basePath string) ResultResponse {
	var response = ResultResponse{
		ID:          result.ID,
		GeneratedAt: result.GeneratedAt,
		Today:       result.Today.Format(time.DateOnly),
		Listed:      result.Listed,
		Skipped:     result.Skipped,
		Entries:     make([]EntryResponse, 0, len(result.Entries)),
	}
	for _, entry := range result.Entries {
		var e = EntryResponse{
			ID:          entry.Person.ID,
			DisplayName: entry.Person.Name(),
			Month:       int(entry.Person.Birthday.Month),
			Day:         entry.Person.Birthday.Day,
			DaysUntil:   entry.DaysUntil,
			IsToday:     entry.IsToday,
		}
		if entry.Person.Photo != nil {
			e.PhotoURL = strings.TrimRight(basePath, "/") + "/photos/" + url.PathEscape(entry.Person.ID)
		}
		response.Entries = append(response.Entries, e)
	}
	return response
}

func writeResult(w http.ResponseWriter, result *birthdays.Result, basePath string) {
	var bytes, err = json.Marshal(NewResultResponse(result, basePath))
	if err != nil {
		oauth2.Error(w, oauth2.ErrorInternal, err.Error(), http.StatusInternalServerError)
		return
	}
	httputil.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("ETag", etag(result))
	w.Write(bytes)
}

func etag(result *birthdays.Result) string {
	return fmt.Sprintf("%q", result.ID)
}

// etagMatches applies the weak comparison of If-None-Match: "*" matches
// anything, W/ prefixes are ignored and lists may span several headers.
func etagMatches(ifNoneMatch []string, tag string) bool {
	for _, header := range ifNoneMatch {
		for _, candidate := range strings.Split(header, ",") {
			candidate = strings.TrimSpace(candidate)
			if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
				return true
			}
		}
	}
	return false
}

type birthdaysHandler struct {
	basePath string
	board    *birthdays.Board
	log      *logrus.Entry
}

func (b *birthdaysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.log.Infof("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var result, err = b.board.Current()
	if err != nil {
		var description = err.Error()
		if lastErr := b.board.LastError(); lastErr != nil {
			description = fmt.Sprintf("%s: last refresh failed: %s", description, lastErr)
		}
		w.Header().Set("Retry-After", "5")
		oauth2.Error(w, oauth2.ErrorNotReady, description, http.StatusServiceUnavailable)
		return
	}

	if etagMatches(r.Header.Values("If-None-Match"), etag(result)) {
		w.Header().Set("ETag", etag(result))
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeResult(w, result, b.basePath)
}

func BirthdaysHandler(basePath string, board *birthdays.Board, log *logrus.Entry) http.Handler {
	return &birthdaysHandler{
		basePath: basePath,
		board:    board,
		log:      log,
	}
}

type refreshHandler struct {
	basePath string
	board    *birthdays.Board
	log      *logrus.Entry
}

func (h *refreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Infof("%s %s", r.Method, r.URL)

	var timing = httputil.NewTiming()
	timing.Start("refresh")
	var result, err = h.board.Refresh(r.Context())
	timing.Stop("refresh")
	timing.Report(w)

	if err != nil {
		h.log.Warnf("refresh failed: %v", err)
		oauth2.Error(w, oauth2.ErrorBadGateway, errors.Cause(err).Error(), http.StatusBadGateway)
		return
	}

	writeResult(w, result, h.basePath)
}

func RefreshHandler(basePath string, board *birthdays.Board, log *logrus.Entry) http.Handler {
	return &refreshHandler{
		basePath: basePath,
		board:    board,
		log:      log,
	}
}
