package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cwkr/birthday-board/internal/birthdays"
	"github.com/cwkr/birthday-board/internal/httputil"
	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type photoHandler struct {
	board *birthdays.Board
	log   *logrus.Entry
}

func (p *photoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.log.Infof("%s %s", r.Method, r.URL)

	httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var userID = mux.Vars(r)["user_id"]
	var photo, found = p.board.Photo(userID)
	if !found {
		oauth2.Error(w, oauth2.ErrorNotFound, "no photo for "+userID, http.StatusNotFound)
		return
	}

	httputil.Cache(w, time.Hour)
	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(photo.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write(photo.Data)
}

func PhotoHandler(board *birthdays.Board, log *logrus.Entry) http.Handler {
	return &photoHandler{
		board: board,
		log:   log,
	}
}
