package server

import (
	"encoding/json"
	"net/http"

	"github.com/cwkr/birthday-board/internal/birthdays"
	"github.com/cwkr/birthday-board/internal/httputil"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

type healthHandler struct {
	board *birthdays.Board
	log   *logrus.Entry
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var status = struct {
		Status string `json:"status"`
	}{"UP"}

	httputil.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if err := h.board.Ping(r.Context()); err != nil {
		h.log.Infof("%s %s", r.Method, r.URL)
		h.log.Errorf("503 Service Unavailable - %v", err)
		status.Status = errors.Cause(err).Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	var bytes, _ = json.Marshal(status)
	w.Write(bytes)
}

func HealthHandler(board *birthdays.Board, log *logrus.Entry) http.Handler {
	return &healthHandler{
		board: board,
		log:   log,
	}
}
