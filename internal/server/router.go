package server

import (
	"net/http"
	"runtime"

	"github.com/cwkr/birthday-board/internal/birthdays"
	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/cwkr/birthday-board/internal/middleware"
	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the API. With a token verifier the birthday and photo
// routes require a bearer JWT.
func NewRouter(basePath, version string, board *birthdays.Board, tokenVerifier oauth2.TokenVerifier, log *logrus.Logger) *mux.Router {
	var entry = logger.Component(log, "server", "http")

	var protect = func(h http.Handler) http.Handler {
		if tokenVerifier == nil {
			return h
		}
		return middleware.RequireJWT(h, tokenVerifier)
	}

	var router = mux.NewRouter()

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry.Infof("%s %s", r.Method, r.URL)
		oauth2.Error(w, oauth2.ErrorNotFound, "page not found", http.StatusNotFound)
	})
	router.Handle(basePath+"/birthdays", protect(BirthdaysHandler(basePath, board, entry))).
		Methods(http.MethodGet, http.MethodOptions)
	router.Handle(basePath+"/birthdays/refresh", protect(RefreshHandler(basePath, board, entry))).
		Methods(http.MethodPost)
	router.Handle(basePath+"/photos/{user_id}", protect(PhotoHandler(board, entry))).
		Methods(http.MethodGet, http.MethodOptions)
	router.Handle(basePath+"/health", HealthHandler(board, entry)).
		Methods(http.MethodGet)
	router.Handle(basePath+"/info", InfoHandler(version, runtime.Version())).
		Methods(http.MethodGet)

	return router
}
