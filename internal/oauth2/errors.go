package oauth2

import (
	"encoding/json"
	"net/http"

	"github.com/cwkr/birthday-board/internal/httputil"
)

const (
	// ErrorInvalidToken - The bearer token is malformed, expired or signed
	// by an unknown key. Sent with an HTTP 401 response.
	ErrorInvalidToken = "invalid_token"

	ErrorUnauthorized = "unauthorized"
	ErrorNotFound     = "not_found"
	ErrorNotReady     = "not_ready"
	ErrorBadGateway   = "bad_gateway"
	ErrorInternal     = "internal_server_error"
)

func Error(w http.ResponseWriter, error string, description string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	httputil.NoCache(w)

	w.WriteHeader(code)
	var bytes, _ = json.Marshal(ErrorResponse{error, description})
	w.Write(bytes)
}
