package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cwkr/birthday-board/internal/httputil"
	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/juju/errors"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// RequireJWT rejects requests without a valid bearer token. CORS preflight
// requests pass through.
func RequireJWT(next http.Handler, tokenVerifier oauth2.TokenVerifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		var accessToken = httputil.ExtractAccessToken(r)
		if accessToken == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			oauth2.Error(w, oauth2.ErrorUnauthorized, "authentication required", http.StatusUnauthorized)
			return
		}
		var userID, err = tokenVerifier.VerifyToken(accessToken)
		if err != nil {
			var description = errors.Cause(err).Error()
			w.Header().Set("WWW-Authenticate", fmt.Sprintf("Bearer error=\"invalid_token\", error_description=%q", description))
			oauth2.Error(w, oauth2.ErrorInvalidToken, description, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, userID)))
	})
}

// UserID returns the token subject stored by RequireJWT.
func UserID(r *http.Request) string {
	var userID, _ = r.Context().Value(UserIDKey).(string)
	return userID
}
