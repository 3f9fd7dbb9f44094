package oauth2

import (
	"strings"
	"time"

	"github.com/cwkr/birthday-board/internal/maputil"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/juju/errors"
)

var (
	ErrMissingKid          = errors.New("missing key id")
	ErrMatchingKeyNotFound = errors.New("matching key not found")
)

type TokenVerifier interface {
	VerifyToken(rawToken string) (string, error)
}

type tokenVerifier struct {
	publicKeys map[string]any
	now        func() time.Time
}

// NewTokenVerifier verifies JWTs signed by one of publicKeys, which are
// looked up by the kid header, case-insensitively.
func NewTokenVerifier(publicKeys map[string]any) TokenVerifier {
	return &tokenVerifier{publicKeys: maputil.LowerKeys(publicKeys), now: time.Now}
}

// VerifyToken returns the subject of a valid token.
func (t tokenVerifier) VerifyToken(rawToken string) (string, error) {
	var token, err = jwt.ParseSigned(rawToken)
	if err != nil {
		return "", errors.Trace(err)
	}
	if len(token.Headers) == 0 || token.Headers[0].KeyID == "" {
		return "", ErrMissingKid
	}
	var publicKey, found = t.publicKeys[strings.ToLower(token.Headers[0].KeyID)]
	if !found {
		return "", ErrMatchingKeyNotFound
	}
	var claims = jwt.Claims{}
	if err := token.Claims(publicKey, &claims); err != nil {
		return "", errors.Trace(err)
	}
	if err := claims.ValidateWithLeeway(jwt.Expected{Time: t.now()}, 0); err != nil {
		return "", errors.Trace(err)
	}
	return claims.Subject, nil
}
