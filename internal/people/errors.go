package people

import (
	"fmt"

	"github.com/juju/errors"
)

var (
	ErrPersonNotFound   = errors.New("person not found in store")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrTooManyPages     = errors.New("directory listing exceeded page limit")
	ErrCursorLoop       = errors.New("directory listing returned a cursor twice")
	ErrForeignCursor    = errors.New("next page link points to a foreign host")
	ErrUnsupportedURI   = errors.New("unsupported people store uri")
	ErrInvalidBirthday  = errors.New("invalid birthday")
	ErrResponseTooLarge = errors.New("response exceeds size limit")
	ErrMissingQuery     = errors.New("people store query not configured")
)

// APIError is an error response of the graph people API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("graph api status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("graph api status %d: %s: %s", e.Status, e.Code, e.Message)
}
