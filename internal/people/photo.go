package people

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Photo is a profile picture as returned by the directory.
type Photo struct {
	ContentType string
	Data        []byte
}

// NewPhoto sniffs the content type of data. Empty and non-image payloads
// yield no photo.
func NewPhoto(data []byte) *Photo {
	if len(data) == 0 {
		return nil
	}
	var mime = mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil
	}
	return &Photo{
		ContentType: mime.String(),
		Data:        data,
	}
}
