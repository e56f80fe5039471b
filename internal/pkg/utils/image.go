package utils

import (
	"virem-service/internal/pkg/constvars"

	"github.com/gabriel-vasile/mimetype"
)

// DetectPhotoType sniffs the bytes of an upload. Only JPEG and PNG are accepted,
// whatever the file name claims.
func DetectPhotoType(data []byte) (contentType, extension string, ok bool) {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(constvars.MIMEImageJPEG):
		return constvars.MIMEImageJPEG, ".jpg", true
	case detected.Is(constvars.MIMEImagePNG):
		return constvars.MIMEImagePNG, ".png", true
	}
	return detected.String(), detected.Extension(), false
}
