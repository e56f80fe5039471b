package utils

import (
	"fmt"
	"strings"
	"time"
	"virem-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func GenerateWorkflowID() string {
	return uuid.NewString()
}

// GeneratePhotoObjectName builds a collision-free object key for an uploaded doctor photo.
func GeneratePhotoObjectName(registrationID, fileExtension string) string {
	timestamp := time.Now().UTC().Format("20060102_150405.000000000")
	return fmt.Sprintf("%s/%s_%s%s", constvars.DoctorPhotoObjectLayer, registrationID, timestamp, fileExtension)
}

// IsValidUUID guards URL params before they reach a storage key.
func IsValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
