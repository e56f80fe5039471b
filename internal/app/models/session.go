package models

import (
	"strings"
	"time"
	"virem-service/internal/pkg/constvars"
)

// Session is what the device keeps after a successful login.
type Session struct {
	Token     string      `json:"token"`
	Profile   UserProfile `json:"profile"`
	ExpiresAt time.Time   `json:"expires_at,omitempty"`
}

type UserProfile struct {
	ID         string `json:"id,omitempty"`
	GivenNames string `json:"nombres"`
	Surnames   string `json:"apellidos"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"rol,omitempty"`
}

// DisplayName is the greeting used on the dashboards.
func (p UserProfile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.GivenNames) + " " + strings.TrimSpace(p.Surnames))
	if name == "" {
		return constvars.DefaultDisplayName
	}
	return name
}
