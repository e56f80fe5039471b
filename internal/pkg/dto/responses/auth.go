package responses

import "time"

type UserProfile struct {
	ID         string `json:"id,omitempty"`
	GivenNames string `json:"nombres"`
	Surnames   string `json:"apellidos"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"rol,omitempty"`
}

// Session is what the dashboards read. The token itself stays in the session store.
type Session struct {
	Authenticated bool         `json:"authenticated"`
	DisplayName   string       `json:"display_name"`
	Profile       *UserProfile `json:"profile,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

type RecoveryState struct {
	ID             string            `json:"id"`
	Step           string            `json:"step"`
	Email          string            `json:"email"`
	FieldErrors    map[string]string `json:"field_errors,omitempty"`
	PasswordChecks *PasswordChecks   `json:"password_checks,omitempty"`
	FailureMessage string            `json:"failure_message,omitempty"`
	FailureKind    string            `json:"failure_kind,omitempty"`
}
