package responses

type PasswordChecks struct {
	MinLength    bool `json:"min_length"`
	HasUppercase bool `json:"has_uppercase"`
	HasNumber    bool `json:"has_number"`
	HasSpecial   bool `json:"has_special"`
}

type RegistrationState struct {
	ID             string             `json:"id"`
	Step           string             `json:"step"`
	Profile        string             `json:"profile,omitempty"`
	Country        Country            `json:"country"`
	Draft          *RegistrationDraft `json:"draft,omitempty"`
	Progress       int                `json:"progress"`
	Email          string             `json:"email,omitempty"`
	FieldErrors    map[string]string  `json:"field_errors,omitempty"`
	PasswordChecks *PasswordChecks    `json:"password_checks,omitempty"`
	FailureMessage string             `json:"failure_message,omitempty"`
	FailureKind    string             `json:"failure_kind,omitempty"`
	InFlight       bool               `json:"in_flight"`
	PhotoURL       string             `json:"photo_url,omitempty"`
}

// RegistrationDraft echoes what was typed, with the phone rendered through the country mask.
type RegistrationDraft struct {
	GivenNames   string `json:"nombres"`
	Surnames     string `json:"apellidos"`
	BirthDate    string `json:"fechanacimiento,omitempty"`
	Gender       string `json:"genero,omitempty"`
	NationalID   string `json:"cedula"`
	Phone        string `json:"telefono"`
	PhoneDisplay string `json:"telefono_display"`
	Specialty    string `json:"especialidad,omitempty"`
	HasPhoto     bool   `json:"has_photo"`
}
