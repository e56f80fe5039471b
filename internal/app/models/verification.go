package models

type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureRejected      FailureKind = "rejected"
	FailureNotFound      FailureKind = "not_found"
	FailureRequestFailed FailureKind = "request_failed"
	FailureConnectivity  FailureKind = "connectivity"
)

// VerificationResult is the uniform outcome of a phone or license check.
// Transport problems are folded into it instead of surfacing as errors.
type VerificationResult struct {
	OK      bool                   `json:"ok"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
	Failure FailureKind            `json:"failure,omitempty"`
}

// RemoteOutcome is the uniform outcome of an account call to the backend.
type RemoteOutcome struct {
	OK         bool
	StatusCode int
	Message    string
	Detail     string
	Failure    FailureKind
}

type LoginOutcome struct {
	RemoteOutcome
	Token string
	User  UserProfile
}

// RegisterPayload is the merged personal and credential body of the account creation call.
type RegisterPayload struct {
	GivenNames string `json:"nombres"`
	Surnames   string `json:"apellidos"`
	BirthDate  string `json:"fechanacimiento"`
	Gender     string `json:"genero"`
	NationalID string `json:"cedula"`
	Phone      string `json:"telefono"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"rol"`
	Specialty  string `json:"especialidad,omitempty"`
	Photo      string `json:"foto,omitempty"`
}
