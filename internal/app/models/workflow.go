package models

import (
	"time"
	"virem-service/internal/pkg/utils"
)

type RegistrationStep string

const (
	RegistrationStepProfileSelect   RegistrationStep = "profile_select"
	RegistrationStepPersonalData    RegistrationStep = "personal_data"
	RegistrationStepCredentialEntry RegistrationStep = "credential_entry"
	RegistrationStepSubmitting      RegistrationStep = "submitting"
	RegistrationStepSuccess         RegistrationStep = "success"
	RegistrationStepFailed          RegistrationStep = "failed"
)

// RegistrationWorkflowState carries everything collected so far in one registration.
// PersonalData is only set once every personal-data gate passed; Draft keeps the
// last attempt so a failed gate never wipes what the user typed.
type RegistrationWorkflowState struct {
	ID             string                `json:"id"`
	Step           RegistrationStep      `json:"step"`
	Profile        ProfileKind           `json:"profile,omitempty"`
	Country        CountryCode           `json:"country"`
	PersonalData   *PersonalData         `json:"personal_data,omitempty"`
	Draft          *PersonalData         `json:"draft,omitempty"`
	Progress       int                   `json:"progress"`
	Email          string                `json:"email,omitempty"`
	FieldErrors    map[string]string     `json:"field_errors,omitempty"`
	PasswordChecks *utils.PasswordChecks `json:"password_checks,omitempty"`
	FailureMessage string                `json:"failure_message,omitempty"`
	FailureKind    string                `json:"failure_kind,omitempty"`
	InFlight       bool                  `json:"in_flight"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ClearFeedback drops the messages of the previous attempt.
func (s *RegistrationWorkflowState) ClearFeedback() {
	s.FieldErrors = nil
	s.PasswordChecks = nil
	s.FailureMessage = ""
	s.FailureKind = ""
}

func (s *RegistrationWorkflowState) SetFieldError(field, message string) {
	if s.FieldErrors == nil {
		s.FieldErrors = make(map[string]string)
	}
	s.FieldErrors[field] = message
}

// AcceptsCredentials is true on the credential screen, including after a failed submission.
func (s *RegistrationWorkflowState) AcceptsCredentials() bool {
	return s.Step == RegistrationStepCredentialEntry || s.Step == RegistrationStepFailed
}

type RecoveryStep string

const (
	RecoveryStepRequestCode    RecoveryStep = "request_code"
	RecoveryStepVerifyCode     RecoveryStep = "verify_code"
	RecoveryStepSetNewPassword RecoveryStep = "set_new_password"
	RecoveryStepCompleted      RecoveryStep = "completed"
)

// RecoveryWorkflowState tracks one forgot-password flow. The code itself is never stored.
type RecoveryWorkflowState struct {
	ID             string                `json:"id"`
	Step           RecoveryStep          `json:"step"`
	Email          string                `json:"email"`
	VerifiedEmail  string                `json:"verified_email,omitempty"`
	FieldErrors    map[string]string     `json:"field_errors,omitempty"`
	PasswordChecks *utils.PasswordChecks `json:"password_checks,omitempty"`
	FailureMessage string                `json:"failure_message,omitempty"`
	FailureKind    string                `json:"failure_kind,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func (s *RecoveryWorkflowState) ClearFeedback() {
	s.FieldErrors = nil
	s.PasswordChecks = nil
	s.FailureMessage = ""
	s.FailureKind = ""
}

func (s *RecoveryWorkflowState) SetFieldError(field, message string) {
	if s.FieldErrors == nil {
		s.FieldErrors = make(map[string]string)
	}
	s.FieldErrors[field] = message
}
