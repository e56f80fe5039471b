package registration

import (
	"context"
	"fmt"
	"strings"
	"time"
	"virem-service/internal/app/config"
	"virem-service/internal/app/contracts"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Engine moves a RegistrationWorkflowState through its gates. It never touches
// storage; the usecase loads and saves the state around each call.
type Engine struct {
	Config    config.Registration
	Reference *config.ReferenceData
	Verifier  contracts.VerificationClient
	Limiter   contracts.QuotaLimiter
	Log       *zap.Logger
	now       func() time.Time
}

func NewEngine(
	registrationConfig config.Registration,
	referenceData *config.ReferenceData,
	verifier contracts.VerificationClient,
	limiter contracts.QuotaLimiter,
	logger *zap.Logger,
) *Engine {
	return newEngine(registrationConfig, referenceData, verifier, limiter, logger, time.Now)
}

func newEngine(
	registrationConfig config.Registration,
	referenceData *config.ReferenceData,
	verifier contracts.VerificationClient,
	limiter contracts.QuotaLimiter,
	logger *zap.Logger,
	now func() time.Time,
) *Engine {
	return &Engine{
		Config:    registrationConfig,
		Reference: referenceData,
		Verifier:  verifier,
		Limiter:   limiter,
		Log:       logger,
		now:       now,
	}
}

func (e *Engine) NewState(id string) *models.RegistrationWorkflowState {
	now := e.now()
	return &models.RegistrationWorkflowState{
		ID:        id,
		Step:      models.RegistrationStepProfileSelect,
		Country:   e.Reference.DefaultCountry(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SelectProfile fixes the tagged-union discriminant. Choosing again before any
// personal data was accepted is allowed; a changed kind drops the old draft.
func (e *Engine) SelectProfile(state *models.RegistrationWorkflowState, kind models.ProfileKind) error {
	if state.Step != models.RegistrationStepProfileSelect && state.Step != models.RegistrationStepPersonalData {
		return exceptions.ErrWorkflowStepMismatch(string(state.Step), "select_profile")
	}
	if !kind.Valid() {
		return exceptions.ErrFieldValidation(constvars.FieldProfileType, constvars.ErrClientProfileNotSelected)
	}

	if state.Profile != kind {
		state.Draft = nil
		state.Progress = 0
	}
	state.Profile = kind
	state.Step = models.RegistrationStepPersonalData
	state.ClearFeedback()
	state.UpdatedAt = e.now()
	return nil
}

// SubmitPersonalData runs the personal-data gates in order and stops at the first
// failing one. Local gates come first; the phone check only runs once they pass and
// the license check only once the phone check passed. The draft is always kept.
func (e *Engine) SubmitPersonalData(ctx context.Context, state *models.RegistrationWorkflowState, request *requests.RegistrationPersonalData) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	switch state.Step {
	case models.RegistrationStepPersonalData, models.RegistrationStepCredentialEntry, models.RegistrationStepFailed:
	default:
		return exceptions.ErrWorkflowStepMismatch(string(state.Step), "submit_personal_data")
	}
	if request.ProfileType != "" && models.ProfileKind(request.ProfileType) != state.Profile {
		return exceptions.ErrMalformedPersonalData(models.ErrPersonalDataKindMismatch)
	}

	state.ClearFeedback()
	state.UpdatedAt = e.now()
	state.PersonalData = nil
	state.Step = models.RegistrationStepPersonalData

	country, countryFound := e.Reference.FindCountry(request.CountryCode, request.CountryName)
	if countryFound {
		state.Country = country
	}

	draft := e.buildDraft(state, request)
	state.Draft = &draft
	state.Progress = utils.ProgressPercent(completedFields(draft), constvars.RegistrationFormFields)

	if err := e.checkRequiredFields(state, draft); err != nil {
		return err
	}
	if !countryFound {
		state.SetFieldError(constvars.FieldCountryCode, constvars.ErrClientUnknownCountry)
		return exceptions.ErrFieldValidation(constvars.FieldCountryCode, constvars.ErrClientUnknownCountry)
	}
	if err := e.checkReferenceFields(state, draft); err != nil {
		return err
	}
	if err := e.checkBirthDate(state, draft); err != nil {
		return err
	}
	if err := e.checkNationalID(state, draft); err != nil {
		return err
	}

	phone := draft.Phone()
	if len(phone.Digits) != utils.MaskDigitSlots(state.Country.Mask) {
		state.SetFieldError(constvars.FieldPhone, constvars.ErrClientInvalidPhoneFormat)
		return exceptions.ErrFieldValidation(constvars.FieldPhone, constvars.ErrClientInvalidPhoneFormat)
	}

	if err := e.checkVerificationQuota(ctx, state); err != nil {
		return err
	}

	e.Log.Info("registration.Engine.SubmitPersonalData verifying phone",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, state.ID),
		zap.String(constvars.LoggingCountryCodeKey, phone.CountryCode),
	)
	phoneResult := e.Verifier.VerifyPhone(ctx, phone.CountryCode, phone.Digits)
	if !phoneResult.OK {
		return e.verificationFailure(state, constvars.FieldPhone, phoneResult, constvars.ErrDevPhoneRejected)
	}

	if state.Profile == models.ProfileKindDoctor && e.Config.LicenseCheckEnabled {
		e.Log.Info("registration.Engine.SubmitPersonalData verifying professional license",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRegistrationIDKey, state.ID),
		)
		licenseResult := e.Verifier.VerifyProfessionalLicense(ctx, draft.NationalID(), draft.GivenNames(), draft.Surnames())
		if !licenseResult.OK {
			return e.verificationFailure(state, constvars.FieldNationalID, licenseResult, constvars.ErrDevLicenseNotFound)
		}
	}

	accepted := draft
	state.PersonalData = &accepted
	state.Step = models.RegistrationStepCredentialEntry

	e.Log.Info("registration.Engine.SubmitPersonalData succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, state.ID),
		zap.String(constvars.LoggingProfileTypeKey, string(state.Profile)),
	)
	return nil
}

// SubmitCredentials gates the credential screen. It returns the payload for the
// account call only when every gate passed.
func (e *Engine) SubmitCredentials(state *models.RegistrationWorkflowState, request *requests.RegistrationCredentials) (*models.RegisterPayload, error) {
	if !state.AcceptsCredentials() {
		return nil, exceptions.ErrWorkflowStepMismatch(string(state.Step), "submit_credentials")
	}
	if state.InFlight {
		return nil, exceptions.ErrSubmissionInFlight(nil)
	}
	if state.PersonalData == nil {
		return nil, exceptions.ErrPersonalDataUnavailable(nil)
	}

	state.ClearFeedback()
	state.UpdatedAt = e.now()

	email := utils.NormalizeEmail(request.Email)
	state.Email = email
	switch {
	case email == "":
		state.SetFieldError(constvars.FieldEmail, constvars.ErrClientEmailRequired)
		return nil, exceptions.ErrFieldValidation(constvars.FieldEmail, constvars.ErrClientEmailRequired)
	case !utils.IsValidEmail(email):
		state.SetFieldError(constvars.FieldEmail, constvars.ErrClientInvalidEmail)
		return nil, exceptions.ErrFieldValidation(constvars.FieldEmail, constvars.ErrClientInvalidEmail)
	}

	checks := utils.CheckPassword(request.Password)
	state.PasswordChecks = &checks
	if !checks.All() {
		state.SetFieldError(constvars.FieldPassword, constvars.ErrClientWeakPassword)
		return nil, exceptions.ErrWeakPassword(constvars.FieldPassword)
	}

	if request.Password != request.ConfirmPassword {
		state.SetFieldError(constvars.FieldConfirmPassword, constvars.ErrClientPasswordsDoNotMatch)
		return nil, exceptions.ErrPasswordDoNotMatch(constvars.FieldConfirmPassword)
	}

	payload, err := BuildRegisterPayload(state.Profile, *state.PersonalData, email, request.Password)
	if err != nil {
		state.FailureMessage = constvars.ErrClientMalformedPersonalData
		return nil, exceptions.ErrMalformedPersonalData(err)
	}
	return payload, nil
}

// BeginSubmission marks the single in-flight account request.
func (e *Engine) BeginSubmission(state *models.RegistrationWorkflowState) {
	state.Step = models.RegistrationStepSubmitting
	state.InFlight = true
	state.UpdatedAt = e.now()
}

// ResolveStaleSubmission closes a submission whose owner went away before it
// recorded the outcome. Whether the account was created is unknown, so the user
// lands on the failed screen and may submit again.
func (e *Engine) ResolveStaleSubmission(state *models.RegistrationWorkflowState) {
	state.InFlight = false
	state.Step = models.RegistrationStepFailed
	state.FailureMessage = constvars.ErrClientNetworkBackend
	state.FailureKind = string(models.FailureConnectivity)
	state.UpdatedAt = e.now()
}

// FinishSubmission resolves the in-flight request. A failure goes back to the
// credential screen with the personal data untouched.
func (e *Engine) FinishSubmission(state *models.RegistrationWorkflowState, outcome models.RemoteOutcome) error {
	state.InFlight = false
	state.UpdatedAt = e.now()

	if outcome.OK {
		state.Step = models.RegistrationStepSuccess
		state.ClearFeedback()
		return nil
	}

	message := outcome.Message
	if outcome.Failure == models.FailureConnectivity && message == "" {
		message = constvars.ErrClientNetworkBackend
	}
	if outcome.Detail != "" {
		message = formatRegisterDetail(message, outcome.Detail)
	}

	state.Step = models.RegistrationStepFailed
	state.FailureMessage = message
	state.FailureKind = string(outcome.Failure)

	if outcome.Failure == models.FailureConnectivity {
		return exceptions.ErrConnectivity(nil, message)
	}
	statusCode := outcome.StatusCode
	if statusCode < 400 {
		statusCode = constvars.StatusBadGateway
	}
	return exceptions.ErrRemoteRejected(statusCode, message)
}

// BuildRegisterPayload discriminates the tagged union. A payload whose kind and
// populated variant disagree is rejected instead of being guessed at.
func BuildRegisterPayload(kind models.ProfileKind, data models.PersonalData, email, password string) (*models.RegisterPayload, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if data.Kind != kind {
		return nil, models.ErrPersonalDataKindMismatch
	}

	switch data.Kind {
	case models.ProfileKindPatient:
		patient := data.Patient
		return &models.RegisterPayload{
			GivenNames: patient.GivenNames,
			Surnames:   patient.Surnames,
			BirthDate:  patient.BirthDate,
			Gender:     patient.Gender,
			NationalID: strings.TrimSpace(patient.NationalID),
			Phone:      utils.RegistrationPhoneDigits(patient.Phone.CountryCode, patient.Phone.Digits),
			Email:      email,
			Password:   password,
			Role:       string(models.ProfileKindPatient),
		}, nil
	case models.ProfileKindDoctor:
		doctor := data.Doctor
		return &models.RegisterPayload{
			GivenNames: doctor.GivenNames,
			Surnames:   doctor.Surnames,
			BirthDate:  doctor.BirthDate,
			Gender:     doctor.Gender,
			NationalID: strings.TrimSpace(doctor.NationalID),
			Phone:      utils.RegistrationPhoneDigits(doctor.Phone.CountryCode, doctor.Phone.Digits),
			Email:      email,
			Password:   password,
			Role:       string(models.ProfileKindDoctor),
			Specialty:  doctor.Specialty,
			Photo:      doctor.PhotoObjectKey,
		}, nil
	}
	return nil, models.ErrPersonalDataUnknownKind
}

func (e *Engine) buildDraft(state *models.RegistrationWorkflowState, request *requests.RegistrationPersonalData) models.PersonalData {
	digits := utils.DigitsOnly(request.Phone)
	if slots := utils.MaskDigitSlots(state.Country.Mask); slots > 0 && len(digits) > slots {
		digits = digits[:slots]
	}
	phone := models.Phone{
		CountryCode: state.Country.Code,
		CountryName: state.Country.Name,
		Digits:      digits,
	}
	nationalID := draftNationalID(state.Country, request.NationalID)

	if state.Profile == models.ProfileKindDoctor {
		photo := ""
		if state.Draft != nil && state.Draft.Doctor != nil {
			photo = state.Draft.Doctor.PhotoObjectKey
		}
		return models.NewDoctorPersonalData(models.DoctorData{
			GivenNames:     request.GivenNames,
			Surnames:       request.Surnames,
			Specialty:      request.Specialty,
			NationalID:     nationalID,
			Phone:          phone,
			BirthDate:      request.BirthDate,
			Gender:         request.Gender,
			PhotoObjectKey: photo,
		})
	}
	return models.NewPatientPersonalData(models.PatientData{
		GivenNames: request.GivenNames,
		Surnames:   request.Surnames,
		BirthDate:  request.BirthDate,
		Gender:     request.Gender,
		NationalID: nationalID,
		Phone:      phone,
	})
}

// draftNationalID shows a complete Dominican cédula as XXX-XXXXXXX-X. Anything
// else stays as typed so the checksum gate sees it unaltered.
func draftNationalID(country models.CountryCode, raw string) string {
	if !country.ChecksumsNationalID() {
		return raw
	}
	if len(utils.DigitsOnly(raw)) != constvars.NationalIDLength || !nationalIDCharsOnly(raw) {
		return raw
	}
	return utils.FormatNationalID(raw)
}

func nationalIDCharsOnly(value string) bool {
	for _, r := range value {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

type formField struct {
	name  string
	value string
}

func requiredFields(data models.PersonalData) []formField {
	if data.Kind == models.ProfileKindDoctor {
		doctor := data.Doctor
		return []formField{
			{constvars.FieldGivenNames, doctor.GivenNames},
			{constvars.FieldSurnames, doctor.Surnames},
			{constvars.FieldSpecialty, doctor.Specialty},
			{constvars.FieldNationalID, doctor.NationalID},
			{constvars.FieldPhone, doctor.Phone.Digits},
		}
	}
	patient := data.Patient
	return []formField{
		{constvars.FieldGivenNames, patient.GivenNames},
		{constvars.FieldSurnames, patient.Surnames},
		{constvars.FieldBirthDate, patient.BirthDate},
		{constvars.FieldGender, patient.Gender},
		{constvars.FieldNationalID, patient.NationalID},
		{constvars.FieldPhone, patient.Phone.Digits},
	}
}

// completedFields counts the filled boxes of the form. The doctor photo counts
// as the sixth box of the doctor form.
func completedFields(data models.PersonalData) int {
	completed := 0
	for _, field := range requiredFields(data) {
		if !utils.IsBlank(field.value) {
			completed++
		}
	}
	if data.Kind == models.ProfileKindDoctor && data.Doctor.PhotoObjectKey != "" {
		completed++
	}
	return completed
}

func (e *Engine) checkRequiredFields(state *models.RegistrationWorkflowState, data models.PersonalData) error {
	firstMissing := ""
	for _, field := range requiredFields(data) {
		if utils.IsBlank(field.value) {
			state.SetFieldError(field.name, constvars.ErrClientRequiredField)
			if firstMissing == "" {
				firstMissing = field.name
			}
		}
	}
	if firstMissing != "" {
		return exceptions.ErrFieldValidation(firstMissing, constvars.ErrClientCompletePersonalData)
	}
	return nil
}

func (e *Engine) checkReferenceFields(state *models.RegistrationWorkflowState, data models.PersonalData) error {
	if data.Kind == models.ProfileKindDoctor && !e.Reference.HasSpecialty(data.Doctor.Specialty) {
		state.SetFieldError(constvars.FieldSpecialty, constvars.ErrClientUnknownSpecialty)
		return exceptions.ErrFieldValidation(constvars.FieldSpecialty, constvars.ErrClientUnknownSpecialty)
	}

	var gender string
	if data.Kind == models.ProfileKindDoctor {
		gender = data.Doctor.Gender
	} else {
		gender = data.Patient.Gender
	}
	if gender != "" && !e.Reference.HasGender(gender) {
		state.SetFieldError(constvars.FieldGender, constvars.ErrClientUnknownGender)
		return exceptions.ErrFieldValidation(constvars.FieldGender, constvars.ErrClientUnknownGender)
	}
	return nil
}

// checkBirthDate is mandatory for patients; a doctor's birth date is checked only when given.
func (e *Engine) checkBirthDate(state *models.RegistrationWorkflowState, data models.PersonalData) error {
	var birthDate string
	if data.Kind == models.ProfileKindDoctor {
		birthDate = data.Doctor.BirthDate
	} else {
		birthDate = data.Patient.BirthDate
	}
	if birthDate == "" {
		return nil
	}

	now := e.now()
	if !utils.ValidateBirthDate(birthDate, now) {
		state.SetFieldError(constvars.FieldBirthDate, constvars.ErrClientInvalidBirthDate)
		return exceptions.ErrPolicyViolation(constvars.FieldBirthDate, constvars.ErrClientInvalidBirthDate, constvars.ErrDevValidationFailed)
	}
	if e.Config.RequireAdult && !utils.IsAdult(birthDate, now) {
		state.SetFieldError(constvars.FieldBirthDate, constvars.ErrClientUnderage)
		return exceptions.ErrPolicyViolation(constvars.FieldBirthDate, constvars.ErrClientUnderage, constvars.ErrDevValidationFailed)
	}
	return nil
}

// checkNationalID applies the cédula checksum only for Dominican numbers; other
// countries accept the value as typed.
func (e *Engine) checkNationalID(state *models.RegistrationWorkflowState, data models.PersonalData) error {
	if !state.Country.ChecksumsNationalID() {
		return nil
	}
	nationalID := data.NationalID()
	if !nationalIDCharsOnly(nationalID) || !utils.ValidateNationalID(nationalID) {
		state.SetFieldError(constvars.FieldNationalID, constvars.ErrClientInvalidNationalID)
		return exceptions.ErrPolicyViolation(constvars.FieldNationalID, constvars.ErrClientInvalidNationalID, constvars.ErrDevValidationFailed)
	}
	return nil
}

// checkVerificationQuota bounds paid verification calls per workflow. A limiter
// outage does not block registration.
func (e *Engine) checkVerificationQuota(ctx context.Context, state *models.RegistrationWorkflowState) error {
	if e.Limiter == nil || e.Config.PhoneVerificationQuota <= 0 {
		return nil
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	allowed, _, err := e.Limiter.Allow(ctx, constvars.RateLimitGroupPhoneCheck, state.ID, e.Config.PhoneVerificationQuota, e.Config.PhoneVerificationWindow)
	if err != nil {
		e.Log.Warn("registration.Engine.checkVerificationQuota limiter unavailable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil
	}
	if !allowed {
		state.FailureMessage = constvars.ErrClientTooManyRequests
		return exceptions.ErrTooManyRequests(nil).WithField(constvars.FieldPhone)
	}
	return nil
}

func (e *Engine) verificationFailure(state *models.RegistrationWorkflowState, field string, result models.VerificationResult, devMessage string) error {
	state.SetFieldError(field, result.Reason)
	state.FailureMessage = result.Reason
	state.FailureKind = string(result.Failure)

	switch result.Failure {
	case models.FailureConnectivity:
		return exceptions.ErrConnectivity(nil, result.Reason).WithField(field)
	case models.FailureRequestFailed:
		return exceptions.ErrRemoteRejected(constvars.StatusBadGateway, result.Reason).WithField(field)
	}
	return exceptions.ErrPolicyViolation(field, result.Reason, devMessage)
}

func formatRegisterDetail(message, detail string) string {
	return fmt.Sprintf(constvars.ErrClientRegisterDetailFormat, message, detail)
}
