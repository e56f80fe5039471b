package registration

import (
	"context"
	"time"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/responses"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

func (uc *registrationUsecase) toResponse(ctx context.Context, state *models.RegistrationWorkflowState) *responses.RegistrationState {
	response := &responses.RegistrationState{
		ID:             state.ID,
		Step:           string(state.Step),
		Profile:        string(state.Profile),
		Country:        CountryResponse(state.Country),
		Progress:       state.Progress,
		Email:          state.Email,
		FieldErrors:    state.FieldErrors,
		FailureMessage: state.FailureMessage,
		FailureKind:    state.FailureKind,
		InFlight:       state.InFlight,
	}
	if state.PasswordChecks != nil {
		response.PasswordChecks = &responses.PasswordChecks{
			MinLength:    state.PasswordChecks.MinLength,
			HasUppercase: state.PasswordChecks.HasUppercase,
			HasNumber:    state.PasswordChecks.HasNumber,
			HasSpecial:   state.PasswordChecks.HasSpecial,
		}
	}
	if state.Draft != nil {
		response.Draft = draftResponse(*state.Draft, state.Country.Mask)
		if state.Draft.Doctor != nil && state.Draft.Doctor.PhotoObjectKey != "" {
			response.PhotoURL = uc.photoURL(ctx, state.Draft.Doctor.PhotoObjectKey)
		}
	}
	return response
}

func (uc *registrationUsecase) photoURL(ctx context.Context, objectKey string) string {
	if uc.Storage == nil {
		return ""
	}
	expiry := time.Duration(uc.InternalConfig.Minio.PreSignedUrlObjectExpiryTimeInHour) * time.Hour
	url, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, uc.InternalConfig.Minio.BucketName, objectKey, expiry)
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Warn("registrationUsecase.photoURL error presigning photo",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKey, objectKey),
			zap.Error(err),
		)
		return ""
	}
	return url
}

func draftResponse(data models.PersonalData, mask string) *responses.RegistrationDraft {
	if data.Validate() != nil {
		return nil
	}
	phone := data.Phone()
	draft := &responses.RegistrationDraft{
		GivenNames:   data.GivenNames(),
		Surnames:     data.Surnames(),
		NationalID:   data.NationalID(),
		Phone:        phone.Digits,
		PhoneDisplay: utils.ApplyPhoneMask(phone.Digits, mask),
	}
	if data.Kind == models.ProfileKindDoctor {
		draft.BirthDate = data.Doctor.BirthDate
		draft.Gender = data.Doctor.Gender
		draft.Specialty = data.Doctor.Specialty
		draft.HasPhoto = data.Doctor.PhotoObjectKey != ""
	} else {
		draft.BirthDate = data.Patient.BirthDate
		draft.Gender = data.Patient.Gender
	}
	return draft
}

func CountryResponse(country models.CountryCode) responses.Country {
	return responses.Country{
		Code:                country.Code,
		Name:                country.Name,
		Mask:                country.Mask,
		DigitSlots:          utils.MaskDigitSlots(country.Mask),
		ChecksumsNationalID: country.ChecksumsNationalID(),
	}
}
