package utils

import (
	"strings"
	"virem-service/internal/pkg/dto/requests"
)

func cleanWhiteSpaceFromEachStringOfAnArray(input []string) []string {
	sanitizedArray := make([]string, len(input))
	for i, v := range input {
		sanitizedArray[i] = strings.TrimSpace(v)
	}
	return sanitizedArray
}

func cleanNameField(input string) string {
	return strings.TrimSpace(FilterLettersOnly(input))
}

func SanitizeSelectProfileRequest(input *requests.SelectProfile) {
	input.ProfileType = strings.ToLower(strings.TrimSpace(input.ProfileType))
}

// SanitizeRegistrationPersonalDataRequest applies the same input filters the form
// applies while typing. Birth date and cédula are only trimmed; their gates judge
// them as sent.
func SanitizeRegistrationPersonalDataRequest(input *requests.RegistrationPersonalData) {
	input.ProfileType = strings.ToLower(strings.TrimSpace(input.ProfileType))
	input.GivenNames = cleanNameField(input.GivenNames)
	input.Surnames = cleanNameField(input.Surnames)
	input.Gender = strings.TrimSpace(input.Gender)
	input.Specialty = strings.TrimSpace(input.Specialty)
	input.CountryCode = strings.TrimSpace(input.CountryCode)
	input.CountryName = strings.TrimSpace(input.CountryName)
	input.Phone = DigitsOnly(input.Phone)

	input.BirthDate = strings.TrimSpace(input.BirthDate)
	input.NationalID = strings.TrimSpace(input.NationalID)
}

// Passwords are never trimmed; a leading space is part of the secret.
func SanitizeRegistrationCredentialsRequest(input *requests.RegistrationCredentials) {
	input.Email = NormalizeEmail(input.Email)
}

func SanitizeLoginRequest(input *requests.Login) {
	input.Email = NormalizeEmail(input.Email)
}

func SanitizeRecoveryRequestCodeRequest(input *requests.RecoveryRequestCode) {
	input.Email = NormalizeEmail(input.Email)
}

func SanitizeRecoveryVerifyCodeRequest(input *requests.RecoveryVerifyCode) {
	input.Code = cleanWhiteSpaceFromEachStringOfAnArray(input.Code)
}
