package utils

import (
	"strings"
	"virem-service/internal/pkg/constvars"
)

func DigitsOnly(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			builder.WriteByte(value[i])
		}
	}
	return builder.String()
}

// ApplyPhoneMask lays the digits of raw over the X slots of mask. Output stops
// at the last placed digit, so separators never trail a partial number.
func ApplyPhoneMask(raw, mask string) string {
	digits := DigitsOnly(raw)
	maskRunes := []rune(mask)

	var builder strings.Builder
	digitIndex := 0
	for i := 0; i < len(maskRunes) && digitIndex < len(digits); i++ {
		if maskRunes[i] == 'X' {
			builder.WriteByte(digits[digitIndex])
			digitIndex++
			continue
		}
		builder.WriteRune(maskRunes[i])
	}
	return builder.String()
}

// FormatNationalID renders the digits as XXX-XXXXXXX-X. Digits past the eleventh
// are dropped, so callers only pass values already known to be complete.
func FormatNationalID(value string) string {
	digits := DigitsOnly(value)
	if len(digits) > constvars.NationalIDLength {
		digits = digits[:constvars.NationalIDLength]
	}

	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 10:
		return digits[:3] + "-" + digits[3:]
	default:
		return digits[:3] + "-" + digits[3:10] + "-" + digits[10:]
	}
}

// RegistrationPhoneDigits joins the country code and the local number and keeps digits only.
func RegistrationPhoneDigits(countryCode, number string) string {
	return DigitsOnly(countryCode + " " + number)
}

// ProgressPercent is completed/total rounded to the nearest whole percent.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return (completed*100 + total/2) / total
}
