package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
	"virem-service/internal/pkg/constvars"
)

var (
	emailRegex          = regexp.MustCompile(constvars.RegexEmail)
	uppercaseRegex      = regexp.MustCompile(constvars.RegexContainAtLeastOneUppercase)
	digitRegex          = regexp.MustCompile(constvars.RegexContainAtLeastOneDigit)
	specialCharRegex    = regexp.MustCompile(constvars.RegexContainAtLeastOneSpecialChar)
	notLetterSpaceRegex = regexp.MustCompile(constvars.RegexNotLetterOrSpace)
)

var nationalIDWeights = [10]int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2}

// PasswordChecks is the per-rule breakdown shown next to the password field.
type PasswordChecks struct {
	MinLength    bool `json:"min_length"`
	HasUppercase bool `json:"has_uppercase"`
	HasNumber    bool `json:"has_number"`
	HasSpecial   bool `json:"has_special"`
}

func (c PasswordChecks) All() bool {
	return c.MinLength && c.HasUppercase && c.HasNumber && c.HasSpecial
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks the normalized form, so surrounding spaces and case do not matter.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(NormalizeEmail(email))
}

func CheckPassword(password string) PasswordChecks {
	return PasswordChecks{
		MinLength:    utf8.RuneCountInString(password) >= constvars.MinimumPasswordLength,
		HasUppercase: uppercaseRegex.MatchString(password),
		HasNumber:    digitRegex.MatchString(password),
		HasSpecial:   specialCharRegex.MatchString(password),
	}
}

func IsStrongPassword(password string) bool {
	return CheckPassword(password).All()
}

// ValidateNationalID runs the Dominican cédula checksum over the digits of id.
// Separators are ignored; anything other than 11 digits is invalid.
func ValidateNationalID(id string) bool {
	digits := DigitsOnly(id)
	if len(digits) != constvars.NationalIDLength {
		return false
	}

	sum := 0
	for i, weight := range nationalIDWeights {
		product := int(digits[i]-'0') * weight
		if product >= 10 {
			product = product/10 + product%10
		}
		sum += product
	}

	check := (10 - sum%10) % 10
	return check == int(digits[10]-'0')
}

// ValidateBirthDate accepts DD/MM/YYYY dates that exist on the calendar,
// are not after now and are within the plausible age range.
func ValidateBirthDate(value string, now time.Time) bool {
	birthDate, ok := parseBirthDate(value, now.Location())
	if !ok {
		return false
	}

	today := startOfDay(now)
	if birthDate.After(today) {
		return false
	}
	return birthDate.Year() >= now.Year()-constvars.MaxPlausibleAgeYears
}

// IsAdult reports whether the person born on value turned 18 on or before now.
func IsAdult(value string, now time.Time) bool {
	if !ValidateBirthDate(value, now) {
		return false
	}
	birthDate, _ := parseBirthDate(value, now.Location())
	adulthood := birthDate.AddDate(constvars.AdultAgeYears, 0, 0)
	return !adulthood.After(startOfDay(now))
}

func parseBirthDate(value string, loc *time.Location) (time.Time, bool) {
	if len(value) != constvars.BirthDateInputLength {
		return time.Time{}, false
	}
	birthDate, err := time.ParseInLocation(constvars.BirthDateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	// reject rollovers such as 30/02
	if birthDate.Format(constvars.BirthDateLayout) != value {
		return time.Time{}, false
	}
	return birthDate, true
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// MaskDigitSlots counts the X placeholders of a phone mask.
func MaskDigitSlots(mask string) int {
	return strings.Count(mask, "X")
}

// FilterLettersOnly drops everything that is not a Latin letter, an accented
// Spanish vowel, ñ or a space.
func FilterLettersOnly(value string) string {
	return notLetterSpaceRegex.ReplaceAllString(value, "")
}

// FilterSpecialties returns the entries containing query, case-insensitively.
// An empty query returns every entry.
func FilterSpecialties(specialties []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		result := make([]string, len(specialties))
		copy(result, specialties)
		return result
	}

	result := make([]string, 0, len(specialties))
	for _, specialty := range specialties {
		if strings.Contains(strings.ToLower(specialty), query) {
			result = append(result, specialty)
		}
	}
	return result
}

func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
