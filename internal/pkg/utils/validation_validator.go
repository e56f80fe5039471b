package utils

import (
	"reflect"
	"regexp"
	"strings"
	"virem-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var (
	validate         *validator.Validate
	singleDigitRegex = regexp.MustCompile(constvars.RegexSingleDigit)
	countryCodeRegex = regexp.MustCompile(`^\+[1-9]\d{0,3}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterValidation("profile_type", validateProfileType)
	validate.RegisterValidation("otp_code", validateOtpCode)
	validate.RegisterValidation("country_code", validateCountryCode)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateProfileType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "patient" || value == "doctor"
}

// validateOtpCode accepts exactly six slots, each empty or holding a single digit.
func validateOtpCode(fl validator.FieldLevel) bool {
	slots, ok := fl.Field().Interface().([]string)
	if !ok || len(slots) != constvars.OTP_LENGTH {
		return false
	}
	for _, slot := range slots {
		if slot != "" && !singleDigitRegex.MatchString(slot) {
			return false
		}
	}
	return true
}

func validateCountryCode(fl validator.FieldLevel) bool {
	return countryCodeRegex.MatchString(fl.Field().String())
}

// jsonTagName makes validation errors report the field name the client sent.
func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}
