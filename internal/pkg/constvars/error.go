package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":     "es obligatorio",
	"email":        "debe ser un correo válido",
	"min":          "debe tener al menos %s caracteres",
	"max":          "debe tener como máximo %s caracteres",
	"len":          "debe tener exactamente %s caracteres",
	"oneof":        "debe ser uno de: %s",
	"eqfield":      "debe coincidir con %s",
	"profile_type": "debe ser patient o doctor",
	"country_code": ErrClientUnknownCountry,
	"otp_code":     ErrClientIncompleteOTP,
}

// Tags whose message already reads as a complete sentence.
var StandaloneValidationTags = map[string]bool{
	"country_code": true,
	"otp_code":     true,
}

var TagsWithParams = map[string]bool{
	"min":     true,
	"max":     true,
	"len":     true,
	"oneof":   true,
	"eqfield": true,
}
