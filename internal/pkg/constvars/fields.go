package constvars

// Field names reported with field-specific errors. They match the JSON keys the screens send.
const (
	FieldProfileType     = "profile_type"
	FieldGivenNames      = "nombres"
	FieldSurnames        = "apellidos"
	FieldBirthDate       = "fechanacimiento"
	FieldGender          = "genero"
	FieldNationalID      = "cedula"
	FieldPhone           = "telefono"
	FieldCountryCode     = "country_code"
	FieldSpecialty       = "especialidad"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldOTPCode         = "code"
	FieldNewPassword     = "new_password"
)
