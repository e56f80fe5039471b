package requests

type SelectProfile struct {
	ProfileType string `json:"profile_type" validate:"required,profile_type"`
}

// RegistrationPersonalData is the flat form of both personal-data screens. The
// variant is taken from the workflow; ProfileType is only a cross-check.
type RegistrationPersonalData struct {
	ProfileType string `json:"profile_type" validate:"omitempty,profile_type"`
	GivenNames  string `json:"nombres"`
	Surnames    string `json:"apellidos"`
	BirthDate   string `json:"fechanacimiento"`
	Gender      string `json:"genero"`
	NationalID  string `json:"cedula"`
	CountryCode string `json:"country_code" validate:"required,country_code"`
	CountryName string `json:"country_name"`
	Phone       string `json:"telefono"`
	Specialty   string `json:"especialidad"`
}

type RegistrationCredentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type DoctorPhoto struct {
	Photo     []byte
	PhotoName string
}
