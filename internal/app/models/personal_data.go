package models

import "errors"

type ProfileKind string

const (
	ProfileKindPatient ProfileKind = "patient"
	ProfileKindDoctor  ProfileKind = "doctor"
)

func (k ProfileKind) Valid() bool {
	return k == ProfileKindPatient || k == ProfileKindDoctor
}

var (
	ErrPersonalDataKindMismatch = errors.New("personal data kind does not match populated variant")
	ErrPersonalDataUnknownKind  = errors.New("personal data kind is unknown")
)

// PersonalData is a tagged union. Kind is fixed when the profile is selected
// and exactly one of Patient or Doctor matches it.
type PersonalData struct {
	Kind    ProfileKind  `json:"kind"`
	Patient *PatientData `json:"patient,omitempty"`
	Doctor  *DoctorData  `json:"doctor,omitempty"`
}

type PatientData struct {
	GivenNames string `json:"nombres"`
	Surnames   string `json:"apellidos"`
	BirthDate  string `json:"fechanacimiento"`
	Gender     string `json:"genero"`
	NationalID string `json:"cedula"`
	Phone      Phone  `json:"telefono"`
}

type DoctorData struct {
	GivenNames     string `json:"nombres"`
	Surnames       string `json:"apellidos"`
	Specialty      string `json:"especialidad"`
	NationalID     string `json:"cedula"`
	Phone          Phone  `json:"telefono"`
	BirthDate      string `json:"fechanacimiento,omitempty"`
	Gender         string `json:"genero,omitempty"`
	PhotoObjectKey string `json:"foto,omitempty"`
}

// Phone keeps the selected country next to the raw digits the user typed.
type Phone struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Digits      string `json:"digits"`
}

func NewPatientPersonalData(data PatientData) PersonalData {
	return PersonalData{Kind: ProfileKindPatient, Patient: &data}
}

func NewDoctorPersonalData(data DoctorData) PersonalData {
	return PersonalData{Kind: ProfileKindDoctor, Doctor: &data}
}

// Validate rejects payloads whose discriminant and populated variant disagree.
func (p PersonalData) Validate() error {
	switch p.Kind {
	case ProfileKindPatient:
		if p.Patient == nil || p.Doctor != nil {
			return ErrPersonalDataKindMismatch
		}
	case ProfileKindDoctor:
		if p.Doctor == nil || p.Patient != nil {
			return ErrPersonalDataKindMismatch
		}
	default:
		return ErrPersonalDataUnknownKind
	}
	return nil
}

// Common fields shared by both variants. Callers must Validate first.
func (p PersonalData) GivenNames() string {
	if p.Kind == ProfileKindDoctor && p.Doctor != nil {
		return p.Doctor.GivenNames
	}
	if p.Patient != nil {
		return p.Patient.GivenNames
	}
	return ""
}

func (p PersonalData) Surnames() string {
	if p.Kind == ProfileKindDoctor && p.Doctor != nil {
		return p.Doctor.Surnames
	}
	if p.Patient != nil {
		return p.Patient.Surnames
	}
	return ""
}

func (p PersonalData) NationalID() string {
	if p.Kind == ProfileKindDoctor && p.Doctor != nil {
		return p.Doctor.NationalID
	}
	if p.Patient != nil {
		return p.Patient.NationalID
	}
	return ""
}

func (p PersonalData) Phone() Phone {
	if p.Kind == ProfileKindDoctor && p.Doctor != nil {
		return p.Doctor.Phone
	}
	if p.Patient != nil {
		return p.Patient.Phone
	}
	return Phone{}
}
