package config

import "virem-service/internal/app/models"

// ReferenceData holds the lookup tables the screens render. It is built once at
// startup and handed to whoever needs it; nothing mutates it afterwards.
type ReferenceData struct {
	Countries   []models.CountryCode
	Specialties []string
	Genders     []string
}

func NewReferenceData() *ReferenceData {
	return &ReferenceData{
		Countries: []models.CountryCode{
			{Code: "+1", Name: "República Dominicana", Mask: "XXX XXX XXXX"},
			{Code: "+593", Name: "Ecuador", Mask: "XX XXX XXXX"},
			{Code: "+1", Name: "USA/CAN", Mask: "XXX XXX XXXX"},
			{Code: "+506", Name: "Costa Rica", Mask: "XXXX XXXX"},
			{Code: "+34", Name: "España", Mask: "XXX XX XX XX"},
		},
		Specialties: []string{
			"Medicina General",
			"Psicología",
			"Psiquiatría",
			"Ginecología",
			"Pediatría",
			"Cardiología",
			"Dermatología",
			"Odontología",
			"Nutrición",
			"Neurología",
			"Neumología",
			"Infectología",
			"Endocrinología",
			"Reumatología",
			"Medicina Familiar",
		},
		Genders: []string{"Hombre", "Mujer", "Otro"},
	}
}

// DefaultCountry is the first entry, the Dominican Republic.
func (r *ReferenceData) DefaultCountry() models.CountryCode {
	return r.Countries[0]
}

// FindCountry resolves a picker selection. The +1 prefix is shared, so the name
// disambiguates; an empty name picks the first entry with that code.
func (r *ReferenceData) FindCountry(code, name string) (models.CountryCode, bool) {
	for _, country := range r.Countries {
		if country.Code != code {
			continue
		}
		if name == "" || country.Name == name {
			return country, true
		}
	}
	return models.CountryCode{}, false
}

func (r *ReferenceData) HasSpecialty(specialty string) bool {
	for _, candidate := range r.Specialties {
		if candidate == specialty {
			return true
		}
	}
	return false
}

func (r *ReferenceData) HasGender(gender string) bool {
	for _, candidate := range r.Genders {
		if candidate == gender {
			return true
		}
	}
	return false
}
