package responses

type Country struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	Mask                string `json:"mask"`
	DigitSlots          int    `json:"digit_slots"`
	ChecksumsNationalID bool   `json:"checksums_national_id"`
}

type Specialties struct {
	Query       string   `json:"query,omitempty"`
	Specialties []string `json:"specialties"`
}
