package models

// CountryCode is one entry of the phone prefix picker.
type CountryCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Mask string `json:"mask"`
}

// ChecksumsNationalID is true only for the Dominican Republic.
func (c CountryCode) ChecksumsNationalID() bool {
	return c.Name == "República Dominicana"
}
