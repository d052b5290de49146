package types

import (
	"fmt"
	"strings"
)

type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// AllBloodTypes lists every blood type in display order.
var AllBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

func (t BloodType) Valid() bool {
	for _, v := range AllBloodTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t BloodType) String() string {
	return string(t)
}

func ParseBloodType(s string) (BloodType, error) {
	t := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBloodType, s)
	}
	return t, nil
}

type City string

const (
	CityCapital         City = "capital"
	CityHawalli         City = "hawalli"
	CityFarwaniya       City = "farwaniya"
	CityAhmadi          City = "ahmadi"
	CityJahra           City = "jahra"
	CityMubarakAlKabeer City = "mubarak_al_kabeer"
)

var AllCities = []City{
	CityCapital,
	CityHawalli,
	CityFarwaniya,
	CityAhmadi,
	CityJahra,
	CityMubarakAlKabeer,
}

var cityLabels = map[City]string{
	CityCapital:         "Capital",
	CityHawalli:         "Hawalli",
	CityFarwaniya:       "Farwaniya",
	CityAhmadi:          "Ahmadi",
	CityJahra:           "Jahra",
	CityMubarakAlKabeer: "Mubarak Al-Kabeer",
}

func (c City) Valid() bool {
	_, ok := cityLabels[c]
	return ok
}

func (c City) Label() string {
	return cityLabels[c]
}

func ParseCity(s string) (City, error) {
	c := City(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCity, s)
	}
	return c, nil
}
