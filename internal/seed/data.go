package seed

import (
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
)

// Data is everything the seed command writes. It is the source of truth for the
// sample donors and requests used in development.
//
// To generate new IDs: `go run ./cmd/bloodlink nanoid`
type Data struct {
	Settings types.Settings
	Donors   []*types.DonorProfile
	Requests []*types.BloodRequest
}

// seedNotePrefix marks rows written by the seed command so --reset can find them.
const seedNotePrefix = "[seed] "

func Sample() Data {
	return Data{
		Settings: types.DefaultSettings(),
		Donors: []*types.DonorProfile{
			{ID: "seed-donor-0001", FullName: "Fatima Al-Sabah", Phone: utils.StringPtr("+96550000001"), BloodType: types.BloodTypeONeg, City: types.CityCapital},
			{ID: "seed-donor-0002", FullName: "Yousef Al-Mutairi", Phone: utils.StringPtr("+96550000002"), BloodType: types.BloodTypeOPos, City: types.CityHawalli},
			{ID: "seed-donor-0003", FullName: "Maryam Al-Enezi", BloodType: types.BloodTypeAPos, City: types.CityFarwaniya},
			{ID: "seed-donor-0004", FullName: "Abdullah Al-Rashidi", BloodType: types.BloodTypeBNeg, City: types.CityAhmadi},
			{ID: "seed-donor-0005", FullName: "Noura Al-Shammari", Phone: utils.StringPtr("+96550000005"), BloodType: types.BloodTypeABPos, City: types.CityJahra},
			{ID: "seed-donor-0006", FullName: "Hamad Al-Ajmi", BloodType: types.BloodTypeANeg, City: types.CityMubarakAlKabeer},
		},
		Requests: []*types.BloodRequest{
			{
				ID:           "wq3VhR8nYd0pLx2TzK5mBc7a",
				RequesterID:  "seed-donor-0002",
				BloodType:    types.BloodTypeONeg,
				City:         types.CityCapital,
				HospitalName: "Amiri Hospital",
				PatientName:  utils.StringPtr("Khalid Al-Fadhli"),
				FileNumber:   utils.StringPtr("AMR-204311"),
				UnitsNeeded:  3,
				ContactPhone: utils.StringPtr("+96550000002"),
				Notes:        utils.StringPtr(seedNotePrefix + "Emergency surgery scheduled tonight."),
				UrgencyLevel: types.UrgencyUrgent,
			},
			{
				ID:           "Jf4uG9sLq1ZbN6xWc3eP8tHk",
				RequesterID:  "seed-donor-0003",
				BloodType:    types.BloodTypeAPos,
				City:         types.CityFarwaniya,
				HospitalName: "Farwaniya Hospital",
				PatientName:  utils.StringPtr("Sara Al-Hajri"),
				UnitsNeeded:  2,
				Notes:        utils.StringPtr(seedNotePrefix + "Scheduled transfusion."),
				UrgencyLevel: types.UrgencyHigh,
			},
			{
				ID:           "Rb2cT7vXm5QaY0dLs9nK4wEf",
				RequesterID:  "seed-donor-0005",
				BloodType:    types.BloodTypeABNeg,
				City:         types.CityJahra,
				HospitalName: "Jahra Hospital",
				UnitsNeeded:  1,
				Notes:        utils.StringPtr(seedNotePrefix + "Thalassemia patient, recurring need."),
				UrgencyLevel: types.UrgencyNormal,
			},
			{
				ID:           "Mz8pD1kHs6WeU3gVb0yC5rJn",
				RequesterID:  "seed-donor-0001",
				BloodType:    types.BloodTypeBPos,
				City:         types.CityAhmadi,
				HospitalName: "Adan Hospital",
				PatientName:  utils.StringPtr("Ahmad Al-Kandari"),
				FileNumber:   utils.StringPtr("ADN-77812"),
				UnitsNeeded:  4,
				Notes:        utils.StringPtr(seedNotePrefix + "Post-accident care."),
				UrgencyLevel: types.UrgencyUrgent,
			},
		},
	}
}
