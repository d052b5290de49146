package types

import "time"

type DonorProfile struct {
	ID               string     `db:"id" json:"id"`
	FullName         string     `db:"full_name" json:"fullName"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	BloodType        BloodType  `db:"blood_type" json:"bloodType"`
	City             City       `db:"city" json:"city"`
	LastDonationDate *time.Time `db:"last_donation_date" json:"lastDonationDate,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// EligibilityResult is derived on every query and never stored.
type EligibilityResult struct {
	IsEligible       bool       `json:"isEligible"`
	DaysRemaining    *int       `json:"daysRemaining"`
	NextEligibleDate *time.Time `json:"nextEligibleDate,omitempty"`
}

type DonationLog struct {
	ID           string    `db:"id" json:"id"`
	DonorID      string    `db:"donor_id" json:"donorId"`
	DonatedAt    time.Time `db:"donated_at" json:"donatedAt"`
	HospitalName string    `db:"hospital_name" json:"hospitalName"`
	RequestID    *string   `db:"request_id" json:"requestId,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
