package types

type ErrorResponse struct {
	Error string `json:"error"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type DonorProfileInput struct {
	FullName  string  `json:"fullName"`
	Phone     *string `json:"phone"`
	BloodType string  `json:"bloodType"`
	City      string  `json:"city"`
}

type BloodRequestInput struct {
	BloodType    string  `json:"bloodType"`
	City         string  `json:"city"`
	HospitalName string  `json:"hospitalName"`
	PatientName  *string `json:"patientName"`
	FileNumber   *string `json:"fileNumber"`
	UnitsNeeded  int     `json:"unitsNeeded"`
	ContactPhone *string `json:"contactPhone"`
	Notes        *string `json:"notes"`
	UrgencyLevel string  `json:"urgencyLevel"`

	// Force publishes the request even when it looks like a duplicate.
	Force bool `json:"force"`
}

type CreateRequestResponse struct {
	Request     *BloodRequest    `json:"request"`
	Duplicate   *DuplicateResult `json:"duplicate,omitempty"`
	CheckFailed bool             `json:"checkFailed"`
}

type DuplicateCheckResponse struct {
	DuplicateResult
	CheckFailed bool `json:"checkFailed"`
}

type StatusUpdateInput struct {
	Status string `json:"status"`
}

type DonationLogInput struct {
	DonatedAt    string  `json:"donatedAt"`
	HospitalName string  `json:"hospitalName"`
	RequestID    *string `json:"requestId"`
	Notes        *string `json:"notes"`
}

type DonationLogResponse struct {
	Donation    *DonationLog      `json:"donation"`
	Eligibility EligibilityResult `json:"eligibility"`
}

type CompatibilityResponse struct {
	BloodType  BloodType   `json:"bloodType"`
	BloodTypes []BloodType `json:"bloodTypes"`
}

type ArchiveResponse struct {
	Expired int64 `json:"expired"`
}

type ExportResponse struct {
	Key  string `json:"key"`
	Rows int    `json:"rows"`
}
