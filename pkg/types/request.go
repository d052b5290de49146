package types

import (
	"fmt"
	"strings"
	"time"
)

type UrgencyLevel string

const (
	UrgencyNormal UrgencyLevel = "normal"
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyUrgent UrgencyLevel = "urgent"
)

func ParseUrgency(s string) (UrgencyLevel, error) {
	u := UrgencyLevel(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case "":
		return UrgencyNormal, nil
	case UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUrgency, s)
}

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusExpired   RequestStatus = "expired"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case RequestStatusOpen, RequestStatusFulfilled, RequestStatusCancelled, RequestStatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransitionTo reports whether a request may move from s to next.
// Only open requests change status, and nothing moves back to open.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s != RequestStatusOpen {
		return false
	}
	switch next {
	case RequestStatusFulfilled, RequestStatusCancelled, RequestStatusExpired:
		return true
	}
	return false
}

type BloodRequest struct {
	ID           string        `db:"id" json:"id"`
	RequesterID  string        `db:"requester_id" json:"requesterId"`
	BloodType    BloodType     `db:"blood_type" json:"bloodType"`
	City         City          `db:"city" json:"city"`
	HospitalName string        `db:"hospital_name" json:"hospitalName"`
	PatientName  *string       `db:"patient_name" json:"patientName,omitempty"`
	FileNumber   *string       `db:"file_number" json:"fileNumber,omitempty"`
	UnitsNeeded  int           `db:"units_needed" json:"unitsNeeded"`
	ContactPhone *string       `db:"contact_phone" json:"contactPhone,omitempty"`
	Notes        *string       `db:"notes" json:"notes,omitempty"`
	UrgencyLevel UrgencyLevel  `db:"urgency_level" json:"urgencyLevel"`
	Status       RequestStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

func (r *BloodRequest) IsOpen() bool {
	return r.Status == RequestStatusOpen
}

// Summary returns the fields shown to a requester when their request looks like a duplicate.
func (r *BloodRequest) Summary() *DuplicateSummary {
	var patientName string
	if r.PatientName != nil {
		patientName = *r.PatientName
	}

	return &DuplicateSummary{
		ID:           r.ID,
		PatientName:  patientName,
		HospitalName: r.HospitalName,
		BloodType:    r.BloodType,
		CreatedAt:    r.CreatedAt,
	}
}

type DuplicateSummary struct {
	ID           string    `json:"id"`
	PatientName  string    `json:"patientName"`
	HospitalName string    `json:"hospitalName"`
	BloodType    BloodType `json:"bloodType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DuplicateCandidate holds the identifying fields of a request that has not been published yet.
type DuplicateCandidate struct {
	PatientName  string `json:"patientName"`
	HospitalName string `json:"hospitalName"`
	FileNumber   string `json:"fileNumber"`
}

type DuplicateResult struct {
	IsDuplicate     bool              `json:"isDuplicate"`
	ExistingRequest *DuplicateSummary `json:"existingRequest,omitempty"`
}

// RequestFilter narrows a request listing. Zero values mean "no filter".
type RequestFilter struct {
	Statuses     []RequestStatus
	Since        *time.Time
	HospitalName string
	FileNumber   string
	BloodTypes   []BloodType
	City         City
	Urgency      UrgencyLevel
	RequesterID  string
	Limit        uint64
}

// RequestListQuery is decoded from the query string of request listings.
type RequestListQuery struct {
	BloodType string `form:"blood_type"`
	City      string `form:"city"`
	Urgency   string `form:"urgency"`
	Status    string `form:"status"`
	SinceDays int    `form:"since_days"`
	Limit     uint64 `form:"limit"`
}
