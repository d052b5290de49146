package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bloodlink/internal/matching"
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
	maxUnitsNeeded   = 20
)

func (s *Service) handleListRequests(w http.ResponseWriter, r *http.Request) {
	s.listRequests(w, r, types.RequestStatusOpen)
}

func (s *Service) handleAdminListRequests(w http.ResponseWriter, r *http.Request) {
	s.listRequests(w, r, "")
}

// listRequests answers a filtered listing. defaultStatus applies when the
// query does not name a status.
func (s *Service) listRequests(w http.ResponseWriter, r *http.Request, defaultStatus types.RequestStatus) {
	var q types.RequestListQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	filter, err := filterFromQuery(q, defaultStatus, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := s.requests.Requests(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, fmt.Errorf("%w: %w", types.ErrStoreQueryFailed, err), "failed to list blood requests")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func filterFromQuery(q types.RequestListQuery, defaultStatus types.RequestStatus, now time.Time) (types.RequestFilter, error) {
	filter := types.RequestFilter{Limit: defaultListLimit}

	if q.BloodType != "" {
		bloodType, err := types.ParseBloodType(q.BloodType)
		if err != nil {
			return filter, err
		}
		filter.BloodTypes = []types.BloodType{bloodType}
	}

	if q.City != "" {
		city, err := types.ParseCity(q.City)
		if err != nil {
			return filter, err
		}
		filter.City = city
	}

	if q.Urgency != "" {
		urgency, err := types.ParseUrgency(q.Urgency)
		if err != nil {
			return filter, err
		}
		filter.Urgency = urgency
	}

	switch {
	case q.Status != "":
		status, err := types.ParseRequestStatus(q.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []types.RequestStatus{status}
	case defaultStatus != "":
		filter.Statuses = []types.RequestStatus{defaultStatus}
	}

	if q.SinceDays < 0 {
		return filter, errors.New("since_days must not be negative")
	}
	if q.SinceDays > 0 {
		since := now.Add(-time.Duration(q.SinceDays) * 24 * time.Hour)
		filter.Since = &since
	}

	if q.Limit > 0 {
		filter.Limit = min(q.Limit, maxListLimit)
	}

	return filter, nil
}

func (s *Service) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := s.requests.Request(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err, "failed to fetch blood request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// handleDuplicateCheck is advisory. A failed lookup is reported as checkFailed
// rather than as "no duplicate".
func (s *Service) handleDuplicateCheck(w http.ResponseWriter, r *http.Request) {
	var candidate types.DuplicateCandidate
	if err := decodeJSON(r, &candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid duplicate check payload")
		return
	}

	result, err := s.checkDuplicate(r, candidate)
	if err != nil {
		writeJSON(w, http.StatusOK, types.DuplicateCheckResponse{CheckFailed: true})
		return
	}

	writeJSON(w, http.StatusOK, types.DuplicateCheckResponse{DuplicateResult: *result})
}

func (s *Service) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := identityFromContext(ctx)

	var input types.BloodRequestInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid blood request payload")
		return
	}

	request, err := requestFromInput(id.UserID, input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := types.CreateRequestResponse{}

	duplicate, err := s.checkDuplicate(r, types.DuplicateCandidate{
		PatientName:  utils.PtrString(request.PatientName),
		HospitalName: request.HospitalName,
		FileNumber:   utils.PtrString(request.FileNumber),
	})
	switch {
	case err != nil:
		// A store hiccup must not stop new requests from being published.
		resp.CheckFailed = true
	case duplicate.IsDuplicate && !input.Force:
		writeJSON(w, http.StatusConflict, types.CreateRequestResponse{Duplicate: duplicate})
		return
	case duplicate.IsDuplicate:
		resp.Duplicate = duplicate
	}

	if err := s.requests.Create(ctx, request); err != nil {
		s.logger.WithError(err).WithField("user_id", id.UserID).Error("failed to create blood request")
		s.internalServerError(w)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":   request.ID,
		"blood_type":   request.BloodType,
		"urgency":      request.UrgencyLevel,
		"forced":       resp.Duplicate != nil,
		"check_failed": resp.CheckFailed,
	}).Info("blood request created")

	resp.Request = request
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) checkDuplicate(r *http.Request, candidate types.DuplicateCandidate) (*types.DuplicateResult, error) {
	ctx := r.Context()

	detector := matching.NewDuplicateDetector(s.requests, s.settings.Current(ctx))
	result, err := detector.Check(ctx, candidate, s.now())
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"hospital_name": candidate.HospitalName,
			"has_file":      strings.TrimSpace(candidate.FileNumber) != "",
		}).Warn("duplicate check unavailable")
		return nil, err
	}

	return result, nil
}

func requestFromInput(requesterID string, input types.BloodRequestInput) (*types.BloodRequest, error) {
	bloodType, err := types.ParseBloodType(input.BloodType)
	if err != nil {
		return nil, err
	}

	city, err := types.ParseCity(input.City)
	if err != nil {
		return nil, err
	}

	urgency, err := types.ParseUrgency(input.UrgencyLevel)
	if err != nil {
		return nil, err
	}

	hospital := strings.TrimSpace(input.HospitalName)
	if hospital == "" {
		return nil, errors.New("hospital name is required")
	}

	units := input.UnitsNeeded
	if units == 0 {
		units = 1
	}
	if units < 0 || units > maxUnitsNeeded {
		return nil, fmt.Errorf("units needed must be between 1 and %d", maxUnitsNeeded)
	}

	return &types.BloodRequest{
		RequesterID:  requesterID,
		BloodType:    bloodType,
		City:         city,
		HospitalName: hospital,
		PatientName:  utils.TrimmedPtr(input.PatientName),
		FileNumber:   utils.TrimmedPtr(input.FileNumber),
		UnitsNeeded:  units,
		ContactPhone: utils.TrimmedPtr(input.ContactPhone),
		Notes:        utils.TrimmedPtr(input.Notes),
		UrgencyLevel: urgency,
		Status:       types.RequestStatusOpen,
	}, nil
}

// handleUpdateRequestStatus lets the requester or an admin close an open request.
func (s *Service) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := identityFromContext(ctx)
	requestID := r.PathValue("id")

	var input types.StatusUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status payload")
		return
	}

	next, err := types.ParseRequestStatus(input.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.requests.Request(ctx, requestID)
	if err != nil {
		s.writeDomainError(w, err, "failed to fetch blood request")
		return
	}

	admin := s.isAdmin(id)
	if existing.RequesterID != id.UserID && !admin {
		writeError(w, http.StatusForbidden, "only the requester or an admin can change this request")
		return
	}

	// Expiry belongs to admins and the archive job.
	if next == types.RequestStatusExpired && !admin {
		writeError(w, http.StatusForbidden, "only an admin can expire a request")
		return
	}

	if !existing.Status.CanTransitionTo(next) {
		writeError(w, http.StatusConflict, fmt.Sprintf("cannot move a %s request to %s", existing.Status, next))
		return
	}

	updated, err := s.requests.UpdateStatus(ctx, requestID, next)
	if err != nil {
		s.writeDomainError(w, err, "failed to update blood request status")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id.UserID,
		"status":     next,
	}).Info("blood request status changed")

	writeJSON(w, http.StatusOK, updated)
}
