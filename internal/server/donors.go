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

func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	donor, err := s.donors.Donor(r.Context(), id.UserID)
	if err != nil {
		s.writeDomainError(w, err, "failed to fetch donor profile")
		return
	}

	writeJSON(w, http.StatusOK, donor)
}

func (s *Service) handlePutMe(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var input types.DonorProfileInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile payload")
		return
	}

	donor, err := donorFromInput(id.UserID, input)
	if err != nil {
		s.writeDomainError(w, err, "invalid profile")
		return
	}

	if err := s.donors.Upsert(r.Context(), donor); err != nil {
		s.logger.WithError(err).WithField("user_id", id.UserID).Error("failed to save donor profile")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, donor)
}

func donorFromInput(userID string, input types.DonorProfileInput) (*types.DonorProfile, error) {
	bloodType, err := types.ParseBloodType(input.BloodType)
	if err != nil {
		return nil, err
	}

	city, err := types.ParseCity(input.City)
	if err != nil {
		return nil, err
	}

	return &types.DonorProfile{
		ID:        userID,
		FullName:  strings.TrimSpace(input.FullName),
		Phone:     utils.TrimmedPtr(input.Phone),
		BloodType: bloodType,
		City:      city,
	}, nil
}

func (s *Service) handleGetMyEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := identityFromContext(ctx)

	donor, err := s.donors.Donor(ctx, id.UserID)
	if err != nil {
		s.writeDomainError(w, err, "failed to fetch donor profile")
		return
	}

	settings := s.settings.Current(ctx)
	writeJSON(w, http.StatusOK, matching.Eligibility(donor.LastDonationDate, settings.EligibilityDays, s.now()))
}

// handleGetMyCompatibleRequests lists the open requests the caller's blood type can answer.
func (s *Service) handleGetMyCompatibleRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := identityFromContext(ctx)

	donor, err := s.donors.Donor(ctx, id.UserID)
	if err != nil {
		s.writeDomainError(w, err, "failed to fetch donor profile")
		return
	}

	recipients, err := matching.Recipients(donor.BloodType)
	if err != nil {
		s.writeDomainError(w, err, "donor has an invalid blood type")
		return
	}

	filter := types.RequestFilter{
		Statuses:   []types.RequestStatus{types.RequestStatusOpen},
		BloodTypes: recipients,
	}
	if city := r.URL.Query().Get("city"); city != "" {
		filter.City, err = types.ParseCity(city)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	requests, err := s.requests.Requests(ctx, filter)
	if err != nil {
		s.writeDomainError(w, fmt.Errorf("%w: %w", types.ErrStoreQueryFailed, err), "failed to list compatible requests")
		return
	}

	compatible, err := matching.FilterCompatible(donor.BloodType, requests)
	if err != nil {
		s.writeDomainError(w, err, "failed to filter compatible requests")
		return
	}

	writeJSON(w, http.StatusOK, compatible)
}

func (s *Service) handleGetMyDonations(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	logs, err := s.donations.ByDonor(r.Context(), id.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", id.UserID).Error("failed to fetch donation history")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (s *Service) handlePostMyDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := identityFromContext(ctx)

	var input types.DonationLogInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid donation payload")
		return
	}

	now := s.now()
	log, err := donationFromInput(id.UserID, input, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if log.RequestID != nil {
		if _, err := s.requests.Request(ctx, *log.RequestID); err != nil {
			if errors.Is(err, types.ErrRequestNotFound) {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("blood request %q does not exist", *log.RequestID))
				return
			}
			s.writeDomainError(w, err, "failed to fetch blood request")
			return
		}
	}

	last, err := s.donations.Create(ctx, log)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrDonorNotFound):
			writeError(w, http.StatusConflict, "create a donor profile before logging donations")
			return
		case errors.Is(err, types.ErrRequestNotFound):
			writeError(w, http.StatusBadRequest, "referenced blood request does not exist")
			return
		}
		s.logger.WithError(err).WithField("user_id", id.UserID).Error("failed to log donation")
		s.internalServerError(w)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     id.UserID,
		"donation_id": log.ID,
	}).Info("donation logged")

	settings := s.settings.Current(ctx)
	writeJSON(w, http.StatusCreated, types.DonationLogResponse{
		Donation:    log,
		Eligibility: matching.Eligibility(last, settings.EligibilityDays, now),
	})
}

func donationFromInput(donorID string, input types.DonationLogInput, now time.Time) (*types.DonationLog, error) {
	hospital := strings.TrimSpace(input.HospitalName)
	if hospital == "" {
		return nil, errors.New("hospital name is required")
	}

	donatedAt := now
	if raw := strings.TrimSpace(input.DonatedAt); raw != "" {
		parsed, err := parseDonationDate(raw)
		if err != nil {
			return nil, err
		}
		donatedAt = parsed
	}

	if donatedAt.After(now) {
		return nil, errors.New("donation date cannot be in the future")
	}

	return &types.DonationLog{
		DonorID:      donorID,
		DonatedAt:    donatedAt,
		HospitalName: hospital,
		RequestID:    utils.TrimmedPtr(input.RequestID),
		Notes:        utils.TrimmedPtr(input.Notes),
	}, nil
}

func parseDonationDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("donation date %q must be RFC 3339 or YYYY-MM-DD", raw)
}
