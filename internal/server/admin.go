package server

import (
	"fmt"
	"net/http"
	"time"

	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
)

type donationListQuery struct {
	SinceDays int    `form:"since_days"`
	Limit     uint64 `form:"limit"`
}

type donorListQuery struct {
	BloodType string `form:"blood_type"`
	City      string `form:"city"`
	Limit     uint64 `form:"limit"`
}

func (s *Service) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Current(r.Context()))
}

func (s *Service) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}

	if err := s.settings.Update(r.Context(), settings); err != nil {
		s.writeDomainError(w, err, "failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (s *Service) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load admin stats")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleAdminListDonors(w http.ResponseWriter, r *http.Request) {
	var q donorListQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	var (
		bloodType types.BloodType
		city      types.City
		err       error
	)
	if q.BloodType != "" {
		if bloodType, err = types.ParseBloodType(q.BloodType); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if q.City != "" {
		if city, err = types.ParseCity(q.City); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	donors, err := s.donors.Donors(r.Context(), bloodType, city, listLimit(q.Limit))
	if err != nil {
		s.logger.WithError(err).Error("failed to list donors")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, donors)
}

func (s *Service) handleAdminListDonations(w http.ResponseWriter, r *http.Request) {
	var q donationListQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil || q.SinceDays < 0 {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	logs, err := s.donations.Logs(r.Context(), sinceDays(q.SinceDays, s.now()), listLimit(q.Limit))
	if err != nil {
		s.logger.WithError(err).Error("failed to list donation logs")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func (s *Service) handleArchiveRequests(w http.ResponseWriter, r *http.Request) {
	expired, err := s.archiver.Run(r.Context(), s.now())
	if err != nil {
		s.logger.WithError(err).Error("failed to archive stale requests")
		s.internalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, types.ArchiveResponse{Expired: expired})
}

func (s *Service) handleExportDonations(w http.ResponseWriter, r *http.Request) {
	var q donationListQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil || q.SinceDays < 0 {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	ctx := r.Context()
	now := s.now()

	logs, err := s.donations.Logs(ctx, sinceDays(q.SinceDays, now), 0)
	if err != nil {
		s.logger.WithError(err).Error("failed to load donation logs for export")
		s.internalServerError(w)
		return
	}

	key, err := s.exporter.Export(ctx, logs, now)
	if err != nil {
		s.logger.WithError(err).Error("failed to export donation logs")
		writeError(w, http.StatusBadGateway, fmt.Sprintf("export failed: %v", err))
		return
	}

	s.logger.WithFields(logrus.Fields{
		"key":  key,
		"rows": len(logs),
	}).Info("donation logs exported")

	writeJSON(w, http.StatusCreated, types.ExportResponse{Key: key, Rows: len(logs)})
}

func sinceDays(days int, now time.Time) *time.Time {
	if days <= 0 {
		return nil
	}
	since := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &since
}

func listLimit(limit uint64) uint64 {
	if limit == 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
