package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bloodlink/pkg/types"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidBloodType),
		errors.Is(err, types.ErrInvalidCity),
		errors.Is(err, types.ErrInvalidUrgency),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrRequestNotFound),
		errors.Is(err, types.ErrDonorNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, types.ErrStoreQueryFailed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeDomainError answers with the mapped status. Client errors carry the error
// text, server errors are logged and answered generically.
func (s *Service) writeDomainError(w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error(msg)
		writeError(w, status, msg)
		return
	}

	writeError(w, status, err.Error())
}
