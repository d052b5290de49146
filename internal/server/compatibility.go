package server

import (
	"net/http"
	"strings"

	"bloodlink/internal/matching"
	"bloodlink/pkg/types"
)

func (s *Service) handleGetRecipients(w http.ResponseWriter, r *http.Request) {
	s.writeCompatibility(w, r, matching.Recipients)
}

func (s *Service) handleGetDonorTypes(w http.ResponseWriter, r *http.Request) {
	s.writeCompatibility(w, r, matching.Donors)
}

func (s *Service) writeCompatibility(w http.ResponseWriter, r *http.Request, lookup func(types.BloodType) ([]types.BloodType, error)) {
	bloodType, err := types.ParseBloodType(bloodTypeParam(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bloodTypes, err := lookup(bloodType)
	if err != nil {
		s.writeDomainError(w, err, "failed to resolve compatibility")
		return
	}

	writeJSON(w, http.StatusOK, types.CompatibilityResponse{
		BloodType:  bloodType,
		BloodTypes: bloodTypes,
	})
}

// bloodTypeParam reads the :type segment. The router query-unescapes path values,
// so a literal "+" arrives as a space while "%2B" arrives as "+".
func bloodTypeParam(r *http.Request) string {
	return strings.ReplaceAll(r.PathValue("type"), " ", "+")
}
