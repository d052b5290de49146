package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloodlink/pkg/types"
)

// RequestFinder lists stored blood requests. store.BloodRequestRepository satisfies it.
type RequestFinder interface {
	Requests(ctx context.Context, filter types.RequestFilter) ([]*types.BloodRequest, error)
}

// DuplicateDetector looks for an open request that a new request appears to repeat.
type DuplicateDetector struct {
	finder   RequestFinder
	lookback time.Duration
	matcher  NameMatcher
}

type DetectorOption func(*DuplicateDetector)

// WithNameMatcher swaps the patient name comparison.
func WithNameMatcher(m NameMatcher) DetectorOption {
	return func(d *DuplicateDetector) {
		if m != nil {
			d.matcher = m
		}
	}
}

// NewDuplicateDetector builds a detector that looks back settings.DuplicateCheckDays days.
func NewDuplicateDetector(finder RequestFinder, settings types.Settings, opts ...DetectorOption) *DuplicateDetector {
	days := settings.DuplicateCheckDays
	if days <= 0 {
		days = types.DefaultDuplicateCheckDays
	}

	d := &DuplicateDetector{
		finder:   finder,
		lookback: time.Duration(days) * day,
		matcher:  SimilarNames,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Check runs the file number check first and the patient name check second,
// stopping at the first match. A failed store query is returned as an error
// wrapping types.ErrStoreQueryFailed and is never reported as "no duplicate".
func (d *DuplicateDetector) Check(ctx context.Context, candidate types.DuplicateCandidate, now time.Time) (*types.DuplicateResult, error) {
	since := now.Add(-d.lookback)

	fileNumber := strings.TrimSpace(candidate.FileNumber)
	if fileNumber != "" {
		existing, err := d.byFileNumber(ctx, fileNumber, since)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return duplicateOf(existing), nil
		}
	}

	hospital := strings.TrimSpace(candidate.HospitalName)
	if hospital == "" || NormalizeName(candidate.PatientName) == "" {
		return &types.DuplicateResult{}, nil
	}

	existing, err := d.byPatientAtHospital(ctx, candidate.PatientName, hospital, since)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return duplicateOf(existing), nil
	}

	return &types.DuplicateResult{}, nil
}

func (d *DuplicateDetector) byFileNumber(ctx context.Context, fileNumber string, since time.Time) (*types.BloodRequest, error) {
	requests, err := d.finder.Requests(ctx, types.RequestFilter{
		Statuses:   []types.RequestStatus{types.RequestStatusOpen},
		Since:      &since,
		FileNumber: fileNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: file number lookup: %w", types.ErrStoreQueryFailed, err)
	}

	for _, req := range requests {
		if !inWindow(req, since) || req.FileNumber == nil {
			continue
		}
		if strings.TrimSpace(*req.FileNumber) == fileNumber {
			return req, nil
		}
	}

	return nil, nil
}

func (d *DuplicateDetector) byPatientAtHospital(ctx context.Context, patientName, hospital string, since time.Time) (*types.BloodRequest, error) {
	requests, err := d.finder.Requests(ctx, types.RequestFilter{
		Statuses:     []types.RequestStatus{types.RequestStatusOpen},
		Since:        &since,
		HospitalName: hospital,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: hospital lookup: %w", types.ErrStoreQueryFailed, err)
	}

	for _, req := range requests {
		if !inWindow(req, since) || req.HospitalName != hospital || req.PatientName == nil {
			continue
		}
		if d.matcher(patientName, *req.PatientName) {
			return req, nil
		}
	}

	return nil, nil
}

func inWindow(req *types.BloodRequest, since time.Time) bool {
	return req != nil && req.IsOpen() && !req.CreatedAt.Before(since)
}

func duplicateOf(req *types.BloodRequest) *types.DuplicateResult {
	return &types.DuplicateResult{
		IsDuplicate:     true,
		ExistingRequest: req.Summary(),
	}
}
