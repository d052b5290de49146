package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"bloodlink/internal/utils"
	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus/hooks/test"
)

var testNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

const (
	donorToken = "donor-token"
	adminToken = "admin-token"
)

type fakeRequests struct {
	requests  []*types.BloodRequest
	listErr   error
	createErr error
	filters   []types.RequestFilter
}

func (f *fakeRequests) Request(_ context.Context, id string) (*types.BloodRequest, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, types.ErrRequestNotFound
}

func (f *fakeRequests) Requests(_ context.Context, filter types.RequestFilter) ([]*types.BloodRequest, error) {
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]*types.BloodRequest, 0)
	for _, r := range f.requests {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, r.Status) {
			continue
		}
		if len(filter.BloodTypes) > 0 && !slices.Contains(filter.BloodTypes, r.BloodType) {
			continue
		}
		if filter.Since != nil && r.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.FileNumber != "" && utils.PtrString(r.FileNumber) != filter.FileNumber {
			continue
		}
		if filter.HospitalName != "" && r.HospitalName != filter.HospitalName {
			continue
		}
		if filter.City != "" && r.City != filter.City {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequests) Create(_ context.Context, r *types.BloodRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	r.ID = "new-request"
	r.CreatedAt = testNow
	r.UpdatedAt = testNow
	f.requests = append(f.requests, r)
	return nil
}

func (f *fakeRequests) UpdateStatus(ctx context.Context, id string, next types.RequestStatus) (*types.BloodRequest, error) {
	r, err := f.Request(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransitionTo(next) {
		return nil, types.ErrInvalidStatusTransition
	}
	r.Status = next
	return r, nil
}

type fakeDonors struct {
	donors map[string]*types.DonorProfile
}

func (f *fakeDonors) Donor(_ context.Context, id string) (*types.DonorProfile, error) {
	d, ok := f.donors[id]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	return d, nil
}

func (f *fakeDonors) Donors(_ context.Context, bloodType types.BloodType, city types.City, _ uint64) ([]*types.DonorProfile, error) {
	out := make([]*types.DonorProfile, 0)
	for _, d := range f.donors {
		if bloodType != "" && d.BloodType != bloodType {
			continue
		}
		if city != "" && d.City != city {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDonors) Upsert(_ context.Context, d *types.DonorProfile) error {
	f.donors[d.ID] = d
	return nil
}

type fakeDonations struct {
	donors    *fakeDonors
	logs      []*types.DonationLog
	createErr error
}

func (f *fakeDonations) Create(_ context.Context, log *types.DonationLog) (*time.Time, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	donor, ok := f.donors.donors[log.DonorID]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	log.ID = "new-donation"
	f.logs = append(f.logs, log)
	if donor.LastDonationDate == nil || log.DonatedAt.After(*donor.LastDonationDate) {
		donor.LastDonationDate = utils.TimePtr(log.DonatedAt)
	}
	return donor.LastDonationDate, nil
}

func (f *fakeDonations) ByDonor(_ context.Context, donorID string) ([]*types.DonationLog, error) {
	out := make([]*types.DonationLog, 0)
	for _, l := range f.logs {
		if l.DonorID == donorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDonations) Logs(context.Context, *time.Time, uint64) ([]*types.DonationLog, error) {
	return f.logs, nil
}

type fakeStats struct{}

func (fakeStats) Stats(context.Context) (*types.AdminStats, error) {
	return &types.AdminStats{OpenRequests: 2, Donors: 3, Donations: 4}, nil
}

type fakeSettings struct {
	current types.Settings
}

func (f *fakeSettings) Current(context.Context) types.Settings {
	return f.current
}

func (f *fakeSettings) Update(_ context.Context, s types.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	f.current = s
	return nil
}

type fakeArchiver struct {
	calls int
}

func (f *fakeArchiver) Run(context.Context, time.Time) (int64, error) {
	f.calls++
	return 5, nil
}

type fakeExporter struct {
	rows int
}

func (f *fakeExporter) Export(_ context.Context, logs []*types.DonationLog, _ time.Time) (string, error) {
	f.rows = len(logs)
	return "exports/donations/test.csv", nil
}

type harness struct {
	service   *Service
	handler   http.Handler
	requests  *fakeRequests
	donors    *fakeDonors
	donations *fakeDonations
	settings  *fakeSettings
	archiver  *fakeArchiver
	exporter  *fakeExporter
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger, _ := test.NewNullLogger()
	donors := &fakeDonors{donors: map[string]*types.DonorProfile{}}

	h := &harness{
		requests:  &fakeRequests{},
		donors:    donors,
		donations: &fakeDonations{donors: donors},
		settings:  &fakeSettings{current: types.DefaultSettings()},
		archiver:  &fakeArchiver{},
		exporter:  &fakeExporter{},
	}

	h.service = &Service{
		logger:    logger,
		config:    &types.Config{AdminGroup: "admins"},
		now:       func() time.Time { return testNow },
		requests:  h.requests,
		donors:    h.donors,
		donations: h.donations,
		stats:     fakeStats{},
		settings:  h.settings,
		archiver:  h.archiver,
		exporter:  h.exporter,
		verify: func(_ context.Context, token string) (*identity, error) {
			switch token {
			case donorToken:
				return &identity{UserID: "donor-1", Email: "donor@example.com"}, nil
			case adminToken:
				return &identity{UserID: "admin-1", Groups: []string{"admins"}}, nil
			}
			return nil, errors.New("token rejected")
		},
	}

	h.handler = h.service.routes()

	return h
}

func (h *harness) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func openRequest(id, requester, patient, hospital, fileNumber string, bloodType types.BloodType, age time.Duration) *types.BloodRequest {
	r := &types.BloodRequest{
		ID:           id,
		RequesterID:  requester,
		BloodType:    bloodType,
		City:         types.CityCapital,
		HospitalName: hospital,
		UnitsNeeded:  1,
		UrgencyLevel: types.UrgencyNormal,
		Status:       types.RequestStatusOpen,
		CreatedAt:    testNow.Add(-age),
	}
	if patient != "" {
		r.PatientName = utils.StringPtr(patient)
	}
	if fileNumber != "" {
		r.FileNumber = utils.StringPtr(fileNumber)
	}
	return r
}
