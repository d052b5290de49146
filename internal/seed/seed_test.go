package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bloodlink/internal/matching"
	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySettings struct {
	stored *types.Settings
	err    error
}

func (m *memorySettings) Settings(context.Context) (types.Settings, error) {
	if m.err != nil {
		return types.Settings{}, m.err
	}
	if m.stored == nil {
		return types.Settings{}, types.ErrConfigUnavailable
	}
	return *m.stored, nil
}

func (m *memorySettings) Save(_ context.Context, s types.Settings) error {
	m.stored = &s
	return nil
}

type memoryDonors struct {
	donors map[string]*types.DonorProfile
}

func (m *memoryDonors) Upsert(_ context.Context, d *types.DonorProfile) error {
	m.donors[d.ID] = d
	return nil
}

type memoryRequests struct {
	requests map[string]*types.BloodRequest
	creates  int
}

func (m *memoryRequests) Request(_ context.Context, id string) (*types.BloodRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	return r, nil
}

func (m *memoryRequests) Create(_ context.Context, r *types.BloodRequest) error {
	m.creates++
	m.requests[r.ID] = r
	return nil
}

func newTestSeeder(settings *memorySettings) (*Seeder, *memoryDonors, *memoryRequests) {
	logger, _ := test.NewNullLogger()
	donors := &memoryDonors{donors: map[string]*types.DonorProfile{}}
	requests := &memoryRequests{requests: map[string]*types.BloodRequest{}}
	return NewSeeder(settings, donors, requests, logger), donors, requests
}

func TestSampleDataIsValid(t *testing.T) {
	data := Sample()

	require.NoError(t, data.Settings.Validate())

	for _, d := range data.Donors {
		assert.True(t, d.BloodType.Valid(), d.ID)
		assert.True(t, d.City.Valid(), d.ID)
	}

	ids := map[string]bool{}
	for _, r := range data.Requests {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		assert.True(t, r.BloodType.Valid(), r.ID)
		assert.True(t, r.City.Valid(), r.ID)
		require.NotNil(t, r.Notes)
		assert.True(t, strings.HasPrefix(*r.Notes, seedNotePrefix), r.ID)
	}
}

func TestSampleRequestsAreNotDuplicatesOfEachOther(t *testing.T) {
	requests := Sample().Requests
	for i, a := range requests {
		for _, b := range requests[i+1:] {
			if a.PatientName == nil || b.PatientName == nil {
				continue
			}
			assert.False(t, a.HospitalName == b.HospitalName && matching.SimilarNames(*a.PatientName, *b.PatientName))
		}
	}
}

func TestSeedWritesEverythingOnce(t *testing.T) {
	settings := &memorySettings{}
	seeder, donors, requests := newTestSeeder(settings)
	data := Sample()

	require.NoError(t, seeder.Seed(context.Background(), data))
	require.NotNil(t, settings.stored)
	assert.Equal(t, types.DefaultSettings(), *settings.stored)
	assert.Len(t, donors.donors, len(data.Donors))
	assert.Equal(t, len(data.Requests), requests.creates)

	require.NoError(t, seeder.Seed(context.Background(), data))
	assert.Equal(t, len(data.Requests), requests.creates)
}

func TestSeedKeepsExistingSettings(t *testing.T) {
	custom := types.Settings{EligibilityDays: 90, AutoArchiveDays: 14, DuplicateCheckDays: 5}
	settings := &memorySettings{stored: &custom}
	seeder, _, _ := newTestSeeder(settings)

	require.NoError(t, seeder.Seed(context.Background(), Sample()))
	assert.Equal(t, custom, *settings.stored)
}

func TestSeedStopsOnSettingsReadFailure(t *testing.T) {
	settings := &memorySettings{err: errors.New("relation does not exist")}
	seeder, donors, _ := newTestSeeder(settings)

	err := seeder.Seed(context.Background(), Sample())
	require.Error(t, err)
	assert.Empty(t, donors.donors)
}

func TestResetDetachesDonationLogsBeforeDelete(t *testing.T) {
	require.Len(t, resetStatements, 2)
	assert.True(t, strings.HasPrefix(resetStatements[0], "UPDATE bloodlink.donation_logs SET request_id = NULL"))
	assert.Contains(t, resetStatements[0], "notes LIKE $1")
	assert.True(t, strings.HasPrefix(resetStatements[1], "DELETE FROM bloodlink.blood_requests"))
}
