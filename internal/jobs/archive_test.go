package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	cutoff time.Time
	count  int64
	err    error
}

func (f *fakeExpirer) ExpireStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.count, f.err
}

type staticSettings types.Settings

func (s staticSettings) Current(context.Context) types.Settings {
	return types.Settings(s)
}

var jobNow = time.Date(2025, time.March, 15, 0, 15, 0, 0, time.UTC)

func TestArchiverUsesConfiguredWindow(t *testing.T) {
	logger, hook := test.NewNullLogger()
	expirer := &fakeExpirer{count: 4}
	settings := staticSettings{EligibilityDays: 60, AutoArchiveDays: 10, DuplicateCheckDays: 3}

	expired, err := NewArchiver(expirer, settings, logger).Run(context.Background(), jobNow)
	require.NoError(t, err)
	assert.Equal(t, int64(4), expired)
	assert.Equal(t, jobNow.Add(-10*24*time.Hour), expirer.cutoff)
	assert.Equal(t, int64(4), hook.LastEntry().Data["expired"])
}

func TestArchiverDefaultsWindow(t *testing.T) {
	logger, _ := test.NewNullLogger()
	expirer := &fakeExpirer{}

	_, err := NewArchiver(expirer, staticSettings{}, logger).Run(context.Background(), jobNow)
	require.NoError(t, err)
	assert.Equal(t, jobNow.Add(-types.DefaultAutoArchiveDays*24*time.Hour), expirer.cutoff)
}

func TestArchiverSurfacesStoreError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	storeErr := errors.New("deadlock detected")

	_, err := NewArchiver(&fakeExpirer{err: storeErr}, staticSettings(types.DefaultSettings()), logger).Run(context.Background(), jobNow)
	assert.ErrorIs(t, err, storeErr)
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := NewArchiver(&fakeExpirer{}, staticSettings(types.DefaultSettings()), logger)

	_, err := a.Schedule("not a cron spec")
	assert.Error(t, err)

	c, err := a.Schedule("@daily")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
