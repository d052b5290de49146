package jobs

import (
	"context"
	"fmt"
	"time"

	"bloodlink/pkg/types"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Expirer moves stale open requests to expired. store.BloodRequestRepository satisfies it.
type Expirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// SettingsSource supplies the current auto-archive window.
type SettingsSource interface {
	Current(ctx context.Context) types.Settings
}

type Archiver struct {
	expirer  Expirer
	settings SettingsSource
	logger   logrus.FieldLogger
}

func NewArchiver(expirer Expirer, settings SettingsSource, logger logrus.FieldLogger) *Archiver {
	return &Archiver{expirer: expirer, settings: settings, logger: logger}
}

// Run expires open requests older than the configured auto-archive window.
func (a *Archiver) Run(ctx context.Context, now time.Time) (int64, error) {
	days := a.settings.Current(ctx).AutoArchiveDays
	if days <= 0 {
		days = types.DefaultAutoArchiveDays
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	expired, err := a.expirer.ExpireStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive requests older than %d days: %w", days, err)
	}

	a.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.RFC3339),
		"expired": expired,
	}).Info("archived stale blood requests")

	return expired, nil
}

// Schedule runs the archiver on the given cron spec until the returned cron is stopped.
func (a *Archiver) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := a.Run(ctx, time.Now()); err != nil {
			a.logger.WithError(err).Error("scheduled archive failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid archive schedule %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
