package settings

import (
	"context"
	"fmt"

	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
)

// Store reads and writes the persisted settings. store.SettingsRepository satisfies it.
type Store interface {
	Settings(ctx context.Context) (types.Settings, error)
	Save(ctx context.Context, settings types.Settings) error
}

type Provider struct {
	store  Store
	logger logrus.FieldLogger
}

func NewProvider(store Store, logger logrus.FieldLogger) *Provider {
	return &Provider{store: store, logger: logger}
}

// Current returns the stored settings, or the defaults when they cannot be read
// or hold values outside the allowed ranges. It never fails.
func (p *Provider) Current(ctx context.Context) types.Settings {
	settings, err := p.store.Settings(ctx)
	if err != nil {
		p.logger.WithError(fmt.Errorf("%w: %w", types.ErrConfigUnavailable, err)).
			Warn("falling back to default settings")
		return types.DefaultSettings()
	}

	if err := settings.Validate(); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"eligibility_days":     settings.EligibilityDays,
			"auto_archive_days":    settings.AutoArchiveDays,
			"duplicate_check_days": settings.DuplicateCheckDays,
		}).Warn("stored settings out of range, falling back to defaults")
		return types.DefaultSettings()
	}

	return settings
}

func (p *Provider) Update(ctx context.Context, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := p.store.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"eligibility_days":     settings.EligibilityDays,
		"auto_archive_days":    settings.AutoArchiveDays,
		"duplicate_check_days": settings.DuplicateCheckDays,
	}).Info("settings updated")

	return nil
}
