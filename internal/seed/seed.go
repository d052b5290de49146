package seed

import (
	"context"
	"errors"
	"fmt"

	"bloodlink/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type SettingsStore interface {
	Settings(ctx context.Context) (types.Settings, error)
	Save(ctx context.Context, settings types.Settings) error
}

type DonorStore interface {
	Upsert(ctx context.Context, donor *types.DonorProfile) error
}

type RequestStore interface {
	Request(ctx context.Context, requestID string) (*types.BloodRequest, error)
	Create(ctx context.Context, request *types.BloodRequest) error
}

// Seeder writes Data through the repositories. Existing settings and requests are
// left alone, donors are upserted so profile edits in this file win.
type Seeder struct {
	settings SettingsStore
	donors   DonorStore
	requests RequestStore
	logger   logrus.FieldLogger
}

func NewSeeder(settings SettingsStore, donors DonorStore, requests RequestStore, logger logrus.FieldLogger) *Seeder {
	return &Seeder{settings: settings, donors: donors, requests: requests, logger: logger}
}

func (s *Seeder) Seed(ctx context.Context, data Data) error {
	if err := s.seedSettings(ctx, data.Settings); err != nil {
		return err
	}

	for _, donor := range data.Donors {
		if err := s.donors.Upsert(ctx, donor); err != nil {
			return fmt.Errorf("failed to upsert seed donor %s: %w", donor.ID, err)
		}
	}
	s.logger.WithField("count", len(data.Donors)).Info("donors seeded")

	created := 0
	for _, request := range data.Requests {
		_, err := s.requests.Request(ctx, request.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrRequestNotFound) {
			return fmt.Errorf("failed to fetch seed request %s: %w", request.ID, err)
		}

		if err := s.requests.Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create seed request %s: %w", request.ID, err)
		}
		created++
	}
	s.logger.WithFields(logrus.Fields{
		"created": created,
		"skipped": len(data.Requests) - created,
	}).Info("blood requests seeded")

	return nil
}

func (s *Seeder) seedSettings(ctx context.Context, settings types.Settings) error {
	_, err := s.settings.Settings(ctx)
	if err == nil {
		s.logger.Info("settings already present, leaving them unchanged")
		return nil
	}
	if !errors.Is(err, types.ErrConfigUnavailable) {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save seed settings: %w", err)
	}
	s.logger.Info("default settings seeded")

	return nil
}

// resetStatements detaches donation logs from seeded requests and then deletes
// those requests. Both take the seed note pattern as $1.
var resetStatements = []string{
	`UPDATE bloodlink.donation_logs SET request_id = NULL
	WHERE request_id IN (SELECT id FROM bloodlink.blood_requests WHERE notes LIKE $1)`,
	`DELETE FROM bloodlink.blood_requests WHERE notes LIKE $1`,
}

// Reset deletes the requests written by earlier seed runs. Donation logs that
// point at them are kept with their request cleared.
func Reset(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var deleted int64
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, stmt := range resetStatements {
			result, err := tx.Exec(ctx, stmt, seedNotePrefix+"%")
			if err != nil {
				return err
			}
			deleted = result.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reset seeded blood requests: %w", err)
	}

	return deleted, nil
}
