package store

import (
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingsRowID = 1

var settingsColumns = utils.StructTagValues(types.Settings{})

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Settings reads the single settings row. A missing row is reported as
// types.ErrConfigUnavailable so callers fall back to defaults.
func (r *SettingsRepository) Settings(ctx context.Context) (types.Settings, error) {
	query, args, err := psql().
		Select(settingsColumns...).
		From(settingsTableName).
		Where(sq.Eq{"id": settingsRowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return types.Settings{}, fmt.Errorf("failed to generate settings query: %w", err)
	}

	var settings types.Settings
	err = pgxscan.Get(ctx, r.pool, &settings, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return types.Settings{}, fmt.Errorf("%w: settings row missing", types.ErrConfigUnavailable)
		}
		return types.Settings{}, fmt.Errorf("failed to fetch settings: %w", err)
	}

	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings types.Settings) error {
	query, args, err := saveSettingsQuery(settings, time.Now()).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate save settings query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to save settings")
}

func saveSettingsQuery(settings types.Settings, now time.Time) sq.InsertBuilder {
	values := utils.StructToMap(settings)
	values["updated_at"] = now

	update := utils.StructToMap(settings)
	update["updated_at"] = now

	values["id"] = settingsRowID

	return psql().
		Insert(settingsTableName).
		SetMap(values).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(update))
}
