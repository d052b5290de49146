package store

import (
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var donorColumns = utils.StructTagValues(types.DonorProfile{})

type DonorRepository struct {
	pool *pgxpool.Pool
}

func NewDonorRepository(pool *pgxpool.Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

func (r *DonorRepository) Donor(ctx context.Context, donorID string) (*types.DonorProfile, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"id": donorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor query: %w", err)
	}

	var donor types.DonorProfile
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor: %w", err)
	}

	return &donor, nil
}

func (r *DonorRepository) Donors(ctx context.Context, bloodType types.BloodType, city types.City, limit uint64) ([]*types.DonorProfile, error) {
	q := psql().
		Select(donorColumns...).
		From(donorTableName).
		OrderBy("created_at DESC")

	if bloodType != "" {
		q = q.Where(sq.Eq{"blood_type": bloodType})
	}
	if city != "" {
		q = q.Where(sq.Eq{"city": city})
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donors query: %w", err)
	}

	donors := make([]*types.DonorProfile, 0)
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	return donors, nil
}

// Upsert creates the donor profile or updates the editable fields of an existing one.
// The last donation date is owned by donation logs and is left untouched on update.
func (r *DonorRepository) Upsert(ctx context.Context, donor *types.DonorProfile) error {
	now := time.Now()
	donor.CreatedAt = now
	donor.UpdatedAt = now

	query, args, err := upsertDonorQuery(donor).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert donor query: %w", err)
	}

	var saved types.DonorProfile
	err = pgxscan.Get(ctx, r.pool, &saved, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert donor: %w", err)
	}

	*donor = saved
	return nil
}

func upsertDonorQuery(donor *types.DonorProfile) sq.InsertBuilder {
	donorMap := utils.StructToMap(donor)
	updateMap := utils.StructToMap(donor, "id", "created_at", "last_donation_date")

	return psql().
		Insert(donorTableName).
		SetMap(donorMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(updateMap) + " RETURNING " + joinColumns(donorColumns))
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
