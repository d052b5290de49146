package store

import (
	"bloodlink/pkg/types"
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Stats runs the three admin counts concurrently. Each reads a different table,
// so they need no ordering between them.
func (r *StatsRepository) Stats(ctx context.Context) (*types.AdminStats, error) {
	stats := new(types.AdminStats)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.count(gctx, countQuery(bloodRequestTableName, sq.Eq{"status": types.RequestStatusOpen}), &stats.OpenRequests)
	})
	g.Go(func() error {
		return r.count(gctx, countQuery(donorTableName, nil), &stats.Donors)
	})
	g.Go(func() error {
		return r.count(gctx, countQuery(donationLogTableName, nil), &stats.Donations)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

func countQuery(table string, where sq.Sqlizer) sq.SelectBuilder {
	q := psql().Select("count(*)").From(table)
	if where != nil {
		q = q.Where(where)
	}
	return q
}

func (r *StatsRepository) count(ctx context.Context, q sq.SelectBuilder, dst *int64) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate count query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(dst); err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}

	return nil
}
