package store

import (
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var donationLogColumns = utils.StructTagValues(types.DonationLog{})

type DonationLogRepository struct {
	pool *pgxpool.Pool
}

func NewDonationLogRepository(pool *pgxpool.Pool) *DonationLogRepository {
	return &DonationLogRepository{pool: pool}
}

// Create inserts the log and moves the donor's last donation date forward in the
// same transaction. Back-dated logs never move it backwards. It returns the donor's
// last donation date after the insert.
func (r *DonationLogRepository) Create(ctx context.Context, log *types.DonationLog) (*time.Time, error) {
	log.ID = utils.NanoID()
	log.CreatedAt = time.Now()

	insert, insertArgs, err := psql().
		Insert(donationLogTableName).
		SetMap(utils.StructToMap(log)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert donation log query: %w", err)
	}

	update, updateArgs, err := advanceLastDonationQuery(log.DonorID, log.DonatedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate last donation update query: %w", err)
	}

	var last *time.Time
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, update, updateArgs...).Scan(&last); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return types.ErrDonorNotFound
			}
			return fmt.Errorf("failed to update last donation date: %w", err)
		}

		if _, err := tx.Exec(ctx, insert, insertArgs...); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", types.ErrRequestNotFound, utils.PtrString(log.RequestID))
			}
			return fmt.Errorf("failed to insert donation log: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return last, nil
}

func advanceLastDonationQuery(donorID string, donatedAt time.Time) sq.UpdateBuilder {
	return psql().
		Update(donorTableName).
		Set("last_donation_date", sq.Expr("GREATEST(COALESCE(last_donation_date, ?), ?)", donatedAt, donatedAt)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": donorID}).
		Suffix("RETURNING last_donation_date")
}

func (r *DonationLogRepository) ByDonor(ctx context.Context, donorID string) ([]*types.DonationLog, error) {
	return r.logs(ctx, psql().
		Select(donationLogColumns...).
		From(donationLogTableName).
		Where(sq.Eq{"donor_id": donorID}).
		OrderBy("donated_at DESC"))
}

// Logs lists donation logs newest first, optionally only those donated on or after since.
func (r *DonationLogRepository) Logs(ctx context.Context, since *time.Time, limit uint64) ([]*types.DonationLog, error) {
	q := psql().
		Select(donationLogColumns...).
		From(donationLogTableName).
		OrderBy("donated_at DESC")

	if since != nil {
		q = q.Where(sq.GtOrEq{"donated_at": *since})
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	return r.logs(ctx, q)
}

func (r *DonationLogRepository) logs(ctx context.Context, q sq.SelectBuilder) ([]*types.DonationLog, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation logs query: %w", err)
	}

	logs := make([]*types.DonationLog, 0)
	err = pgxscan.Select(ctx, r.pool, &logs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation logs: %w", err)
	}

	return logs, nil
}

const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
