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

var bloodRequestColumns = utils.StructTagValues(types.BloodRequest{})

type BloodRequestRepository struct {
	pool *pgxpool.Pool
}

func NewBloodRequestRepository(pool *pgxpool.Pool) *BloodRequestRepository {
	return &BloodRequestRepository{pool: pool}
}

func (r *BloodRequestRepository) Request(ctx context.Context, requestID string) (*types.BloodRequest, error) {
	query, args, err := psql().
		Select(bloodRequestColumns...).
		From(bloodRequestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate blood request query: %w", err)
	}

	var request types.BloodRequest
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch blood request: %w", err)
	}

	return &request, nil
}

// Requests lists blood requests matching filter, newest first.
func (r *BloodRequestRepository) Requests(ctx context.Context, filter types.RequestFilter) ([]*types.BloodRequest, error) {
	query, args, err := requestsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate blood requests query: %w", err)
	}

	requests := make([]*types.BloodRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blood requests: %w", err)
	}

	return requests, nil
}

func requestsQuery(filter types.RequestFilter) sq.SelectBuilder {
	q := psql().
		Select(bloodRequestColumns...).
		From(bloodRequestTableName)

	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.Since != nil {
		q = q.Where(sq.GtOrEq{"created_at": *filter.Since})
	}
	if filter.HospitalName != "" {
		q = q.Where(sq.Eq{"hospital_name": filter.HospitalName})
	}
	if filter.FileNumber != "" {
		q = q.Where(sq.Eq{"file_number": filter.FileNumber})
	}
	if len(filter.BloodTypes) > 0 {
		q = q.Where(sq.Eq{"blood_type": filter.BloodTypes})
	}
	if filter.City != "" {
		q = q.Where(sq.Eq{"city": filter.City})
	}
	if filter.Urgency != "" {
		q = q.Where(sq.Eq{"urgency_level": filter.Urgency})
	}
	if filter.RequesterID != "" {
		q = q.Where(sq.Eq{"requester_id": filter.RequesterID})
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	return q
}

// Create inserts an open request. Seeded requests arrive with a fixed ID, everything
// else gets a fresh NanoID.
func (r *BloodRequestRepository) Create(ctx context.Context, request *types.BloodRequest) error {
	now := time.Now()
	if request.ID == "" {
		request.ID = utils.NanoID()
	}
	request.Status = types.RequestStatusOpen
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql().
		Insert(bloodRequestTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert blood request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create blood request")
}

// UpdateStatus moves an open request to next. Closed requests never change again,
// so the update only touches rows that are still open.
func (r *BloodRequestRepository) UpdateStatus(ctx context.Context, requestID string, next types.RequestStatus) (*types.BloodRequest, error) {
	if !types.RequestStatusOpen.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: open -> %s", types.ErrInvalidStatusTransition, next)
	}

	query, args, err := psql().
		Update(bloodRequestTableName).
		Set("status", next).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": requestID, "status": types.RequestStatusOpen}).
		Suffix("RETURNING " + joinColumns(bloodRequestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update status query for request %s: %w", requestID, err)
	}

	var request types.BloodRequest
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err == nil {
		return &request, nil
	}
	if !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to update blood request status: %w", err)
	}

	current, err := r.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("%w: %s -> %s", types.ErrInvalidStatusTransition, current.Status, next)
}

// ExpireStale marks open requests created before cutoff as expired and returns how many changed.
func (r *BloodRequestRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := expireStaleQuery(cutoff, time.Now()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate expire query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale requests: %w", err)
	}

	return tag.RowsAffected(), nil
}

func expireStaleQuery(cutoff, now time.Time) sq.UpdateBuilder {
	return psql().
		Update(bloodRequestTableName).
		Set("status", types.RequestStatusExpired).
		Set("updated_at", now).
		Where(sq.Eq{"status": types.RequestStatusOpen}).
		Where(sq.Lt{"created_at": cutoff})
}
