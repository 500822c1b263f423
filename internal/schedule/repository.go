package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// UpsertWorkingHours inserts or replaces the row for (provider, weekday).
	// The unique constraint on (provider_id, weekday) keeps at most one row
	// per weekday per provider.
	UpsertWorkingHours(ctx context.Context, wh *WorkingHours) error
	ListWorkingHours(ctx context.Context, providerID string) ([]WorkingHours, error)

	AddBlockedDate(ctx context.Context, bd *BlockedDate) error
	RemoveBlockedDate(ctx context.Context, providerID string, date time.Time) error
	ListBlockedDates(ctx context.Context, providerID string) ([]BlockedDate, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) UpsertWorkingHours(ctx context.Context, wh *WorkingHours) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.working_hours").
		Columns("provider_id", "weekday", "start_time", "end_time", "is_active").
		Values(wh.ProviderID, wh.Weekday, wh.StartTime, wh.EndTime, wh.IsActive).
		Suffix(`ON CONFLICT (provider_id, weekday) DO UPDATE
			SET start_time = EXCLUDED.start_time,
			    end_time = EXCLUDED.end_time,
			    is_active = EXCLUDED.is_active,
			    updated_at = now()`).
		Suffix("RETURNING id, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert working hours query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&wh.ID, &wh.UpdatedAt)
}

func (r *pgxRepository) ListWorkingHours(ctx context.Context, providerID string) ([]WorkingHours, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "provider_id", "weekday",
		"to_char(start_time, 'HH24:MI')", "to_char(end_time, 'HH24:MI')",
		"is_active", "updated_at",
	).
		From("public.working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list working hours query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list working hours failed: %w", err)
	}
	defer rows.Close()

	var result []WorkingHours
	for rows.Next() {
		var wh WorkingHours
		if err := rows.Scan(
			&wh.ID, &wh.ProviderID, &wh.Weekday,
			&wh.StartTime, &wh.EndTime, &wh.IsActive, &wh.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan working hours failed: %w", err)
		}
		result = append(result, wh)
	}
	return result, nil
}

func (r *pgxRepository) AddBlockedDate(ctx context.Context, bd *BlockedDate) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.blocked_dates").
		Columns("provider_id", "date", "reason").
		Values(bd.ProviderID, bd.Date, bd.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add blocked date query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&bd.ID, &bd.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDateAlreadyBlocked
		}
		return fmt.Errorf("add blocked date failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) RemoveBlockedDate(ctx context.Context, providerID string, date time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.blocked_dates").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove blocked date query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove blocked date failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListBlockedDates(ctx context.Context, providerID string) ([]BlockedDate, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "provider_id", "date", "reason", "created_at").
		From("public.blocked_dates").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list blocked dates query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates failed: %w", err)
	}
	defer rows.Close()

	var result []BlockedDate
	for rows.Next() {
		var bd BlockedDate
		if err := rows.Scan(&bd.ID, &bd.ProviderID, &bd.Date, &bd.Reason, &bd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked date failed: %w", err)
		}
		result = append(result, bd)
	}
	return result, nil
}
