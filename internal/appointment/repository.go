package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateIfFree atomically checks that no non-cancelled appointment for the
	// provider overlaps [appt.StartTime, appt.EndTime) and inserts the new row.
	// The check and the insert run in one serializable transaction, so two
	// concurrent bookings for overlapping intervals cannot both pass; the
	// loser gets ErrSlotConflict.
	CreateIfFree(ctx context.Context, appt *Appointment) error

	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)

	// ListActiveInRange returns the provider's non-cancelled appointments
	// whose intervals intersect [from, to).
	ListActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]Appointment, error)

	// UpdateStatus moves an appointment from one status to another. The
	// previous status is part of the predicate so a concurrent transition
	// cannot be silently overwritten; zero rows affected means the row
	// changed (or vanished) underneath the caller.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateIfFree(ctx context.Context, appt *Appointment) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin booking transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Overlap test on half-open intervals: existing.start < new.end AND existing.end > new.start.
	overlapSQL, overlapArgs, err := psql.Select("1").
		From("public.appointments").
		Where(squirrel.Eq{"provider_id": appt.ProviderID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"start_time": appt.EndTime}).
		Where(squirrel.Gt{"end_time": appt.StartTime}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS ("+overlapSQL+")", overlapArgs...).Scan(&exists); err != nil {
		return fmt.Errorf("check overlap failed: %w", err)
	}
	if exists {
		return ErrSlotConflict
	}

	insertSQL, insertArgs, err := psql.Insert("public.appointments").
		Columns("provider_id", "service_id", "customer_id", "start_time", "end_time", "status").
		Values(appt.ProviderID, appt.ServiceID, appt.CustomerID, appt.StartTime, appt.EndTime, appt.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert appointment query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt); err != nil {
		return mapConflict(err, "insert appointment failed")
	}

	if err := tx.Commit(ctx); err != nil {
		// Under serializable isolation the losing writer surfaces here.
		return mapConflict(err, "commit booking transaction failed")
	}
	return nil
}

// mapConflict translates store-level conflict signals into ErrSlotConflict so
// the caller sees "someone else just took it" rather than a generic failure.
func mapConflict(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.ExclusionViolation, pgerrcode.UniqueViolation:
			return ErrSlotConflict
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"a.id", "a.provider_id", "p.name", "a.service_id", "s.name",
		"a.customer_id", "a.start_time", "a.end_time", "a.status",
		"a.created_at", "a.updated_at",
	).
		From("public.appointments a").
		Join("public.providers p ON a.provider_id = p.id").
		Join("public.services s ON a.service_id = s.id").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get appointment query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var a Appointment
	if err := row.Scan(
		&a.ID, &a.ProviderID, &a.ProviderName, &a.ServiceID, &a.ServiceName,
		&a.CustomerID, &a.StartTime, &a.EndTime, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"a.id", "a.provider_id", "p.name", "a.service_id", "s.name",
		"a.customer_id", "a.start_time", "a.end_time", "a.status",
		"a.created_at", "a.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.appointments a").
		Join("public.providers p ON a.provider_id = p.id").
		Join("public.services s ON a.service_id = s.id")

	if filter.CustomerID != "" {
		query = query.Where(squirrel.Eq{"a.customer_id": filter.CustomerID})
	}
	if filter.ProviderID != "" {
		query = query.Where(squirrel.Eq{"a.provider_id": filter.ProviderID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"a.status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.StartTime != nil {
		query = query.Where(squirrel.GtOrEq{"a.end_time": filter.StartTime})
	}
	if filter.EndTime != nil {
		query = query.Where(squirrel.LtOrEq{"a.start_time": filter.EndTime})
	}

	// Sorting
	orderBy := "a.start_time"
	if filter.SortBy != "" {
		orderBy = "a." + filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var appts []*Appointment
	var total int

	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.ProviderID, &a.ProviderName, &a.ServiceID, &a.ServiceName,
			&a.CustomerID, &a.StartTime, &a.EndTime, &a.Status,
			&a.CreatedAt, &a.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan appointment failed: %w", err)
		}
		appts = append(appts, &a)
	}

	return appts, total, nil
}

func (r *pgxRepository) ListActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "provider_id", "service_id", "customer_id",
		"start_time", "end_time", "status", "created_at", "updated_at",
	).
		From("public.appointments").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active range query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active appointments failed: %w", err)
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.ProviderID, &a.ServiceID, &a.CustomerID,
			&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan appointment failed: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.appointments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update appointment status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}
