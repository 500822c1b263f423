package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, id string) (*Provider, error)
	List(ctx context.Context, filter Filter) ([]*Provider, int, error)

	// ListAll returns the full roster in stable name order, for the day-schedule view.
	ListAll(ctx context.Context) ([]*Provider, error)

	Update(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Provider) error {
	const query = `
		INSERT INTO public.providers (name, specialty)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, p.Name, p.Specialty).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create provider failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Provider, error) {
	const query = `
		SELECT id, name, specialty, created_at
		FROM public.providers
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var p Provider
	if err := row.Scan(&p.ID, &p.Name, &p.Specialty, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get provider failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Provider, int, error) {
	var args []interface{}
	queryBase := `
		SELECT id, name, specialty, created_at, count(*) OVER() as total_count
		FROM public.providers
		WHERE 1=1
	`
	paramIndex := 1

	if filter.Keyword != "" {
		queryBase += fmt.Sprintf(" AND (name ILIKE $%d OR specialty ILIKE $%d)", paramIndex, paramIndex)
		args = append(args, "%"+filter.Keyword+"%")
		paramIndex++
	}

	queryBase += " ORDER BY created_at DESC"

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBase += fmt.Sprintf(" LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.pool.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list providers failed: %w", err)
	}
	defer rows.Close()

	var result []*Provider
	var total int

	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Specialty, &p.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan provider failed: %w", err)
		}
		result = append(result, &p)
	}

	return result, total, nil
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Provider, error) {
	const query = `
		SELECT id, name, specialty, created_at
		FROM public.providers
		ORDER BY name ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all providers failed: %w", err)
	}
	defer rows.Close()

	var result []*Provider
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Specialty, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan provider failed: %w", err)
		}
		result = append(result, &p)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Provider) error {
	const query = `
		UPDATE public.providers
		SET name = $1, specialty = $2
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, p.Name, p.Specialty, p.ID)
	if err != nil {
		return fmt.Errorf("update provider failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.providers WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete provider failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
