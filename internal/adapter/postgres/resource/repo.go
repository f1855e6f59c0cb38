// Package resource implements the generic single-resource CRUD primitive.
// Table and column identifiers come exclusively from the schema registry;
// every value is a bound parameter.
package resource

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// qb builds parameterized queries with PostgreSQL placeholders.
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides registry-driven persistence for every resource type.
type Repo struct {
	db postgres.Querier
}

// New creates a resource repository over a pool or transaction handle.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByID returns one row as a column-to-value map.
// Returns domain.ErrNotFound if no row matches.
func (r *Repo) FindByID(ctx context.Context, sch *registry.Schema, id int64) (map[string]any, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Select("*").
		From(sch.Table).
		Where(squirrel.Eq{sch.IDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", sch.Table, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, sch.Table, id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, postgres.MapError(err, sch.Table, id)
	}

	return row, nil
}

// Exists reports whether a row with the given id exists.
func (r *Repo) Exists(ctx context.Context, sch *registry.Schema, id int64) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := fmt.Sprintf(
		"SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)",
		sch.Table, sch.IDColumn,
	)

	var exists bool
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, postgres.MapError(err, sch.Table, id)
	}

	return exists, nil
}

// ListAll returns every row the schema's extra filter admits, ordered by id
// for deterministic analysis runs.
func (r *Repo) ListAll(ctx context.Context, sch *registry.Schema) ([]map[string]any, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := qb.Select("*").From(sch.Table)
	if sch.ExtraFilter != nil {
		builder = builder.Where(sch.ExtraFilter)
	}
	builder = builder.OrderBy(sch.IDColumn + " ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", sch.Table, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", sch.Table, err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect %s rows: %w", sch.Table, err)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a row from the whitelisted subset of payload and returns
// the inserted row. Payload keys outside the schema's create columns are
// dropped; if nothing remains, fails with domain.ErrNoValidColumns.
func (r *Repo) Create(ctx context.Context, sch *registry.Schema, payload map[string]any) (map[string]any, error) {
	fields := sch.FilterCreate(payload)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", sch.Table, domain.ErrNoValidColumns)
	}

	// Iterate the schema's column order so the generated SQL is stable.
	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, col := range sch.CreateColumns {
		if v, ok := fields[col]; ok {
			cols = append(cols, col)
			vals = append(vals, v)
		}
	}

	sql, args, err := qb.Insert(sch.Table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s: %w", sch.Table, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, sch.Table, 0)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, postgres.MapError(err, sch.Table, 0)
	}

	return row, nil
}

// Update mutates the whitelisted subset of payload and returns the updated
// row. Update-with-no-change is not an error: when no payload field
// survives the whitelist, the current row is returned unmodified.
func (r *Repo) Update(ctx context.Context, sch *registry.Schema, id int64, payload map[string]any) (map[string]any, error) {
	fields := sch.FilterUpdate(payload)
	if len(fields) == 0 {
		return r.FindByID(ctx, sch, id)
	}

	builder := qb.Update(sch.Table)
	for _, col := range sch.UpdateColumns {
		if v, ok := fields[col]; ok {
			builder = builder.Set(col, v)
		}
	}

	sql, args, err := builder.
		Where(squirrel.Eq{sch.IDColumn: id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update %s: %w", sch.Table, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, sch.Table, id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, postgres.MapError(err, sch.Table, id)
	}

	return row, nil
}

// UpdateField sets a single column on a single row. The column name must
// originate from the registry (normalization rules or status column), never
// from caller input. Returns false when the row does not exist.
func (r *Repo) UpdateField(ctx context.Context, sch *registry.Schema, id int64, column string, value any) (bool, error) {
	sql, args, err := qb.Update(sch.Table).
		Set(column, value).
		Where(squirrel.Eq{sch.IDColumn: id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update %s.%s: %w", sch.Table, column, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, sch.Table, id)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a row, reporting whether it existed.
func (r *Repo) Delete(ctx context.Context, sch *registry.Schema, id int64) (bool, error) {
	sql, args, err := qb.Delete(sch.Table).
		Where(squirrel.Eq{sch.IDColumn: id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete %s: %w", sch.Table, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, sch.Table, id)
	}

	return tag.RowsAffected() > 0, nil
}
