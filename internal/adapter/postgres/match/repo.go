// Package match implements fuzzy entity lookup over pg_trgm similarity.
package match

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	postgres "github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// Repo ranks approximate name matches against existing rows.
type Repo struct {
	db postgres.Querier
}

// New creates a matcher repository over a pool or transaction handle.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// FindSimilar returns candidates whose trigram similarity to name clears
// floor, highest score first, ties broken by ascending id so a fixed
// database state always yields the same ordering. scope, when non-nil,
// restricts matching to rows whose schema scope column equals it.
// No candidate above the floor is an empty result, not an error.
//
// Identifiers are taken from the registry schema; name, floor, limit and
// scope are bound parameters.
func (r *Repo) FindSimilar(ctx context.Context, sch *registry.Schema, name string, scope *int64, limit int, floor float64) ([]domain.MatchCandidate, error) {
	if name == "" {
		return []domain.MatchCandidate{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	addressCol := "NULL"
	if sch.AddressColumn != "" {
		addressCol = sch.AddressColumn
	}

	query := fmt.Sprintf(
		`SELECT %[1]s AS id, %[2]s AS name, %[3]s AS address,
		        similarity(%[2]s, $1)::float8 AS score
		 FROM %[4]s
		 WHERE similarity(%[2]s, $1) >= $2`,
		sch.IDColumn, sch.NameColumn, addressCol, sch.Table,
	)

	args := []any{name, floor}
	if scope != nil && sch.ScopeColumn != "" {
		args = append(args, *scope)
		query += fmt.Sprintf(" AND %s = $%d", sch.ScopeColumn, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY score DESC, %s ASC LIMIT $%d", sch.IDColumn, len(args))

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", sch.Table, err)
	}

	candidates, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.MatchCandidate])
	if err != nil {
		return nil, fmt.Errorf("collect %s candidates: %w", sch.Table, err)
	}

	return candidates, nil
}
