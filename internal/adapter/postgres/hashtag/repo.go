// Package hashtag implements hashtag persistence and restaurant linkage,
// used by the bulk processor for tag secondary effects.
package hashtag

import (
	"context"
	"fmt"

	postgres "github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	"github.com/tastemap/tastemap-backend/internal/domain"
)

// Repo provides hashtag rows and the restaurant↔hashtag junction.
type Repo struct {
	db postgres.Querier
}

// New creates a hashtag repository over a pool or transaction handle.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const getOrCreateSQL = `
	INSERT INTO hashtags (name)
	VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id`

// GetOrCreate returns the id of the hashtag with the given normalized
// name, inserting it if absent. The upsert keeps the read and write in one
// statement so concurrent batches cannot race a duplicate insert.
func (r *Repo) GetOrCreate(ctx context.Context, name string) (int64, error) {
	normalized := domain.NormalizeText(name)
	if normalized == "" {
		return 0, domain.NewValidationError("tag", "tag name is empty")
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var id int64
	if err := q.QueryRow(ctx, getOrCreateSQL, normalized).Scan(&id); err != nil {
		return 0, fmt.Errorf("get or create hashtag %q: %w", normalized, err)
	}

	return id, nil
}

const linkRestaurantSQL = `
	INSERT INTO restaurant_hashtags (restaurant_id, hashtag_id)
	VALUES ($1, $2)
	ON CONFLICT (restaurant_id, hashtag_id) DO NOTHING`

// LinkRestaurant attaches a hashtag to a restaurant. Idempotent: linking
// twice is not an error.
func (r *Repo) LinkRestaurant(ctx context.Context, restaurantID, hashtagID int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, linkRestaurantSQL, restaurantID, hashtagID); err != nil {
		return postgres.MapError(err, "restaurant_hashtags", restaurantID)
	}

	return nil
}
