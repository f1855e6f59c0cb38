// Package bulk implements the transactional batch processor: a caller
// submits a heterogeneous list of typed items and gets back one outcome per
// item, committed in a single transaction.
package bulk

import (
	"context"
	"log/slog"

	"github.com/tastemap/tastemap-backend/internal/config"
	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type resourceRepo interface {
	Create(ctx context.Context, sch *registry.Schema, payload map[string]any) (map[string]any, error)
	Exists(ctx context.Context, sch *registry.Schema, id int64) (bool, error)
}

type matchRepo interface {
	FindSimilar(ctx context.Context, sch *registry.Schema, name string, scope *int64, limit int, floor float64) ([]domain.MatchCandidate, error)
}

type hashtagRepo interface {
	GetOrCreate(ctx context.Context, name string) (int64, error)
	LinkRestaurant(ctx context.Context, restaurantID, hashtagID int64) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the bulk processing business logic.
type Service struct {
	log       *slog.Logger
	resources resourceRepo
	matcher   matchRepo
	hashtags  hashtagRepo
	tx        txManager
	cfg       config.BulkConfig
}

// NewService creates a new bulk processing service.
func NewService(
	logger *slog.Logger,
	resources resourceRepo,
	matcher matchRepo,
	hashtags hashtagRepo,
	tx txManager,
	cfg config.BulkConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "bulk"),
		resources: resources,
		matcher:   matcher,
		hashtags:  hashtags,
		tx:        tx,
		cfg:       cfg,
	}
}
