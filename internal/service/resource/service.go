// Package resource implements the generic admin CRUD surface: every
// operation takes a resource-type name, resolves it through the registry,
// and runs the corresponding persistence primitive. Rows returned to the
// caller pass through the type's formatter; persisted payloads never do.
package resource

import (
	"context"
	"log/slog"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type resourceRepo interface {
	FindByID(ctx context.Context, sch *registry.Schema, id int64) (map[string]any, error)
	ListAll(ctx context.Context, sch *registry.Schema) ([]map[string]any, error)
	Create(ctx context.Context, sch *registry.Schema, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, sch *registry.Schema, id int64, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, sch *registry.Schema, id int64) (bool, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements single-resource CRUD over the schema registry.
type Service struct {
	log       *slog.Logger
	resources resourceRepo
}

// NewService creates a new resource service.
func NewService(logger *slog.Logger, resources resourceRepo) *Service {
	return &Service{
		log:       logger.With("service", "resource"),
		resources: resources,
	}
}

// Get returns one formatted row.
func (s *Service) Get(ctx context.Context, typeName string, id int64) (map[string]any, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	row, err := s.resources.FindByID(ctx, sch, id)
	if err != nil {
		return nil, err
	}

	return s.format(sch, row), nil
}

// List returns every row the schema's extra filter admits, formatted.
func (s *Service) List(ctx context.Context, typeName string) ([]map[string]any, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	rows, err := s.resources.ListAll(ctx, sch)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = s.format(sch, row)
	}
	return out, nil
}

// Create inserts a row from the whitelisted payload and returns it
// formatted. Payload fields outside the schema's create columns are
// silently dropped.
func (s *Service) Create(ctx context.Context, typeName string, payload map[string]any) (map[string]any, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	row, err := s.resources.Create(ctx, sch, payload)
	if err != nil {
		return nil, err
	}

	s.log.Info("resource created", "type", sch.Type, "id", row[sch.IDColumn])
	return s.format(sch, row), nil
}

// Update mutates the whitelisted payload fields and returns the row
// formatted. A payload with no updatable fields returns the current row
// unchanged.
func (s *Service) Update(ctx context.Context, typeName string, id int64, payload map[string]any) (map[string]any, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	row, err := s.resources.Update(ctx, sch, id, payload)
	if err != nil {
		return nil, err
	}

	return s.format(sch, row), nil
}

// Delete removes a row. Deleting a row that does not exist fails with
// domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, typeName string, id int64) error {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return err
	}

	existed, err := s.resources.Delete(ctx, sch, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrNotFound
	}

	s.log.Info("resource deleted", "type", sch.Type, "id", id)
	return nil
}

func (s *Service) format(sch *registry.Schema, row map[string]any) map[string]any {
	if sch.Format == nil {
		return row
	}
	return sch.Format(row)
}
