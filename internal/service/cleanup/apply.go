package cleanup

import (
	"context"
	"fmt"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// target is a resolved change: the row, column and freshly derived value a
// change id refers to right now.
type target struct {
	rowID       int64
	field       string
	value       any
	displayOnly bool
}

// resolveTargets maps requested change ids onto current rows. Change ids
// are one-way hashes, so resolution re-enumerates every possible rule
// application over fresh rows and keeps the ones that were asked for. An
// id that resolves to nothing points at a row that no longer exists.
func (s *Service) resolveTargets(ctx context.Context, sch *registry.Schema, requested map[string]struct{}) (map[string]target, error) {
	rows, err := s.resources.ListAll(ctx, sch)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", sch.Table, err)
	}

	apps := ruleApplications(sch)
	out := make(map[string]target, len(requested))

	for _, row := range rows {
		id, ok := rowID(row, sch.IDColumn)
		if !ok {
			continue
		}
		for _, app := range apps {
			cid := domain.NewChangeID(sch.Type, id, app.field, app.changeType)
			if _, want := requested[cid]; !want {
				continue
			}
			current, _ := row[app.field].(string)
			out[cid] = target{rowID: id, field: app.field, value: app.derive(current)}
		}
		if sch.ScopeColumn != "" {
			cid := domain.NewChangeID(sch.Type, id, sch.ScopeColumn, domain.ChangeMissingReference)
			if _, want := requested[cid]; want {
				out[cid] = target{rowID: id, field: sch.ScopeColumn, displayOnly: true}
			}
		}
	}

	for _, col := range sch.SensitiveColumns {
		cid := domain.NewChangeID(sch.Type, 0, col, domain.ChangeHideColumn)
		if _, want := requested[cid]; want {
			out[cid] = target{field: col, displayOnly: true}
		}
	}

	return out, nil
}

// Apply executes the requested changes, one short transaction per change,
// so one change's failure never blocks the others. Values are re-derived
// from the rows as they are now, not from whatever an earlier Analyze call
// showed: applying an already-applied change rewrites the same value and
// succeeds. Display-only changes succeed without touching the database.
func (s *Service) Apply(ctx context.Context, typeName string, changeIDs []string) ([]domain.ChangeResult, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	if len(changeIDs) == 0 {
		return nil, domain.NewValidationError("changeIds", "required (at least 1)")
	}

	requested := make(map[string]struct{}, len(changeIDs))
	for _, cid := range changeIDs {
		requested[cid] = struct{}{}
	}

	targets, err := s.resolveTargets(ctx, sch, requested)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ChangeResult, 0, len(changeIDs))
	for _, cid := range changeIDs {
		tgt, ok := targets[cid]
		switch {
		case !ok:
			results = append(results, domain.ChangeResult{
				ChangeID: cid,
				Message:  "change not found; the target row may have been removed",
			})
		case tgt.displayOnly:
			results = append(results, domain.ChangeResult{
				ChangeID: cid,
				Success:  true,
				Message:  "display-only change; no data modified",
			})
		default:
			results = append(results, s.applyOne(ctx, sch, cid, tgt))
		}
	}

	return results, nil
}

func (s *Service) applyOne(ctx context.Context, sch *registry.Schema, cid string, tgt target) domain.ChangeResult {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err := s.resources.UpdateField(txCtx, sch, tgt.rowID, tgt.field, tgt.value)
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		s.log.Warn("change failed", "change_id", cid, "type", sch.Type, "error", err)
		return domain.ChangeResult{
			ChangeID: cid,
			Message:  fmt.Sprintf("update %s: %v", tgt.field, err),
		}
	}

	return domain.ChangeResult{
		ChangeID: cid,
		Success:  true,
		Message:  fmt.Sprintf("%s updated", tgt.field),
	}
}
