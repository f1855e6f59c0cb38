package cleanup

import (
	"context"
	"fmt"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// StatusRejectionPending is written to a schema's status column when a
// change against that row is rejected.
const StatusRejectionPending = "rejection_pending"

// Reject records the caller's refusal of the given changes. Proposals are
// never persisted, so for most types there is nothing to undo and the call
// is an acknowledgment. Types with a status column (submissions) get a
// real transition: the underlying row moves to rejection_pending so it
// stops surfacing in future analysis runs.
func (s *Service) Reject(ctx context.Context, typeName string, changeIDs []string) ([]domain.ChangeResult, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	if len(changeIDs) == 0 {
		return nil, domain.NewValidationError("changeIds", "required (at least 1)")
	}

	results := make([]domain.ChangeResult, 0, len(changeIDs))

	if sch.StatusColumn == "" {
		for _, cid := range changeIDs {
			results = append(results, domain.ChangeResult{
				ChangeID: cid,
				Success:  true,
				Message:  "rejection acknowledged; nothing was persisted",
			})
		}
		return results, nil
	}

	requested := make(map[string]struct{}, len(changeIDs))
	for _, cid := range changeIDs {
		requested[cid] = struct{}{}
	}

	targets, err := s.resolveTargets(ctx, sch, requested)
	if err != nil {
		return nil, err
	}

	for _, cid := range changeIDs {
		tgt, ok := targets[cid]
		if !ok {
			results = append(results, domain.ChangeResult{
				ChangeID: cid,
				Message:  "change not found; the target row may have been removed",
			})
			continue
		}
		results = append(results, s.rejectOne(ctx, sch, cid, tgt.rowID))
	}

	return results, nil
}

func (s *Service) rejectOne(ctx context.Context, sch *registry.Schema, cid string, rowID int64) domain.ChangeResult {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err := s.resources.UpdateField(txCtx, sch, rowID, sch.StatusColumn, StatusRejectionPending)
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		s.log.Warn("rejection failed", "change_id", cid, "type", sch.Type, "error", err)
		return domain.ChangeResult{
			ChangeID: cid,
			Message:  fmt.Sprintf("reject: %v", err),
		}
	}

	return domain.ChangeResult{
		ChangeID: cid,
		Success:  true,
		Message:  fmt.Sprintf("%s moved to %s", sch.Type, StatusRejectionPending),
	}
}
