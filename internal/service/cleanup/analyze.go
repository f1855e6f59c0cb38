package cleanup

import (
	"context"
	"fmt"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// Analyze scans every row the schema's extra filter admits and returns one
// proposal per rule that would change a value. No-op proposals are never
// returned. Display-only proposals (missing references, sensitive-column
// hiding) carry no mutable column; affects-all-rows proposals appear once
// per (type, field), not once per row.
func (s *Service) Analyze(ctx context.Context, typeName string) ([]domain.ChangeProposal, error) {
	sch, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	rows, err := s.resources.ListAll(ctx, sch)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", sch.Table, err)
	}

	apps := ruleApplications(sch)
	proposals := make([]domain.ChangeProposal, 0)

	for _, row := range rows {
		id, ok := rowID(row, sch.IDColumn)
		if !ok {
			continue
		}

		for _, app := range apps {
			current, ok := row[app.field].(string)
			if !ok || current == "" {
				continue
			}
			proposed := app.derive(current)
			if proposed == current {
				continue
			}
			proposals = append(proposals, domain.ChangeProposal{
				ChangeID:      domain.NewChangeID(sch.Type, id, app.field, app.changeType),
				ResourceType:  sch.Type,
				ResourceID:    id,
				Field:         app.field,
				CurrentValue:  current,
				ProposedValue: proposed,
				ChangeType:    app.changeType,
				Reason:        app.reason,
				Confidence:    app.confidence,
			})
		}

		// A row without its scoping reference cannot be displayed with
		// context (e.g. a restaurant with no city). Nothing to mutate:
		// the fix is a manual assignment.
		if sch.ScopeColumn != "" && row[sch.ScopeColumn] == nil {
			proposals = append(proposals, domain.ChangeProposal{
				ChangeID:     domain.NewChangeID(sch.Type, id, sch.ScopeColumn, domain.ChangeMissingReference),
				ResourceType: sch.Type,
				ResourceID:   id,
				Field:        sch.ScopeColumn,
				CurrentValue: "",
				ChangeType:   domain.ChangeMissingReference,
				Reason:       fmt.Sprintf("row has no %s assigned", sch.ScopeColumn),
				Confidence:   0.5,
				DisplayOnly:  true,
			})
		}
	}

	// One hide-column proposal per sensitive column, regardless of how many
	// rows exist.
	for _, col := range sch.SensitiveColumns {
		proposals = append(proposals, domain.ChangeProposal{
			ChangeID:       domain.NewChangeID(sch.Type, 0, col, domain.ChangeHideColumn),
			ResourceType:   sch.Type,
			Field:          col,
			ChangeType:     domain.ChangeHideColumn,
			Reason:         fmt.Sprintf("%s is sensitive and should be hidden from listings", col),
			Confidence:     1.0,
			DisplayOnly:    true,
			AffectsAllRows: true,
		})
	}

	s.log.Info("analysis complete",
		"type", sch.Type,
		"rows", len(rows),
		"proposals", len(proposals),
	)

	return proposals, nil
}
