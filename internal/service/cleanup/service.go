// Package cleanup implements the data-quality workflow: scan a resource
// collection for normalizable fields, emit change proposals with stable
// identifiers, and apply or reject selected changes. Proposals are always
// computed on demand; nothing about them is stored.
package cleanup

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type resourceRepo interface {
	ListAll(ctx context.Context, sch *registry.Schema) ([]map[string]any, error)
	UpdateField(ctx context.Context, sch *registry.Schema, id int64, column string, value any) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the data-quality analysis and change workflow.
type Service struct {
	log       *slog.Logger
	resources resourceRepo
	tx        txManager
}

// NewService creates a new cleanup service.
func NewService(logger *slog.Logger, resources resourceRepo, tx txManager) *Service {
	return &Service{
		log:       logger.With("service", "cleanup"),
		resources: resources,
		tx:        tx,
	}
}

// ---------------------------------------------------------------------------
// Rule applications
// ---------------------------------------------------------------------------

// ruleApplication is one concrete mutation a schema rule can make to a
// field. Analysis emits a proposal only when derive would change the
// current value; apply re-derives from the fresh row unconditionally, so
// re-applying an already-applied change writes the same value again
// instead of failing.
type ruleApplication struct {
	field      string
	changeType domain.ChangeType
	confidence float64
	reason     string
	derive     func(current string) string
}

// ruleApplications expands a schema's field rules into the flat ordered
// list of possible mutations. Trim and title-case compose into a single
// normalize application per field.
func ruleApplications(sch *registry.Schema) []ruleApplication {
	fields := make([]string, 0, len(sch.Rules))
	for f := range sch.Rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var apps []ruleApplication
	for _, field := range fields {
		rule := sch.Rules[field]

		if rule.Trim || rule.TitleCase {
			trim, title := rule.Trim, rule.TitleCase
			apps = append(apps, ruleApplication{
				field:      field,
				changeType: domain.ChangeNormalize,
				confidence: 1.0,
				reason:     "normalize whitespace and casing",
				derive: func(current string) string {
					v := current
					if trim {
						v = domain.CleanText(v)
					}
					if title {
						v = domain.TitleCase(v)
					}
					return v
				},
			})
		}
		if rule.MaxLen > 0 {
			maxLen := rule.MaxLen
			apps = append(apps, ruleApplication{
				field:      field,
				changeType: domain.ChangeTruncate,
				confidence: 0.8,
				reason:     "value exceeds the field's maximum length",
				derive:     func(current string) string { return domain.Truncate(current, maxLen) },
			})
		}
		if rule.Phone {
			apps = append(apps, ruleApplication{
				field:      field,
				changeType: domain.ChangeFormatPhone,
				confidence: 0.9,
				reason:     "standardize phone number format",
				derive:     domain.FormatPhone,
			})
		}
		if rule.URLPrefix {
			apps = append(apps, ruleApplication{
				field:      field,
				changeType: domain.ChangeFormatURL,
				confidence: 0.9,
				reason:     "add missing URL scheme",
				derive:     domain.FormatURL,
			})
		}
	}

	return apps
}

// rowID extracts the primary key from a row map.
func rowID(row map[string]any, idColumn string) (int64, bool) {
	switch v := row[idColumn].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	}
	return 0, false
}
