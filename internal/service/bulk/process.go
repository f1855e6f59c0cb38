package bulk

import (
	"context"
	"fmt"

	postgres "github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

// Process runs one batch inside a single transaction. Recoverable item
// failures (validation, conflicts, batch-internal duplicates) are recorded
// in that item's outcome without aborting; a database-level failure rolls
// back the whole batch and every item reports the shared cause. On such a
// rollback both the per-item breakdown and a non-nil error are returned,
// so the transport can send an error status with the structured body.
func (s *Service) Process(ctx context.Context, input ProcessInput) (*domain.BulkResult, error) {
	if err := input.Validate(s.cfg.MaxBatchItems); err != nil {
		return nil, err
	}

	items := make([]domain.BulkItem, len(input.Items))
	copy(items, input.Items)
	for i := range items {
		items[i].Line = i + 1
	}

	dupOf := flagDuplicates(items)
	outcomes := make([]domain.ItemOutcome, len(items))

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range items {
			out, err := s.processItem(txCtx, &items[i], dupOf[i])
			if err != nil {
				return fmt.Errorf("line %d: %w", items[i].Line, err)
			}
			outcomes[i] = out
		}
		return nil
	})

	if txErr != nil {
		s.log.Error("bulk batch rolled back", "items", len(items), "error", txErr)
		for i := range items {
			out := newOutcome(&items[i])
			finish(&out, domain.ItemError, "batch transaction failed: "+txErr.Error())
			outcomes[i] = out
		}
	}

	result := &domain.BulkResult{
		Processed: len(outcomes),
		Details:   outcomes,
	}
	for _, out := range outcomes {
		switch out.Status {
		case domain.ItemAdded:
			result.Added++
		case domain.ItemSkipped, domain.ItemReviewNeeded:
			// Review-needed items were never persisted: they count as
			// skipped, not errored.
			result.Skipped++
		default:
			result.Errored++
		}
	}

	if txErr != nil {
		return result, fmt.Errorf("bulk batch failed: %w", txErr)
	}

	s.log.Info("bulk batch processed",
		"processed", result.Processed,
		"added", result.Added,
		"skipped", result.Skipped,
		"errored", result.Errored,
	)

	return result, nil
}

// itemVerdict is a terminal non-added decision made while preparing an item.
type itemVerdict struct {
	status      domain.ItemStatus
	reason      string
	suggestions []domain.MatchCandidate
}

// processItem handles one item. A returned error is fatal for the whole
// batch; everything recoverable lands in the outcome instead.
func (s *Service) processItem(ctx context.Context, item *domain.BulkItem, dupLine int) (domain.ItemOutcome, error) {
	out := newOutcome(item)

	if dupLine > 0 {
		finish(&out, domain.ItemError, fmt.Sprintf("duplicate within batch (first occurrence at line %d)", dupLine))
		return out, nil
	}

	if domain.CleanText(item.Name) == "" {
		finish(&out, domain.ItemError, "name is required")
		return out, nil
	}
	if !item.Type.IsValid() {
		finish(&out, domain.ItemError, fmt.Sprintf("unknown resource type %q", item.Type))
		return out, nil
	}

	sch := registry.MustLookup(item.Type)
	if !sch.BulkEnabled {
		finish(&out, domain.ItemError, fmt.Sprintf("resource type %q does not support bulk add", item.Type))
		return out, nil
	}

	payload, note, verdict, err := s.buildPayload(ctx, item)
	if err != nil {
		return out, err
	}
	if verdict != nil {
		out.Suggestions = verdict.suggestions
		finish(&out, verdict.status, verdict.reason)
		return out, nil
	}

	row, err := s.resources.Create(ctx, sch, payload)
	if err != nil {
		if postgres.IsRecoverable(err) {
			finish(&out, domain.ItemError, err.Error())
			return out, nil
		}
		return out, err
	}

	id, ok := rowID(row)
	if !ok {
		return out, fmt.Errorf("created %s row has no id", sch.Table)
	}

	// Secondary effects run in the same transaction, keyed by the fresh id.
	if item.Type == domain.ResourceRestaurants {
		if err := s.linkTags(ctx, id, item.Tags); err != nil {
			return out, err
		}
	}

	out.ID = &id
	finish(&out, domain.ItemAdded, note)
	return out, nil
}

// buildPayload validates the item's references and assembles the insert
// payload. It returns a non-nil verdict when the item must stop short of
// persistence, and a note recorded on success (e.g. the auto-match reason).
func (s *Service) buildPayload(ctx context.Context, item *domain.BulkItem) (map[string]any, string, *itemVerdict, error) {
	payload := map[string]any{"name": domain.CleanText(item.Name)}

	switch item.Type {
	case domain.ResourceRestaurants:
		if item.CityID == nil {
			return nil, "", errVerdict("city_id is required for a restaurant"), nil
		}
		if v, err := s.checkReference(ctx, domain.ResourceCities, *item.CityID); v != nil || err != nil {
			return nil, "", v, err
		}
		payload["city_id"] = *item.CityID
		if item.NeighborhoodID != nil {
			if v, err := s.checkReference(ctx, domain.ResourceNeighborhoods, *item.NeighborhoodID); v != nil || err != nil {
				return nil, "", v, err
			}
			payload["neighborhood_id"] = *item.NeighborhoodID
		}
		setOpt(payload, "address", item.Address)
		setOpt(payload, "phone", item.Phone)
		setOpt(payload, "website", item.Website)
		setOpt(payload, "description", item.Description)
		return payload, "", nil, nil

	case domain.ResourceDishes:
		restaurantID, note, verdict, err := s.resolveRestaurant(ctx, item)
		if verdict != nil || err != nil {
			return nil, "", verdict, err
		}
		payload["restaurant_id"] = restaurantID
		setOpt(payload, "price", item.Price)
		setOpt(payload, "description", item.Description)
		return payload, note, nil, nil

	case domain.ResourceNeighborhoods:
		if item.CityID == nil {
			return nil, "", errVerdict("city_id is required for a neighborhood"), nil
		}
		if v, err := s.checkReference(ctx, domain.ResourceCities, *item.CityID); v != nil || err != nil {
			return nil, "", v, err
		}
		payload["city_id"] = *item.CityID
		return payload, "", nil, nil

	case domain.ResourceHashtags:
		payload["name"] = domain.NormalizeText(item.Name)
		return payload, "", nil, nil

	default: // cities
		return payload, "", nil, nil
	}
}

// resolveRestaurant turns a dish's restaurant reference into an id. An
// explicit id is verified; a name goes through the fuzzy matcher. Exactly
// one candidate clearing the confident threshold auto-resolves; anything
// ambiguous is deferred to the caller as review_needed.
func (s *Service) resolveRestaurant(ctx context.Context, item *domain.BulkItem) (int64, string, *itemVerdict, error) {
	if item.RestaurantID != nil {
		if v, err := s.checkReference(ctx, domain.ResourceRestaurants, *item.RestaurantID); v != nil || err != nil {
			return 0, "", v, err
		}
		return *item.RestaurantID, "", nil, nil
	}

	if item.RestaurantName == nil || domain.CleanText(*item.RestaurantName) == "" {
		return 0, "", errVerdict("restaurant_id or restaurant_name is required for a dish"), nil
	}
	name := domain.CleanText(*item.RestaurantName)

	sch := registry.MustLookup(domain.ResourceRestaurants)
	candidates, err := s.matcher.FindSimilar(ctx, sch, name, item.CityID, s.cfg.SuggestionLimit, s.cfg.MatchFloor)
	if err != nil {
		return 0, "", nil, fmt.Errorf("match restaurant %q: %w", name, err)
	}

	switch {
	case len(candidates) == 0:
		return 0, "", errVerdict(fmt.Sprintf("no restaurant matches %q", name)), nil
	case len(candidates) == 1 && candidates[0].Score >= s.cfg.MatchConfident:
		note := fmt.Sprintf("auto-matched restaurant %q (score %.2f)", candidates[0].Name, candidates[0].Score)
		return candidates[0].ID, note, nil, nil
	default:
		return 0, "", &itemVerdict{
			status:      domain.ItemReviewNeeded,
			reason:      fmt.Sprintf("%d possible matches for restaurant %q", len(candidates), name),
			suggestions: candidates,
		}, nil
	}
}

// checkReference verifies a referenced row exists inside the batch
// transaction. A missing row is that item's validation failure; a query
// error is fatal.
func (s *Service) checkReference(ctx context.Context, rt domain.ResourceType, id int64) (*itemVerdict, error) {
	exists, err := s.resources.Exists(ctx, registry.MustLookup(rt), id)
	if err != nil {
		return nil, fmt.Errorf("check %s %d: %w", rt, id, err)
	}
	if !exists {
		return errVerdict(fmt.Sprintf("%s %d does not exist", rt, id)), nil
	}
	return nil, nil
}

// linkTags upserts hashtags and attaches them to a restaurant. Blank tags
// are dropped; any repository error here aborts the batch, since the
// parent row is already inserted in the same transaction.
func (s *Service) linkTags(ctx context.Context, restaurantID int64, tags []string) error {
	for _, tag := range tags {
		if domain.NormalizeText(tag) == "" {
			continue
		}
		tagID, err := s.hashtags.GetOrCreate(ctx, tag)
		if err != nil {
			return fmt.Errorf("tag %q: %w", tag, err)
		}
		if err := s.hashtags.LinkRestaurant(ctx, restaurantID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", tag, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newOutcome(item *domain.BulkItem) domain.ItemOutcome {
	return domain.ItemOutcome{
		Input:  domain.ItemInput{Name: item.Name, Type: item.Type, Line: item.Line},
		Status: domain.ItemProcessing,
	}
}

// finish moves an outcome to a terminal state. Illegal transitions (the
// outcome is already terminal) keep the first state: an item's fate is
// decided exactly once.
func finish(out *domain.ItemOutcome, status domain.ItemStatus, reason string) {
	if !out.Status.CanTransition(status) {
		return
	}
	out.Status = status
	out.Reason = reason
}

func errVerdict(reason string) *itemVerdict {
	return &itemVerdict{status: domain.ItemError, reason: reason}
}

func setOpt[T any](payload map[string]any, column string, v *T) {
	if v != nil {
		payload[column] = *v
	}
}

// rowID extracts the generated id from a created row.
func rowID(row map[string]any) (int64, bool) {
	switch v := row["id"].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	}
	return 0, false
}
