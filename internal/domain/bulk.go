package domain

// BulkItem is one input row of a bulk operation. It exists only for the
// duration of the batch and is never persisted itself.
type BulkItem struct {
	Type ResourceType `json:"type"`
	Name string       `json:"name"`
	// Line is the 1-based position in the submitted batch, used for error
	// reporting. Filled in by the processor, not the caller.
	Line int `json:"line"`

	// Type-specific references. An entity may be referenced by id or, for
	// dishes, by restaurant name to be resolved through the matcher.
	CityID         *int64  `json:"city_id,omitempty"`
	NeighborhoodID *int64  `json:"neighborhood_id,omitempty"`
	RestaurantID   *int64  `json:"restaurant_id,omitempty"`
	RestaurantName *string `json:"restaurant_name,omitempty"`
	UserID         *int64  `json:"user_id,omitempty"`

	// Optional attribute fields.
	Address     *string  `json:"address,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ItemInput echoes the identifying part of a BulkItem back to the caller.
type ItemInput struct {
	Name string       `json:"name"`
	Type ResourceType `json:"type"`
	Line int          `json:"line"`
}

// ItemOutcome is the per-item result of a bulk operation.
type ItemOutcome struct {
	Input       ItemInput        `json:"input"`
	Status      ItemStatus       `json:"status"`
	Reason      string           `json:"reason,omitempty"`
	ID          *int64           `json:"id,omitempty"`
	Suggestions []MatchCandidate `json:"suggestions,omitempty"`
}

// BulkResult is the per-batch output. Invariant:
// Processed == Added + Skipped + Errored, and len(Details) equals the
// number of submitted items, in input order.
type BulkResult struct {
	Processed int           `json:"processedCount"`
	Added     int           `json:"addedCount"`
	Skipped   int           `json:"skippedCount"`
	Errored   int           `json:"errorCount"`
	Details   []ItemOutcome `json:"details"`
}
