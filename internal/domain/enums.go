package domain

import "strings"

// ResourceType is one of the fixed entity kinds administered by the engine.
// The set is closed: new types require a registry entry and a migration.
type ResourceType string

const (
	ResourceRestaurants   ResourceType = "restaurants"
	ResourceDishes        ResourceType = "dishes"
	ResourceLists         ResourceType = "lists"
	ResourceUsers         ResourceType = "users"
	ResourceHashtags      ResourceType = "hashtags"
	ResourceCities        ResourceType = "cities"
	ResourceNeighborhoods ResourceType = "neighborhoods"
	ResourceSubmissions   ResourceType = "submissions"
)

func (t ResourceType) String() string { return string(t) }

func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceRestaurants, ResourceDishes, ResourceLists, ResourceUsers,
		ResourceHashtags, ResourceCities, ResourceNeighborhoods, ResourceSubmissions:
		return true
	}
	return false
}

// ParseResourceType resolves a case-insensitive type name supplied by the
// HTTP layer. Returns ErrUnsupportedType for anything outside the fixed set.
func ParseResourceType(name string) (ResourceType, error) {
	t := ResourceType(strings.ToLower(strings.TrimSpace(name)))
	if !t.IsValid() {
		return "", ErrUnsupportedType
	}
	return t, nil
}

// ItemStatus is the lifecycle state of one bulk item. Every item starts as
// processing; all other states are terminal.
type ItemStatus string

const (
	ItemProcessing   ItemStatus = "processing"
	ItemAdded        ItemStatus = "added"
	ItemSkipped      ItemStatus = "skipped"
	ItemReviewNeeded ItemStatus = "review_needed"
	ItemError        ItemStatus = "error"
)

func (s ItemStatus) String() string { return string(s) }

// Terminal reports whether the status ends an item's lifecycle.
func (s ItemStatus) Terminal() bool { return s != ItemProcessing }

// CanTransition reports whether moving from s to next is a legal step.
// The only legal transitions are from processing to a terminal state.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	return s == ItemProcessing && next.Terminal()
}

// ChangeType classifies a data-quality change proposal.
type ChangeType string

const (
	// ChangeNormalize composes whitespace trimming and title-casing on a
	// text field into a single mutation.
	ChangeNormalize ChangeType = "normalize"
	// ChangeTruncate shortens a value that exceeds the field's max length.
	ChangeTruncate ChangeType = "truncate"
	// ChangeFormatPhone rewrites a phone number to (NNN) NNN-NNNN.
	ChangeFormatPhone ChangeType = "format_phone"
	// ChangeFormatURL prefixes a bare website value with https://.
	ChangeFormatURL ChangeType = "format_url"
	// ChangeMissingReference flags a row whose cross-reference cannot be
	// displayed (e.g. no city assigned). Display-only.
	ChangeMissingReference ChangeType = "missing_reference"
	// ChangeHideColumn proposes hiding a sensitive column from admin
	// listings. Display-only and deduplicated across rows.
	ChangeHideColumn ChangeType = "hide_column"
)

func (c ChangeType) String() string { return string(c) }

func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeNormalize, ChangeTruncate, ChangeFormatPhone, ChangeFormatURL,
		ChangeMissingReference, ChangeHideColumn:
		return true
	}
	return false
}
