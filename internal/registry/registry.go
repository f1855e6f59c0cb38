// Package registry holds the static per-resource-type schema catalog: table
// names, column whitelists, normalization rules and formatters. It is the
// only source of SQL identifiers in the codebase: handler input selects a
// schema, never a column name.
package registry

import (
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/tastemap/tastemap-backend/internal/domain"
)

// FieldRule describes the normalization applied to one text field during
// data-quality analysis. Trim and TitleCase compose into a single proposed
// value; MaxLen, Phone and URLPrefix each stand alone.
type FieldRule struct {
	Trim      bool
	TitleCase bool
	MaxLen    int
	Phone     bool
	URLPrefix bool
}

// Formatter is a pure transform from the internal row shape to the public
// API shape. It is applied once per row on reads, never during persistence.
type Formatter func(row map[string]any) map[string]any

// Schema describes one resource type. All fields are fixed at startup.
type Schema struct {
	Type       domain.ResourceType
	Table      string
	IDColumn   string
	NameColumn string

	// AddressColumn, when set, is included in fuzzy-match candidates to
	// help a caller tell similarly named rows apart.
	AddressColumn string

	// CreateColumns and UpdateColumns are the closed whitelists for insert
	// and update payloads. Caller fields outside these lists are dropped.
	CreateColumns []string
	UpdateColumns []string

	// ScopeColumn narrows fuzzy matching and duplicate keys (city for
	// restaurants and neighborhoods, restaurant for dishes).
	ScopeColumn string

	// StatusColumn, when set, enables the reject workflow's state
	// transition (submissions).
	StatusColumn string

	// ExtraFilter restricts which rows analysis and listings see.
	ExtraFilter squirrel.Sqlizer

	// Rules maps field name to the normalization rule the cleanup engine
	// applies.
	Rules map[string]FieldRule

	// SensitiveColumns are proposed for hiding in admin listings.
	SensitiveColumns []string

	// BulkEnabled marks types accepted by the bulk processor.
	BulkEnabled bool

	Format Formatter
}

// FilterCreate returns the subset of payload whose keys are creatable
// columns, in schema column order.
func (s *Schema) FilterCreate(payload map[string]any) map[string]any {
	return filterColumns(payload, s.CreateColumns)
}

// FilterUpdate returns the subset of payload whose keys are updatable
// columns.
func (s *Schema) FilterUpdate(payload map[string]any) map[string]any {
	return filterColumns(payload, s.UpdateColumns)
}

func filterColumns(payload map[string]any, allowed []string) map[string]any {
	out := make(map[string]any, len(payload))
	for _, col := range allowed {
		if v, ok := payload[col]; ok {
			out[col] = v
		}
	}
	return out
}

// Lookup resolves a case-insensitive resource type name to its schema.
// Unknown names fail with domain.ErrUnsupportedType.
func Lookup(name string) (*Schema, error) {
	rt, err := domain.ParseResourceType(name)
	if err != nil {
		return nil, err
	}
	return schemas[rt], nil
}

// All returns every registered schema, ordered by type name.
func All() []*Schema {
	out := make([]*Schema, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// MustLookup returns the schema for a known-valid resource type. It panics
// on an invalid type, which indicates a programming error, not bad input.
func MustLookup(rt domain.ResourceType) *Schema {
	s, ok := schemas[rt]
	if !ok {
		panic("registry: no schema for resource type " + rt.String())
	}
	return s
}
