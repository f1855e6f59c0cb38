package registry

import (
	"github.com/Masterminds/squirrel"

	"github.com/tastemap/tastemap-backend/internal/domain"
)

// schemas is the immutable resource catalog, keyed by resource type and
// built once at package init.
var schemas = map[domain.ResourceType]*Schema{
	domain.ResourceCities: {
		Type:          domain.ResourceCities,
		Table:         "cities",
		IDColumn:      "id",
		NameColumn:    "name",
		CreateColumns: []string{"name", "state"},
		UpdateColumns: []string{"name", "state"},
		Rules: map[string]FieldRule{
			"name": {Trim: true, TitleCase: true},
		},
		BulkEnabled: true,
		Format:      passthrough,
	},

	domain.ResourceNeighborhoods: {
		Type:          domain.ResourceNeighborhoods,
		Table:         "neighborhoods",
		IDColumn:      "id",
		NameColumn:    "name",
		CreateColumns: []string{"name", "city_id"},
		UpdateColumns: []string{"name", "city_id"},
		ScopeColumn:   "city_id",
		Rules: map[string]FieldRule{
			"name": {Trim: true, TitleCase: true},
		},
		BulkEnabled: true,
		Format:      passthrough,
	},

	domain.ResourceUsers: {
		Type:          domain.ResourceUsers,
		Table:         "users",
		IDColumn:      "id",
		NameColumn:    "username",
		CreateColumns: []string{"username", "email", "display_name", "role"},
		UpdateColumns: []string{"email", "display_name", "role"},
		Rules: map[string]FieldRule{
			"display_name": {Trim: true},
		},
		SensitiveColumns: []string{"email"},
		Format:           formatUser,
	},

	domain.ResourceRestaurants: {
		Type:          domain.ResourceRestaurants,
		Table:         "restaurants",
		IDColumn:      "id",
		NameColumn:    "name",
		AddressColumn: "address",
		CreateColumns: []string{
			"name", "city_id", "neighborhood_id", "address",
			"phone", "website", "description",
		},
		UpdateColumns: []string{
			"name", "city_id", "neighborhood_id", "address",
			"phone", "website", "description",
		},
		ScopeColumn: "city_id",
		Rules: map[string]FieldRule{
			"name":        {Trim: true, TitleCase: true},
			"address":     {Trim: true},
			"phone":       {Phone: true},
			"website":     {URLPrefix: true},
			"description": {Trim: true, MaxLen: 500},
		},
		BulkEnabled: true,
		Format:      passthrough,
	},

	domain.ResourceDishes: {
		Type:          domain.ResourceDishes,
		Table:         "dishes",
		IDColumn:      "id",
		NameColumn:    "name",
		CreateColumns: []string{"name", "restaurant_id", "description", "price"},
		UpdateColumns: []string{"name", "description", "price"},
		ScopeColumn:   "restaurant_id",
		Rules: map[string]FieldRule{
			"name":        {Trim: true, TitleCase: true},
			"description": {Trim: true, MaxLen: 500},
		},
		BulkEnabled: true,
		Format:      passthrough,
	},

	domain.ResourceLists: {
		Type:          domain.ResourceLists,
		Table:         "lists",
		IDColumn:      "id",
		NameColumn:    "name",
		CreateColumns: []string{"name", "user_id", "description", "is_public"},
		UpdateColumns: []string{"name", "description", "is_public"},
		Rules: map[string]FieldRule{
			"name":        {Trim: true},
			"description": {Trim: true, MaxLen: 500},
		},
		Format: passthrough,
	},

	domain.ResourceHashtags: {
		Type:          domain.ResourceHashtags,
		Table:         "hashtags",
		IDColumn:      "id",
		NameColumn:    "name",
		CreateColumns: []string{"name"},
		UpdateColumns: []string{"name"},
		Rules: map[string]FieldRule{
			"name": {Trim: true},
		},
		BulkEnabled: true,
		Format:      passthrough,
	},

	domain.ResourceSubmissions: {
		Type:          domain.ResourceSubmissions,
		Table:         "submissions",
		IDColumn:      "id",
		NameColumn:    "name",
		CreateColumns: []string{"name", "user_id", "city_id", "notes", "status"},
		UpdateColumns: []string{"name", "notes", "status"},
		StatusColumn:  "status",
		ExtraFilter:   squirrel.Eq{"status": "pending"},
		Rules: map[string]FieldRule{
			"name":  {Trim: true, TitleCase: true},
			"notes": {Trim: true, MaxLen: 1000},
		},
		Format: passthrough,
	},
}
