package bulk

import (
	"strconv"

	"github.com/tastemap/tastemap-backend/internal/domain"
)

// scopeKeys extracts the scoping part of an item's duplicate-detection key,
// per resource type. Types absent from the map have no scope: their names
// are globally unique within a batch.
var scopeKeys = map[domain.ResourceType]func(*domain.BulkItem) string{
	domain.ResourceRestaurants:   func(it *domain.BulkItem) string { return refKey(it.CityID, nil) },
	domain.ResourceNeighborhoods: func(it *domain.BulkItem) string { return refKey(it.CityID, nil) },
	domain.ResourceDishes:        func(it *domain.BulkItem) string { return refKey(it.RestaurantID, it.RestaurantName) },
}

func refKey(id *int64, name *string) string {
	if id != nil {
		return strconv.FormatInt(*id, 10)
	}
	if name != nil {
		return domain.NormalizeText(*name)
	}
	return ""
}

// dedupeKey builds the composite duplicate-detection key for one item:
// type, normalized name, scoping reference. Returns false for items that
// cannot carry a key (blank name, unknown type); those fail validation on
// their own and must not shadow later items.
func dedupeKey(item *domain.BulkItem) (string, bool) {
	name := domain.NormalizeText(item.Name)
	if name == "" || !item.Type.IsValid() {
		return "", false
	}

	scope := ""
	if fn, ok := scopeKeys[item.Type]; ok {
		scope = fn(item)
	}

	return item.Type.String() + "|" + name + "|" + scope, true
}

// flagDuplicates pre-scans the batch and returns, for each item, the line
// number of the earlier item it duplicates (0 when unique).
func flagDuplicates(items []domain.BulkItem) []int {
	firstLine := make(map[string]int, len(items))
	dup := make([]int, len(items))

	for i := range items {
		key, ok := dedupeKey(&items[i])
		if !ok {
			continue
		}
		if line, seen := firstLine[key]; seen {
			dup[i] = line
		} else {
			firstLine[key] = items[i].Line
		}
	}

	return dup
}
