package mockdata

import (
	"sort"
	"strings"

	"github.com/Adda-Baaj/geopulse/internal/domain"
)

// FilterByTag keeps the items tagged tag. When fewer than min match, items
// tagged padTag that are not already present are appended. The result is
// sorted newest first and never aliases the input slice.
func FilterByTag(items []domain.PulseItem, tag, padTag string, min int) []domain.PulseItem {
	out := make([]domain.PulseItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.HasTag(tag) {
			out = append(out, it)
			seen[it.ID] = struct{}{}
		}
	}

	if len(out) < min && padTag != "" {
		for _, it := range items {
			if _, ok := seen[it.ID]; ok {
				continue
			}
			if it.HasTag(padTag) {
				out = append(out, it)
				seen[it.ID] = struct{}{}
			}
		}
	}

	SortNewestFirst(out)
	return out
}

// ForRegion applies the region filter of a pulse request to mock items.
func ForRegion(items []domain.PulseItem, region domain.Region) []domain.PulseItem {
	if region == "" || region == domain.RegionGlobal {
		return clone(items)
	}
	return FilterByTag(items, string(region), GlobalTag, MinItems)
}

// ForCategory applies a headline category filter to mock items.
func ForCategory(items []domain.PulseItem, category string) []domain.PulseItem {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == GeneralCategory {
		return clone(items)
	}
	return FilterByTag(items, category, GeneralCategory, MinItems)
}

// SortNewestFirst orders items by PublishedAt descending, keeping input order on ties.
func SortNewestFirst(items []domain.PulseItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedTime().After(items[j].PublishedTime())
	})
}

func clone(items []domain.PulseItem) []domain.PulseItem {
	out := make([]domain.PulseItem, len(items))
	copy(out, items)
	SortNewestFirst(out)
	return out
}
