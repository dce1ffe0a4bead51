package filter

import (
	"sort"
	"strings"

	"realty-cms/internal/models"
)

// Criteria is a sparse filter query. Every field is optional; an empty
// field imposes no constraint. Present criteria combine with AND.
type Criteria struct {
	Category     string
	Location     string
	PropertyType string
	BHKOption    string
	PriceMin     string
	PriceMax     string
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c.Category == "" && c.Location == "" && c.PropertyType == "" &&
		c.BHKOption == "" && c.PriceMin == "" && c.PriceMax == ""
}

// Apply evaluates every record against the criteria and returns the
// matching subset in its original relative order. Sorting is the caller's
// concern (see SortByFeaturedOrder / SortByNewest).
func Apply(properties []models.Property, c Criteria) []models.Property {
	matched := []models.Property{}
	for _, p := range properties {
		if matches(p, c) {
			matched = append(matched, p)
		}
	}
	return matched
}

func matches(p models.Property, c Criteria) bool {
	if c.Category != "" && string(p.Category) != c.Category {
		return false
	}

	if c.Location != "" && !matchesLocation(p.Location, c.Location) {
		return false
	}

	if c.PropertyType != "" && !strings.EqualFold(p.PropertyType, c.PropertyType) {
		return false
	}

	if c.BHKOption != "" {
		bedrooms := strings.TrimSpace(p.BedroomCount())
		if bedrooms == "" || bedrooms != strings.TrimSpace(c.BHKOption) {
			return false
		}
	}

	if c.PriceMin != "" || c.PriceMax != "" {
		// A record whose price cannot be parsed never matches a bound.
		price, ok := ParsePrice(p.Price)
		if !ok {
			return false
		}
		if c.PriceMin != "" {
			min, minOK := ParsePrice(c.PriceMin)
			if minOK && price < min {
				return false
			}
		}
		if c.PriceMax != "" {
			max, maxOK := ParsePrice(c.PriceMax)
			if maxOK && price > max {
				return false
			}
		}
	}

	return true
}

// matchesLocation compares the filter value against each comma-separated
// segment of the record's location. A filter value naming a known region
// also matches records located in any of that region's sub-regions.
func matchesLocation(recordLocation, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	segments := splitLocation(recordLocation)

	for _, seg := range segments {
		if seg == q {
			return true
		}
	}

	if subRegions, ok := regionAliases[q]; ok {
		for _, seg := range segments {
			for _, sub := range subRegions {
				if seg == sub {
					return true
				}
			}
		}
	}

	return false
}

func splitLocation(location string) []string {
	parts := strings.Split(location, ",")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		seg := strings.ToLower(strings.TrimSpace(part))
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// SortByFeaturedOrder stably sorts by ascending featured order, so records
// sharing an order value keep their insertion order.
func SortByFeaturedOrder(properties []models.Property) {
	sort.SliceStable(properties, func(i, j int) bool {
		return properties[i].FeaturedOrder < properties[j].FeaturedOrder
	})
}

// SortByNewest stably sorts by descending creation time.
func SortByNewest(properties []models.Property) {
	sort.SliceStable(properties, func(i, j int) bool {
		return properties[i].CreatedAt.After(properties[j].CreatedAt)
	})
}
