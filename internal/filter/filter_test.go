package filter

import (
	"testing"

	"realty-cms/internal/models"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.2 Cr", 12000000, true},
		{"1.2cr", 12000000, true},
		{"2 Crore", 20000000, true},
		{"45 L", 4500000, true},
		{"45 Lakh", 4500000, true},
		{"₹ 1,25,00,000", 12500000, true},
		{"₹ 95,00,000", 9500000, true},
		{"9500000", 9500000, true},
		{"Price on request", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParsePrice(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParsePrice(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParsePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func sampleProperties() []models.Property {
	return []models.Property{
		{
			ID:           "p1",
			Title:        "Lake view villa",
			Price:        "₹ 95,00,000",
			Location:     "Bhimtal, Uttarakhand",
			Category:     models.CategoryBuy,
			PropertyType: "Villa",
			Specs:        models.Specs{Bedrooms: "3"},
		},
		{
			ID:           "p2",
			Title:        "Hillside plot",
			Price:        "45 L",
			Location:     "Mukteshwar, Uttarakhand",
			Category:     models.CategoryBuy,
			PropertyType: "Plot",
		},
		{
			ID:           "p3",
			Title:        "City flat",
			Price:        "1.2 Cr",
			Location:     "Haldwani",
			Category:     models.CategoryLease,
			PropertyType: "Flat",
			Bedrooms:     "2",
		},
		{
			ID:           "p4",
			Title:        "Unpriced cottage",
			Price:        "Price on request",
			Location:     "Nainital, Uttarakhand",
			Category:     models.CategoryBuy,
			PropertyType: "Cottage",
		},
	}
}

func idsOf(properties []models.Property) []string {
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestApplyEmptyCriteriaReturnsEverything(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{})
	if len(got) != 4 {
		t.Fatalf("expected 4 results, got %d: %v", len(got), idsOf(got))
	}
	// Relative order must be preserved
	for i, want := range []string{"p1", "p2", "p3", "p4"} {
		if got[i].ID != want {
			t.Fatalf("result %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestApplyCategory(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{Category: "lease"})
	if len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("expected [p3], got %v", idsOf(got))
	}
}

func TestApplyPropertyTypeCaseInsensitive(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{PropertyType: "villa"})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected [p1], got %v", idsOf(got))
	}
}

func TestApplyBHKOption(t *testing.T) {
	// Specs.Bedrooms match
	got := Apply(sampleProperties(), Criteria{BHKOption: "3"})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected [p1], got %v", idsOf(got))
	}

	// Legacy top-level bedrooms fallback
	got = Apply(sampleProperties(), Criteria{BHKOption: "2"})
	if len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("expected [p3], got %v", idsOf(got))
	}

	// Records with no bedroom value never match a bedroom criterion
	got = Apply(sampleProperties(), Criteria{BHKOption: "4"})
	if len(got) != 0 {
		t.Fatalf("expected no results, got %v", idsOf(got))
	}
}

func TestApplyLocationSegmentMatch(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{Location: "bhimtal"})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected [p1], got %v", idsOf(got))
	}
}

func TestApplyLocationRegionAlias(t *testing.T) {
	// "Uttarakhand" matches p1/p2/p4 via their explicit segment and p3 via
	// the haldwani sub-region alias.
	got := Apply(sampleProperties(), Criteria{Location: "Uttarakhand"})
	if len(got) != 4 {
		t.Fatalf("expected all 4 via region alias, got %v", idsOf(got))
	}
}

func TestApplyPriceBounds(t *testing.T) {
	// Inclusive bounds
	got := Apply(sampleProperties(), Criteria{PriceMin: "4500000", PriceMax: "9500000"})
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("expected [p1 p2], got %v", idsOf(got))
	}

	// Bound values may themselves be unit-marked strings
	got = Apply(sampleProperties(), Criteria{PriceMin: "1 Cr"})
	if len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("expected [p3], got %v", idsOf(got))
	}
}

func TestApplyUnparsablePriceExcludedFromBounds(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{PriceMax: "10 Cr"})
	for _, p := range got {
		if p.ID == "p4" {
			t.Fatal("record with unparsable price must not match a price bound")
		}
	}
}

func TestApplyMonotonicity(t *testing.T) {
	properties := sampleProperties()

	base := Apply(properties, Criteria{Location: "Uttarakhand"})
	narrowed := Apply(properties, Criteria{Location: "Uttarakhand", Category: "buy"})
	if len(narrowed) > len(base) {
		t.Fatalf("adding a criterion grew the result set: %d -> %d", len(base), len(narrowed))
	}

	further := Apply(properties, Criteria{Location: "Uttarakhand", Category: "buy", PriceMax: "50 L"})
	if len(further) > len(narrowed) {
		t.Fatalf("adding a criterion grew the result set: %d -> %d", len(narrowed), len(further))
	}
}

func TestApplyScenario(t *testing.T) {
	properties := []models.Property{{
		ID:       "s1",
		Price:    "₹ 95,00,000",
		Category: models.CategoryBuy,
		Location: "Bhimtal, Uttarakhand",
	}}

	got := Apply(properties, Criteria{Category: "buy", PriceMax: "10000000"})
	if len(got) != 1 {
		t.Fatalf("expected inclusion under priceMax, got %v", idsOf(got))
	}

	got = Apply(properties, Criteria{PriceMin: "10000000"})
	if len(got) != 0 {
		t.Fatalf("expected exclusion under priceMin, got %v", idsOf(got))
	}

	got = Apply(properties, Criteria{Location: "Uttarakhand"})
	if len(got) != 1 {
		t.Fatalf("expected inclusion via region alias, got %v", idsOf(got))
	}
}

func TestSortByFeaturedOrderIsStable(t *testing.T) {
	properties := []models.Property{
		{ID: "a", FeaturedOrder: 2},
		{ID: "b", FeaturedOrder: 1},
		{ID: "c", FeaturedOrder: 2},
	}

	SortByFeaturedOrder(properties)

	want := []string{"b", "a", "c"}
	for i, id := range want {
		if properties[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, properties[i].ID, id)
		}
	}
}
