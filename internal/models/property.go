package models

import "time"

// Category classifies a listing as for-sale or for-lease.
type Category string

const (
	CategoryBuy   Category = "buy"
	CategoryLease Category = "lease"
)

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	return c == CategoryBuy || c == CategoryLease
}

// Specs holds per-listing measurements. All fields are free-form strings
// entered by operators; fields that make no sense for a listing's type
// (e.g. bedrooms on a plot) stay empty.
type Specs struct {
	Bedrooms       string `json:"bedrooms"`
	Bathrooms      string `json:"bathrooms"`
	Area           string `json:"area"`
	LandSize       string `json:"landSize"`
	NaliSize       string `json:"naliSize"`
	PlotSize       string `json:"plotSize"`
	PlotDimensions string `json:"plotDimensions"`
	PlotType       string `json:"plotType"`
}

// Property is the canonical listing record.
type Property struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        string   `json:"price"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	PropertyType string   `json:"propertyType"`

	// Legacy top-level bedroom count; superseded by Specs.Bedrooms but
	// still read as a fallback by the filter layer.
	Bedrooms string `json:"bedrooms,omitempty"`

	Specs     Specs    `json:"specs"`
	Features  []string `json:"features"`
	Amenities []string `json:"amenities"`

	// Images is ordered; the first entry is the cover image.
	Images []string `json:"images"`

	// VideoURLs is the source of truth. VideoURL mirrors VideoURLs[0]
	// for older clients and must never diverge from it.
	VideoURL  string   `json:"videoUrl,omitempty"`
	VideoURLs []string `json:"videoUrls"`

	Featured      bool `json:"featured"`
	FeaturedOrder int  `json:"featuredOrder"`

	// Extra carries attributes the admin UI sends that the model does
	// not know about yet.
	Extra map[string]interface{} `json:"extra,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SyncVideoFields re-derives VideoURL from VideoURLs.
func (p *Property) SyncVideoFields() {
	if len(p.VideoURLs) > 0 {
		p.VideoURL = p.VideoURLs[0]
	} else {
		p.VideoURL = ""
	}
}

// Normalize fills nil collection fields with empty values so the persisted
// shape is stable for display code, and restores the video mirror.
func (p *Property) Normalize() {
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.VideoURLs == nil {
		p.VideoURLs = []string{}
	}
	p.SyncVideoFields()
}

// BedroomCount returns the effective bedroom value, preferring Specs.
func (p *Property) BedroomCount() string {
	if p.Specs.Bedrooms != "" {
		return p.Specs.Bedrooms
	}
	return p.Bedrooms
}
