package repository

import "realty-cms/internal/models"

// Patch is a partial property update. Nil fields leave the record's value
// untouched; non-nil fields overwrite it, including whole-array replacement
// for the list fields. It decodes directly from the admin form's JSON, so
// omitted keys naturally stay nil.
type Patch struct {
	Title         *string                `json:"title"`
	Price         *string                `json:"price"`
	Location      *string                `json:"location"`
	Description   *string                `json:"description"`
	Category      *models.Category       `json:"category"`
	PropertyType  *string                `json:"propertyType"`
	Bedrooms      *string                `json:"bedrooms"`
	Specs         *models.Specs          `json:"specs"`
	Features      *[]string              `json:"features"`
	Amenities     *[]string              `json:"amenities"`
	Images        *[]string              `json:"images"`
	VideoURLs     *[]string              `json:"videoUrls"`
	Featured      *bool                  `json:"featured"`
	FeaturedOrder *int                   `json:"featuredOrder"`
	Extra         map[string]interface{} `json:"extra"`
}

// ApplyTo merges the patch onto the record. When VideoURLs is supplied the
// legacy VideoURL mirror is re-derived from it; a caller cannot set the
// mirror out of step with the list.
func (patch Patch) ApplyTo(p *models.Property) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.PropertyType != nil {
		p.PropertyType = *patch.PropertyType
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Specs != nil {
		p.Specs = *patch.Specs
	}
	if patch.Features != nil {
		p.Features = *patch.Features
	}
	if patch.Amenities != nil {
		p.Amenities = *patch.Amenities
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.VideoURLs != nil {
		p.VideoURLs = *patch.VideoURLs
		p.SyncVideoFields()
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.FeaturedOrder != nil {
		p.FeaturedOrder = *patch.FeaturedOrder
	}
	if patch.Extra != nil {
		if p.Extra == nil {
			p.Extra = map[string]interface{}{}
		}
		for k, v := range patch.Extra {
			p.Extra[k] = v
		}
	}
}
