package storage

import "realty-cms/internal/models"

// Store persists the full property collection as one ordered list.
//
// There is no locking: two writers racing on SaveAll can silently lose one
// writer's change (last-write-wins at collection granularity). That hazard
// is accepted and documented rather than hidden behind partial fixes.
type Store interface {
	// LoadAll returns the whole collection in insertion order. A missing
	// backing store is provisioned and returned as an empty collection,
	// never as an error.
	LoadAll() ([]models.Property, error)

	// SaveAll replaces the whole collection.
	SaveAll(properties []models.Property) error

	Close() error
}
