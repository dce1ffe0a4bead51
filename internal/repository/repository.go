package repository

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"realty-cms/internal/models"
	"realty-cms/internal/search"
	"realty-cms/internal/storage"
	"realty-cms/internal/uploads"
)

// Repository coordinates CRUD over the property collection, delegating
// file payloads to the upload manager and persistence to the store.
//
// Every operation runs a full read-modify-write cycle against the store
// with no locking. Two concurrent writers can silently lose one writer's
// change; that last-write-wins semantics is documented, not fixed here.
type Repository struct {
	store   storage.Store
	uploads *uploads.Manager
	search  *search.Client // nil when search is disabled
}

// New creates a repository. The search client may be nil.
func New(store storage.Store, um *uploads.Manager, sc *search.Client) *Repository {
	return &Repository{
		store:   store,
		uploads: um,
		search:  sc,
	}
}

// Create assigns an id and timestamps, normalizes the record, stores any
// attached files and appends the record to the collection. Returns the
// new id.
func (r *Repository) Create(p models.Property, files []uploads.KeyedFile) (string, error) {
	properties, err := r.store.LoadAll()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Normalize()

	if len(files) > 0 {
		result := r.uploads.StoreBatch(p.ID, files)
		r.attachStored(&p, result.Stored)
	}

	properties = append(properties, p)
	if err := r.store.SaveAll(properties); err != nil {
		return "", fmt.Errorf("failed to persist new property: %w", err)
	}

	r.syncSearch(&p)
	log.Printf("Repository: created property %s (%s)", p.ID, p.Title)

	return p.ID, nil
}

// Update shallow-merges the patch onto the record with the given id and
// stores any newly attached files, appending their URLs. Returns false
// without error when the id does not exist.
func (r *Repository) Update(id string, patch Patch, files []uploads.KeyedFile) (bool, error) {
	properties, err := r.store.LoadAll()
	if err != nil {
		return false, err
	}

	idx := indexOf(properties, id)
	if idx < 0 {
		return false, nil
	}

	p := &properties[idx]
	patch.ApplyTo(p)

	if len(files) > 0 {
		result := r.uploads.StoreBatch(id, files)
		r.attachStored(p, result.Stored)
	}

	p.UpdatedAt = time.Now().UTC()
	p.Normalize()

	if err := r.store.SaveAll(properties); err != nil {
		return false, fmt.Errorf("failed to persist property %s: %w", id, err)
	}

	r.syncSearch(p)
	log.Printf("Repository: updated property %s", id)

	return true, nil
}

// Delete removes the record and its entire media directory. Returns false
// without error (and without side effects) when the id does not exist.
func (r *Repository) Delete(id string) (bool, error) {
	properties, err := r.store.LoadAll()
	if err != nil {
		return false, err
	}

	idx := indexOf(properties, id)
	if idx < 0 {
		return false, nil
	}

	properties = append(properties[:idx], properties[idx+1:]...)
	if err := r.store.SaveAll(properties); err != nil {
		return false, fmt.Errorf("failed to persist deletion of %s: %w", id, err)
	}

	if err := r.uploads.RemoveAll(id); err != nil {
		// The record is already gone; surface the media failure to the
		// caller alongside the successful delete.
		return true, err
	}

	if r.search != nil {
		if err := r.search.RemoveProperty(id); err != nil {
			log.Printf("Repository: failed to remove property %s from search index: %v", id, err)
		}
	}

	log.Printf("Repository: deleted property %s", id)
	return true, nil
}

// GetByID returns the record or nil when absent. Absence is a legitimate
// negative result, never an error.
func (r *Repository) GetByID(id string) (*models.Property, error) {
	properties, err := r.store.LoadAll()
	if err != nil {
		return nil, err
	}

	idx := indexOf(properties, id)
	if idx < 0 {
		return nil, nil
	}

	p := properties[idx]
	return &p, nil
}

// GetAll returns the unfiltered collection in insertion order.
func (r *Repository) GetAll() ([]models.Property, error) {
	return r.store.LoadAll()
}

// attachStored appends upload URLs to the record, routing by form key.
func (r *Repository) attachStored(p *models.Property, stored []uploads.StoredFile) {
	for _, sf := range stored {
		if strings.HasPrefix(sf.Key, "video") {
			p.VideoURLs = append(p.VideoURLs, sf.URL)
		} else {
			p.Images = append(p.Images, sf.URL)
		}
	}
	p.SyncVideoFields()
}

func (r *Repository) syncSearch(p *models.Property) {
	if r.search == nil {
		return
	}
	if err := r.search.IndexProperty(p); err != nil {
		log.Printf("Repository: failed to index property %s: %v", p.ID, err)
	}
}

func indexOf(properties []models.Property, id string) int {
	for i := range properties {
		if properties[i].ID == id {
			return i
		}
	}
	return -1
}
