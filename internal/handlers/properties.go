package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"realty-cms/internal/filter"
	"realty-cms/internal/models"
	"realty-cms/internal/repository"
	"realty-cms/internal/search"
	"realty-cms/internal/uploads"
)

// PropertyHandler exposes the property CRUD and filter operations.
type PropertyHandler struct {
	repo   *repository.Repository
	search *search.Client // nil when search is disabled
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(repo *repository.Repository, sc *search.Client) *PropertyHandler {
	return &PropertyHandler{repo: repo, search: sc}
}

// List returns the filtered collection. All criteria are optional; the
// sort parameter ("featured" or "newest") is applied after filtering.
func (h *PropertyHandler) List(c *gin.Context) {
	criteria := filter.Criteria{
		Category:     c.Query("category"),
		Location:     c.Query("location"),
		PropertyType: c.Query("propertyType"),
		BHKOption:    c.Query("bhkOption"),
		PriceMin:     c.Query("priceMin"),
		PriceMax:     c.Query("priceMax"),
	}

	properties, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	matched := filter.Apply(properties, criteria)

	switch c.Query("sort") {
	case "featured":
		filter.SortByFeaturedOrder(matched)
	case "newest":
		filter.SortByNewest(matched)
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": matched,
		"count":      len(matched),
	})
}

// GetFeatured returns featured records in homepage display order.
func (h *PropertyHandler) GetFeatured(c *gin.Context) {
	properties, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	featured := []models.Property{}
	for _, p := range properties {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	filter.SortByFeaturedOrder(featured)

	c.JSON(http.StatusOK, gin.H{
		"properties": featured,
		"count":      len(featured),
	})
}

// Get returns a single record or 404.
func (h *PropertyHandler) Get(c *gin.Context) {
	id := c.Param("id")

	property, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}

// Create builds a record from the multipart "data" part plus any keyed
// file parts and returns the new id.
func (h *PropertyHandler) Create(c *gin.Context) {
	var property models.Property
	if err := bindDataPart(c, &property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if property.Category != "" && !property.Category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be 'buy' or 'lease'"})
		return
	}

	files, err := collectKeyedFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.repo.Create(property, files)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, uploads.ErrStorageUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update applies a partial record plus any newly attached files.
func (h *PropertyHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch repository.Patch
	if err := bindDataPart(c, &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if patch.Category != nil && !patch.Category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be 'buy' or 'lease'"})
		return
	}

	files, err := collectKeyedFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.repo.Update(id, patch, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"updated": false, "error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Delete removes a record and purges its media directory.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.repo.Delete(id)
	if err != nil {
		if deleted {
			// Record is gone but the media purge failed; report success
			// and leave the directory for the cleanup job.
			log.Printf("Handlers: media purge failed for property %s: %v", id, err)
			c.JSON(http.StatusOK, gin.H{"deleted": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"deleted": false, "error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Search runs a free-text query against the search index.
func (h *PropertyHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	query := c.Query("q")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	properties, err := h.search.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// bindDataPart decodes the record payload. Multipart requests carry it in
// the "data" form value; plain requests carry it in the body.
func bindDataPart(c *gin.Context, dst interface{}) error {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		raw := c.PostForm("data")
		if raw == "" {
			return errors.New("missing 'data' form field")
		}
		return json.Unmarshal([]byte(raw), dst)
	}
	return c.ShouldBindJSON(dst)
}

// collectKeyedFiles gathers the "image-N" and "video-N" multipart parts in
// ordinal order. Non-multipart requests yield no files.
func collectKeyedFiles(c *gin.Context) ([]uploads.KeyedFile, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(form.File))
	for key := range form.File {
		if strings.HasPrefix(key, "image-") || strings.HasPrefix(key, "video-") {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, ni := splitFileKey(keys[i])
		pj, nj := splitFileKey(keys[j])
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})

	var files []uploads.KeyedFile
	for _, key := range keys {
		for _, header := range form.File[key] {
			f, err := readFileHeader(header)
			if err != nil {
				return nil, err
			}
			files = append(files, uploads.KeyedFile{Key: key, File: f})
		}
	}

	return files, nil
}

func splitFileKey(key string) (prefix string, ordinal int) {
	prefix, num, _ := strings.Cut(key, "-")
	ordinal, _ = strconv.Atoi(num)
	return prefix, ordinal
}

func readFileHeader(header *multipart.FileHeader) (uploads.File, error) {
	src, err := header.Open()
	if err != nil {
		return uploads.File{}, err
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return uploads.File{}, err
	}

	return uploads.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
