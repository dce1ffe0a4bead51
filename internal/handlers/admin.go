package handlers

import (
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"realty-cms/internal/cleanup"
	"realty-cms/internal/filter"
	"realty-cms/internal/models"
	"realty-cms/internal/repository"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	repo           *repository.Repository
	cleanupService *cleanup.Service
	uploadsRoot    string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *repository.Repository, cleanupService *cleanup.Service, uploadsRoot string) *AdminHandler {
	return &AdminHandler{
		repo:           repo,
		cleanupService: cleanupService,
		uploadsRoot:    uploadsRoot,
	}
}

// GetStats returns collection and media statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	properties, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats := make(map[string]interface{})

	var buyCount, leaseCount, featuredCount int64
	typeCounts := make(map[string]int64)
	for _, p := range properties {
		switch p.Category {
		case models.CategoryBuy:
			buyCount++
		case models.CategoryLease:
			leaseCount++
		}
		if p.Featured {
			featuredCount++
		}
		if p.PropertyType != "" {
			typeCounts[p.PropertyType]++
		}
	}

	stats["properties"] = map[string]interface{}{
		"total":    len(properties),
		"buy":      buyCount,
		"lease":    leaseCount,
		"featured": featuredCount,
		"by_type":  typeCounts,
	}

	usage, err := h.uploadsDiskUsage()
	if err != nil {
		log.Printf("Failed to measure uploads disk usage: %v", err)
	} else {
		stats["uploads"] = usage
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the most recently updated records
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	properties, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filter.SortByNewest(properties)
	if limit > 0 && limit < len(properties) {
		properties = properties[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// RunCleanup executes orphan-media cleanup
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default: 1000)
		DryRun           bool `json:"dry_run"`            // Dry run mode
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := cleanup.DefaultConfig()
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	log.Printf("Admin: Running media cleanup (max: %d, dry-run: %v)",
		config.MaxDeletionCount, config.DryRun)

	result, err := h.cleanupService.Run(config)
	if err != nil {
		log.Printf("Admin: Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// uploadsDiskUsage walks the uploads tree and totals file sizes per property.
func (h *AdminHandler) uploadsDiskUsage() (map[string]interface{}, error) {
	var totalBytes int64
	var fileCount int64

	if _, err := os.Stat(h.uploadsRoot); os.IsNotExist(err) {
		return map[string]interface{}{"total_bytes": int64(0), "file_count": int64(0)}, nil
	}

	err := filepath.WalkDir(h.uploadsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		totalBytes += info.Size()
		fileCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_bytes": totalBytes,
		"file_count":  fileCount,
	}, nil
}
