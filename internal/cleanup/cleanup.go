package cleanup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"realty-cms/internal/storage"
)

// Service removes orphaned media directories: per-property upload
// directories whose id no longer exists in the store. Orphans appear when
// a delete's media purge fails after the record is gone.
type Service struct {
	store       storage.Store
	uploadsRoot string
}

// NewService creates a cleanup service over the given store and uploads root.
func NewService(store storage.Store, uploadsRoot string) *Service {
	return &Service{store: store, uploadsRoot: uploadsRoot}
}

// Config holds cleanup run options.
type Config struct {
	MaxDeletionCount int  // safety limit per run
	DryRun           bool // log what would be deleted without deleting
}

// DefaultConfig returns default cleanup options.
func DefaultConfig() Config {
	return Config{
		MaxDeletionCount: 1000,
		DryRun:           false,
	}
}

// Result holds the outcome of a cleanup run.
type Result struct {
	TargetCount  int       `json:"target_count"`
	DeletedCount int       `json:"deleted_count"`
	ErrorCount   int       `json:"error_count"`
	DryRun       bool      `json:"dry_run"`
	ExecutedAt   time.Time `json:"executed_at"`
	DeletedDirs  []string  `json:"deleted_dirs"`
	Errors       []string  `json:"errors,omitempty"`
}

// FindOrphanDirs lists upload directories with no matching property record.
func (s *Service) FindOrphanDirs() ([]string, error) {
	entries, err := os.ReadDir(s.uploadsRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read uploads root %s: %w", s.uploadsRoot, err)
	}

	properties, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(properties))
	for _, p := range properties {
		known[p.ID] = true
	}

	var orphans []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// Temp/hidden directories are not property media.
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !known[entry.Name()] {
			orphans = append(orphans, entry.Name())
		}
	}

	log.Printf("Cleanup: found %d orphaned media directories", len(orphans))
	return orphans, nil
}

// Run deletes orphaned media directories according to the config.
func (s *Service) Run(cfg Config) (*Result, error) {
	result := &Result{
		DryRun:     cfg.DryRun,
		ExecutedAt: time.Now(),
	}

	orphans, err := s.FindOrphanDirs()
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(orphans)
	if result.TargetCount == 0 {
		log.Println("Cleanup: no orphaned media directories found")
		return result, nil
	}

	if result.TargetCount > cfg.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d orphans exceed max deletion limit of %d",
			result.TargetCount, cfg.MaxDeletionCount)
	}

	for _, id := range orphans {
		dir := filepath.Join(s.uploadsRoot, id)

		if cfg.DryRun {
			log.Printf("[DRY-RUN] Would delete orphaned media directory %s", dir)
			result.DeletedDirs = append(result.DeletedDirs, id)
			result.DeletedCount++
			continue
		}

		if err := os.RemoveAll(dir); err != nil {
			errMsg := fmt.Sprintf("Failed to delete %s: %v", dir, err)
			log.Printf("ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		log.Printf("Cleanup: deleted orphaned media directory %s", dir)
		result.DeletedDirs = append(result.DeletedDirs, id)
		result.DeletedCount++
	}

	log.Printf("Cleanup: completed: %d/%d deleted, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, cfg.DryRun)

	return result, nil
}
