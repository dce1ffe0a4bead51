package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"realty-cms/internal/models"
)

// FileStore keeps the collection as a single JSON array in a flat file.
// It is the default store and needs no external services.
type FileStore struct {
	path string
}

// NewFileStore creates a file store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadAll reads the backing file. If the file or its parent directory does
// not exist yet, both are created with an empty collection first.
func (fs *FileStore) LoadAll() ([]models.Property, error) {
	if err := fs.ensureFile(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", fs.path, err)
	}

	if len(data) == 0 {
		return []models.Property{}, nil
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", fs.path, err)
	}
	if properties == nil {
		properties = []models.Property{}
	}

	return properties, nil
}

// SaveAll serializes the whole collection and replaces the backing file.
// The write goes to a temp file in the same directory followed by a rename
// so a crash mid-write never leaves a half-written store behind.
func (fs *FileStore) SaveAll(properties []models.Property) error {
	if err := fs.ensureDir(); err != nil {
		return err
	}

	if properties == nil {
		properties = []models.Property{}
	}

	data, err := json.MarshalIndent(properties, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".properties-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp store file: %w", err)
	}

	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace store file %s: %w", fs.path, err)
	}

	return nil
}

func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) ensureDir() error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return nil
}

func (fs *FileStore) ensureFile() error {
	if err := fs.ensureDir(); err != nil {
		return err
	}
	if _, err := os.Stat(fs.path); os.IsNotExist(err) {
		if err := os.WriteFile(fs.path, []byte("[]"), 0o644); err != nil {
			return fmt.Errorf("failed to initialize store file %s: %w", fs.path, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to stat store file %s: %w", fs.path, err)
	}
	return nil
}
