package uploads

import (
	"crypto/md5"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

var (
	// ErrInvalidInput means the caller did not supply a property id.
	ErrInvalidInput = errors.New("uploads: property id is required")

	// ErrStorageUnavailable means the uploads directory could not be
	// provisioned or failed the write probe. This is operator-actionable
	// (disk full, permissions) and propagates as an error.
	ErrStorageUnavailable = errors.New("uploads: storage unavailable")
)

// File is a raw uploaded blob.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// KeyedFile tags a file with its ordinal form key ("image-0", "video-1").
type KeyedFile struct {
	Key  string
	File File
}

// StoredFile is one successful batch entry.
type StoredFile struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// BatchResult reports what a batch upload managed to do. Callers needing
// all-or-nothing semantics must compare Attempted against Succeeded; the
// manager itself never aborts a batch on a single failure.
type BatchResult struct {
	Stored    []StoredFile `json:"stored"`
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
}

// Manager writes uploaded blobs into a per-property directory tree and
// hands back stable public URLs.
type Manager struct {
	root       string // on-disk uploads root
	publicBase string // URL prefix the files are served under, e.g. "/uploads"

	seq atomic.Uint64 // disambiguates same-millisecond uploads
}

// NewManager creates a manager rooted at the given directory.
func NewManager(root, publicBase string) *Manager {
	return &Manager{
		root:       root,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Root returns the on-disk uploads root.
func (m *Manager) Root() string {
	return m.root
}

// Store writes one file under {root}/{propertyID}/ and returns its public
// URL with a cache-busting timestamp query.
func (m *Manager) Store(propertyID string, f File, keyPrefix string) (string, error) {
	if strings.TrimSpace(propertyID) == "" {
		return "", ErrInvalidInput
	}

	dir := filepath.Join(m.root, propertyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %v", ErrStorageUnavailable, dir, err)
	}

	if err := m.probeWrite(dir); err != nil {
		return "", err
	}

	millis := time.Now().UnixMilli()
	name := m.deriveFileName(f.Name, keyPrefix, millis)

	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, f.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	kind := Classify(f)
	log.Printf("Uploads: stored %s file %s (%d bytes) for property %s", kind, name, len(f.Content), propertyID)

	return fmt.Sprintf("%s/%s/%s?t=%d", m.publicBase, propertyID, name, millis), nil
}

// StoreBatch processes each file independently and in order. A failed file
// is logged and skipped; the rest of the batch still runs.
func (m *Manager) StoreBatch(propertyID string, files []KeyedFile) BatchResult {
	result := BatchResult{Attempted: len(files)}

	for _, kf := range files {
		url, err := m.Store(propertyID, kf.File, kf.Key)
		if err != nil {
			log.Printf("Uploads: failed to store %s (name=%s, size=%d, property=%s): %v",
				kf.Key, kf.File.Name, len(kf.File.Content), propertyID, err)
			continue
		}
		result.Stored = append(result.Stored, StoredFile{Key: kf.Key, URL: url})
		result.Succeeded++
	}

	if result.Succeeded < result.Attempted {
		log.Printf("Uploads: batch for property %s completed with %d/%d files stored",
			propertyID, result.Succeeded, result.Attempted)
	}

	return result
}

// RemoveAll deletes the property's entire media directory. A directory
// that does not exist counts as success.
func (m *Manager) RemoveAll(propertyID string) error {
	if strings.TrimSpace(propertyID) == "" {
		return ErrInvalidInput
	}

	dir := filepath.Join(m.root, propertyID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove media directory %s: %w", dir, err)
	}
	return nil
}

// probeWrite surfaces disk-full/permission problems before the real write
// by writing and deleting a throwaway file.
func (m *Manager) probeWrite(dir string) error {
	probe := filepath.Join(dir, fmt.Sprintf(".probe-%d", time.Now().UnixNano()))
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("%w: write probe failed in %s: %v", ErrStorageUnavailable, dir, err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("%w: probe cleanup failed in %s: %v", ErrStorageUnavailable, dir, err)
	}
	return nil
}

// deriveFileName builds {keyPrefix}-{millis}-{shortHash}-{sanitized}.
// The hash folds in a process-wide sequence so two uploads of the same
// name within the same millisecond still get distinct names.
func (m *Manager) deriveFileName(original, keyPrefix string, millis int64) string {
	seq := m.seq.Add(1)
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d-%d", original, millis, seq)))
	shortHash := fmt.Sprintf("%x", sum)[:6]

	return fmt.Sprintf("%s-%d-%s-%s", keyPrefix, millis, shortHash, SanitizeFileName(original))
}

// SanitizeFileName lowercases the name, replaces anything outside
// [a-z0-9.] with '-', collapses repeated separators and strips leading
// and trailing dots and dashes.
func SanitizeFileName(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, ".-")

	if out == "" {
		out = "file"
	}
	return out
}
