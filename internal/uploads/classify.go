package uploads

import (
	"path/filepath"
	"strings"
)

// FileKind is the informational classification of an upload. It only
// feeds logging and stats; an Unknown file is still saved.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindImage
	KindVideo
)

func (k FileKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".svg": true, ".heic": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true, ".3gp": true,
}

// sizeVideoThreshold is the fallback cutoff: with no usable MIME type or
// extension, anything above 1MB is treated as a plausible video.
const sizeVideoThreshold = 1 << 20

// Classify determines the file kind by MIME prefix first, then filename
// extension, then a size heuristic.
func Classify(f File) FileKind {
	mime := strings.ToLower(f.ContentType)
	if strings.HasPrefix(mime, "image/") {
		return KindImage
	}
	if strings.HasPrefix(mime, "video/") {
		return KindVideo
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	if imageExtensions[ext] {
		return KindImage
	}
	if videoExtensions[ext] {
		return KindVideo
	}

	if len(f.Content) > sizeVideoThreshold {
		return KindVideo
	}
	return KindUnknown
}
