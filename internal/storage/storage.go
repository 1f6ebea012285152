package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaKind distinguishes session photos from videos in object keys.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// FileStorage defines the interface for object storage operations backing
// session media. Clients upload photo/video bytes directly to the storage
// provider through presigned URLs; the engine only records the object keys.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT
	// of an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET
	// of an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// SessionMediaKey builds the object key for a piece of session media, e.g.
// sessions/<session-id>/photos/<uuid>.jpg.
func SessionMediaKey(sessionID string, kind MediaKind, contentType string) string {
	folder := "photos"
	if kind == MediaVideo {
		folder = "videos"
	}
	return fmt.Sprintf("sessions/%s/%s/%s%s", sessionID, folder, uuid.NewString(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	default:
		return ""
	}
}
