// Package photostore keeps uploaded thumbnails for stock lines and roster
// entries. Records hold only the storage key.
package photostore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("photo not found")

type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// Key returns a fresh storage key. Every save gets its own key, even for
// identical content, so deleting one record's photo never removes another's.
func Key(prefix, mimeType string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ExtForMIME(mimeType)
}

func ExtForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func MIMEForKey(storageKey string) string {
	switch strings.ToLower(path.Ext(storageKey)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
