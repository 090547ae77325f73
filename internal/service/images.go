package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/vbonduro/kitroom/internal/imaging"
	"github.com/vbonduro/kitroom/internal/photostore"
)

// Images thumbnails uploads and keeps them in a photo store. A nil *Images
// rejects uploads.
type Images struct {
	store   photostore.PhotoStore
	maxEdge int
	logger  *slog.Logger
}

func NewImages(store photostore.PhotoStore, maxEdge int, logger *slog.Logger) *Images {
	return &Images{store: store, maxEdge: maxEdge, logger: logger}
}

// save stores a thumbnail of r and returns its storage key.
func (im *Images) save(ctx context.Context, prefix string, r io.Reader) (string, error) {
	if im == nil || im.store == nil {
		return "", invalid("image", "image uploads are not configured")
	}

	thumb, err := imaging.Thumbnail(r, im.maxEdge)
	if errors.Is(err, imaging.ErrUndecodable) {
		return "", invalid("image", "unsupported image")
	}
	if err != nil {
		return "", err
	}

	key, err := im.store.Save(ctx, prefix, "image/jpeg", bytes.NewReader(thumb))
	if err != nil {
		return "", err
	}
	im.logger.Info("image stored", "key", key, "bytes", len(thumb))
	return key, nil
}

// discard removes a stored image. Failures are logged, never returned: a
// leftover file must not fail the record operation that replaced it.
func (im *Images) discard(ctx context.Context, key string) {
	if im == nil || im.store == nil || key == "" {
		return
	}
	if err := im.store.Delete(ctx, key); err != nil {
		if errors.Is(err, photostore.ErrNotFound) {
			im.logger.Warn("image already gone", "key", key)
			return
		}
		im.logger.Error("failed to delete image", "key", key, "error", err)
	}
}

// Open returns a stored image and its MIME type.
func (im *Images) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if im == nil || im.store == nil {
		return nil, "", photostore.ErrNotFound
	}
	return im.store.Get(ctx, key)
}
