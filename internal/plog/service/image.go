package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/storage"
	"github.com/ploghq/plog/internal/plog/store"
)

var ErrInvalidImage = errors.New("invalid image")

// allowedImageExtensions is the upload whitelist, keyed by lowercase
// extension including the dot.
var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type ImageService struct {
	Store   store.Store
	Storage storage.ObjectStorage
}

// Upload stores the file bytes under a fresh UUID-based object key and
// records a PENDING metadata row. The original filename is kept for display
// only; its extension decides acceptance.
func (s *ImageService) Upload(ctx context.Context, memberID int64, filename string, r io.Reader, size int64) (domain.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageExtensions[ext]
	if !ok {
		return domain.Image{}, ErrInvalidImage
	}

	storedName := uuid.NewString() + ext
	if err := s.Storage.Put(ctx, storedName, r, size, contentType); err != nil {
		return domain.Image{}, fmt.Errorf("store object: %w", err)
	}

	id, err := s.Store.Images().CreateImage(ctx, domain.Image{
		MemberID:     memberID,
		StoredName:   storedName,
		OriginalName: filename,
	})
	if err != nil {
		_ = s.Storage.Delete(ctx, storedName)
		return domain.Image{}, err
	}

	return s.Store.Images().GetImageByID(ctx, id)
}

// Open returns the image bytes for serving. The caller closes the reader.
func (s *ImageService) Open(ctx context.Context, id int64) (domain.Image, io.ReadCloser, error) {
	img, err := s.Store.Images().GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Image{}, nil, ErrInvalidImage
		}
		return domain.Image{}, nil, err
	}

	rc, err := s.Storage.Get(ctx, img.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domain.Image{}, nil, ErrInvalidImage
		}
		return domain.Image{}, nil, err
	}
	return img, rc, nil
}

// Delete removes an image the caller uploaded, both object and metadata.
func (s *ImageService) Delete(ctx context.Context, memberID, id int64) error {
	img, err := s.Store.Images().GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidImage
		}
		return err
	}
	if img.MemberID != memberID {
		return ErrNotOwner
	}

	if err := s.Storage.Delete(ctx, img.StoredName); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return s.Store.Images().DeleteImage(ctx, id)
}

// claimImage marks an upload as USED after checking it exists and belongs to
// the member. A nil id is a no-op so callers can pass optional references
// straight through.
func claimImage(ctx context.Context, tx store.Tx, memberID int64, imageID *int64) error {
	if imageID == nil {
		return nil
	}

	img, err := tx.Images().GetImageByID(ctx, *imageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidImage
		}
		return err
	}
	if img.MemberID != memberID {
		return ErrNotOwner
	}
	return tx.Images().MarkImagesUsed(ctx, []int64{img.ID})
}

// ContentTypeFor maps a stored object name to its content type, falling back
// to octet-stream for anything outside the whitelist.
func ContentTypeFor(storedName string) string {
	if ct, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(storedName))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// CleanupStale deletes PENDING uploads older than the grace period. Returns
// how many images were removed.
func (s *ImageService) CleanupStale(ctx context.Context, grace time.Duration) (int, error) {
	stale, err := s.Store.Images().ListStalePending(ctx, time.Now().Add(-grace))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, img := range stale {
		if err := s.Storage.Delete(ctx, img.StoredName); err != nil {
			return removed, err
		}
		if err := s.Store.Images().DeleteImage(ctx, img.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
