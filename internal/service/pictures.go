package service

import (
	"context"
	"fmt"
	"net/http"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"

	log "github.com/sirupsen/logrus"
)

// attachPictures downloads the listing images and attaches them to the
// product in page order. A failed download is logged and skipped; display
// orders stay contiguous across skips, starting at 1.
func (s *Service) attachPictures(ctx context.Context, productID string, scraped *domain.Product) error {
	order := 0
	for _, imageURL := range scraped.Images {
		pictureID, err := s.ingestPicture(ctx, imageURL)
		if err != nil {
			log.Errorf("❌ Failed to fetch image %s for product %s: %v", imageURL, productID, err)
			continue
		}

		order++
		err = s.store.AttachPicture(ctx, productID, catalog.ProductPicture{
			PictureID:    pictureID,
			DisplayOrder: order,
		})
		if err != nil {
			return fmt.Errorf("failed to attach picture %s to product %s: %w", pictureID, productID, err)
		}
	}

	return nil
}

// ingestPicture downloads one image and registers it as a picture asset,
// returning the asset id. The alt text carries the source URL, so an image
// already registered under the same URL is reused instead of re-fetched. The
// MIME type is sniffed from the bytes since the CDN URLs do not always carry a
// usable extension.
func (s *Service) ingestPicture(ctx context.Context, url string) (string, error) {
	if existing, err := s.store.GetPictureByAlt(ctx, url); err != nil {
		return "", err
	} else if existing != nil {
		return existing.ID, nil
	}

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty image body from %s", url)
	}

	picture := &catalog.Picture{
		Binary:       data,
		MimeType:     http.DetectContentType(data),
		AltAttribute: url,
	}
	if err := s.store.CreatePicture(ctx, picture); err != nil {
		return "", err
	}

	return picture.ID, nil
}
