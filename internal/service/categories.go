package service

import (
	"context"
	"fmt"
	"strconv"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"

	log "github.com/sirupsen/logrus"
)

// reconcileCategories attaches the product to store categories.
//
// With explicit category ids the whole set must resolve: one unknown id fails
// the import before anything is attached. Without them the scraped breadcrumb
// is walked root to leaf against the store tree, creating missing nodes under
// the deepest existing ancestor as it goes.
func (s *Service) reconcileCategories(
	ctx context.Context,
	productID string,
	scraped *domain.Product,
	explicitIDs []string,
	policy catalog.ImportPolicy,
) error {
	var attach []string

	if len(explicitIDs) > 0 {
		for _, id := range explicitIDs {
			if _, err := s.store.GetCategory(ctx, id); err != nil {
				return fmt.Errorf("explicit category %s: %w", id, err)
			}
		}
		attach = explicitIDs
	} else {
		attach = s.walkBreadcrumb(ctx, scraped, policy)
	}

	for _, categoryID := range attach {
		err := s.store.AttachCategory(ctx, productID, catalog.ProductCategory{
			CategoryID: categoryID,
			Featured:   false,
		})
		if err != nil {
			return fmt.Errorf("failed to attach category %s to product %s: %w", categoryID, productID, err)
		}
	}

	return nil
}

// walkBreadcrumb resolves the normalized breadcrumb against the store tree and
// returns the category ids to attach. An existing leaf joins the attach set; a
// node created along the way replaces it, so the deepest newly created node
// wins. A failed creation only breaks the chain: the walk continues with no
// parent, it does not fail the import.
func (s *Service) walkBreadcrumb(ctx context.Context, scraped *domain.Product, policy catalog.ImportPolicy) []string {
	var attach []string
	parentID := ""
	thumbnailID := ""
	thumbnailTried := false

	for i, entry := range scraped.CategoryPath {
		isLeaf := i == len(scraped.CategoryPath)-1
		externalID := strconv.FormatInt(entry.ID, 10)

		existing, err := s.store.GetCategoryByExternalID(ctx, externalID)
		if err != nil {
			log.Errorf("❌ Failed to look up category %s: %v", externalID, err)
			parentID = ""
			continue
		}

		if existing != nil {
			if isLeaf {
				attach = append(attach, existing.ID)
			} else {
				parentID = existing.ID
			}
			continue
		}

		// Created categories take the product's first image as thumbnail.
		if !thumbnailTried && len(scraped.Images) > 0 {
			thumbnailTried = true
			id, err := s.ingestPicture(ctx, scraped.Images[0])
			if err != nil {
				log.Errorf("❌ Failed to fetch thumbnail for category %s: %v", entry.Name, err)
			} else {
				thumbnailID = id
			}
		}

		created := &catalog.Category{
			Name:             entry.Name,
			ParentCategoryID: parentID,
			ExternalID:       externalID,
			CategoryLayoutID: s.ids.CategoryLayout,
			PictureID:        thumbnailID,

			Published:                      policy.PublishCategories,
			IncludeInMenu:                  policy.IncludeInMenu,
			ShowOnHomePage:                 policy.ShowOnHomePage,
			AllowCustomersToSelectPageSize: policy.AllowCustomersToSelectPageSize,
			PageSize:                       policy.PageSize,
			PageSizeOptions:                policy.PageSizeOptions,
			DisplayOrder:                   i + 1,
		}

		if err := s.store.CreateCategory(ctx, created); err != nil {
			log.Errorf("❌ Failed to create category %s (%s): %v", entry.Name, externalID, err)
			parentID = ""
			continue
		}

		log.Infof("📁 Created category %s (%s) under %q", created.Name, externalID, parentID)
		attach = []string{created.ID}
		parentID = created.ID
	}

	return attach
}
