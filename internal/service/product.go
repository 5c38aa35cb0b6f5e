package service

import (
	"context"
	"fmt"
	"strconv"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Quantity window applied to every imported product.
const (
	orderMinimumQuantity = 1
	orderMaximumQuantity = 999999
)

// ImportProduct scrapes one product and materializes it in the catalog,
// returning the stored product with everything the run attached to it.
//
// The phases after product creation are best-effort: a category, picture or
// attribute that fails to land is logged and skipped, the rest of the import
// continues.
func (s *Service) ImportProduct(
	ctx context.Context,
	productID int64,
	categoryIDs []string,
	policy catalog.ImportPolicy,
) (*catalog.Product, error) {
	log.Infof("🔄 Importing product %d", productID)

	scraped, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape product %d: %w", productID, err)
	}

	product := s.newCatalogProduct(scraped, policy)
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product %d: %w", productID, err)
	}

	if err := s.reconcileCategories(ctx, product.ID, scraped, categoryIDs, policy); err != nil {
		return nil, err
	}

	if err := s.stampProvenance(ctx, product.ID, scraped); err != nil {
		return nil, err
	}

	if err := s.attachPictures(ctx, product.ID, scraped); err != nil {
		return nil, err
	}

	mappings, err := s.mapAttributes(ctx, product.ID, scraped)
	if err != nil {
		return nil, err
	}

	if err := s.buildCombinations(ctx, product.ID, scraped, mappings); err != nil {
		return nil, err
	}

	if s.stateManager != nil {
		if err := s.stateManager.SetImportedProduct(ctx, scraped.ID, product.ID); err != nil {
			log.Errorf("❌ Failed to record import state for product %d: %v", scraped.ID, err)
		}
	}

	log.Infof("✅ Imported product %d as %s", productID, product.ID)
	return s.store.GetProduct(ctx, product.ID)
}

// ImportByCategory imports every product reachable from a category listing
// page, strictly in page order, and returns the products that made it in.
// Products already imported in a previous run are skipped; a product that
// fails to import is logged and skipped.
func (s *Service) ImportByCategory(ctx context.Context, categoryID, categoryName string, policy catalog.ImportPolicy) ([]*catalog.Product, error) {
	log.Infof("🔄 Importing category %s (%s)", categoryName, categoryID)

	productIDs, err := s.client.ListCategoryProductIDs(ctx, categoryID, categoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for category %s: %w", categoryID, err)
	}

	imported := make([]*catalog.Product, 0, len(productIDs))
	for _, productID := range productIDs {
		if s.stateManager != nil {
			existing, err := s.stateManager.GetImportedProduct(ctx, productID)
			if err != nil {
				return nil, err
			}
			if existing != "" {
				log.Infof("⏭ Product %d already imported as %s, skipping", productID, existing)
				continue
			}
		}

		product, err := s.ImportProduct(ctx, productID, nil, policy)
		if err != nil {
			log.Errorf("❌ Failed to import product %d from category %s: %v", productID, categoryID, err)
			continue
		}
		imported = append(imported, product)
	}

	log.Infof("✅ Completed category %s: imported %d of %d products", categoryID, len(imported), len(productIDs))
	return imported, nil
}

// newCatalogProduct converts a scraped record into a bare catalog product.
// Prices come from the sale range, catalog/start prices from the original
// range; stock is the listing-wide total until combinations take over.
func (s *Service) newCatalogProduct(scraped *domain.Product, policy catalog.ImportPolicy) *catalog.Product {
	manageInventory := 0
	if len(scraped.Variants.Options) > 0 {
		manageInventory = catalog.ManageStockByAttributes
	}

	return &catalog.Product{
		Name:            scraped.Title,
		MetaTitle:       scraped.Title,
		FullDescription: scraped.Description,

		ProductTypeID:   catalog.ProductTypeSimple,
		ProductLayoutID: s.ids.ProductLayout,

		Published:            policy.PublishProducts,
		VisibleIndividually:  true,
		AllowCustomerReviews: true,

		Price:           scraped.SalePrice.Min,
		ProductCost:     scraped.SalePrice.Min,
		CatalogPrice:    scraped.OriginalPrice.Min,
		StartPrice:      scraped.OriginalPrice.Min,
		MinEnteredPrice: scraped.SalePrice.Min,
		MaxEnteredPrice: scraped.SalePrice.Max,

		StockQuantity:           scraped.TotalAvailableQuantity,
		StockAvailability:       scraped.TotalAvailableQuantity > 0,
		DisplayStockQuantity:    true,
		ManageInventoryMethodID: manageInventory,
		OrderMinimumQuantity:    orderMinimumQuantity,
		OrderMaximumQuantity:    orderMaximumQuantity,

		DisplayOrder: 1,
	}
}

// stampProvenance marks the product with its source URL and id so later runs
// and operators can trace it back to the listing.
func (s *Service) stampProvenance(ctx context.Context, productID string, scraped *domain.Product) error {
	fields := []catalog.UserField{
		{Key: catalog.UserFieldProductURL, Value: scraped.URL},
		{Key: catalog.UserFieldProductID, Value: strconv.FormatInt(scraped.ID, 10)},
	}
	if err := s.store.SaveUserFields(ctx, productID, fields); err != nil {
		return fmt.Errorf("failed to stamp provenance on product %s: %w", productID, err)
	}
	return nil
}
