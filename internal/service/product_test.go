package service

import (
	"context"
	"testing"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01}

func scrapedEarbuds() *domain.Product {
	return &domain.Product{
		ID:    1005001,
		URL:   "https://www.aliexpress.com/item/1005001.html",
		Title: "Wireless Earbuds",
		CategoryPath: []domain.CategoryPathEntry{
			{ID: 3, Name: "Electronics"},
			{ID: 44, Name: "Audio"},
			{ID: 200001, Name: "Earphones"},
		},
		TotalAvailableQuantity: 500,
		Images:                 []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		Description:            "<p>Great sound.</p>",
		OriginalPrice:          domain.PriceRange{Min: 10, Max: 20},
		SalePrice:              domain.PriceRange{Min: 8, Max: 20},
	}
}

func TestImportProduct(t *testing.T) {
	env := newTestEnv()
	env.client.products[1005001] = scrapedEarbuds()
	env.fetcher.images["https://cdn/a.jpg"] = jpegBytes
	env.fetcher.images["https://cdn/b.jpg"] = jpegBytes

	p, err := env.svc.ImportProduct(context.Background(), 1005001, nil, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	assert.Equal(t, "Wireless Earbuds", p.Name)
	assert.Equal(t, "Wireless Earbuds", p.MetaTitle)
	assert.Equal(t, "<p>Great sound.</p>", p.FullDescription)
	assert.Equal(t, catalog.ProductTypeSimple, p.ProductTypeID)
	assert.Equal(t, catalog.DefaultKnownIDs().ProductLayout, p.ProductLayoutID)
	assert.True(t, p.Published)
	assert.True(t, p.VisibleIndividually)

	assert.Equal(t, float64(8), p.Price)
	assert.Equal(t, float64(8), p.ProductCost)
	assert.Equal(t, float64(10), p.CatalogPrice)
	assert.Equal(t, float64(10), p.StartPrice)
	assert.Equal(t, float64(8), p.MinEnteredPrice)
	assert.Equal(t, float64(20), p.MaxEnteredPrice)

	assert.Equal(t, 500, p.StockQuantity)
	assert.True(t, p.StockAvailability)
	assert.Equal(t, 1, p.OrderMinimumQuantity)
	assert.Equal(t, 999999, p.OrderMaximumQuantity)
	// No variant dimensions, so stock is not managed by attributes.
	assert.Equal(t, 0, p.ManageInventoryMethodID)
	assert.Equal(t, 1, p.DisplayOrder)

	assert.Contains(t, p.UserFields, catalog.UserField{Key: catalog.UserFieldProductURL, Value: "https://www.aliexpress.com/item/1005001.html"})
	assert.Contains(t, p.UserFields, catalog.UserField{Key: catalog.UserFieldProductID, Value: "1005001"})

	require.Len(t, p.Pictures, 2)
	assert.Equal(t, 1, p.Pictures[0].DisplayOrder)
	assert.Equal(t, 2, p.Pictures[1].DisplayOrder)
	// The first image was already registered as the category thumbnail and is
	// reused by alt-url match, so exactly two assets exist.
	require.Len(t, env.store.pictures, 2)
	for _, pic := range env.store.pictures {
		assert.Equal(t, "image/jpeg", pic.MimeType)
		assert.Contains(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, pic.AltAttribute)
	}

	// Created categories carry the first image as thumbnail.
	leaf, err := env.store.GetCategoryByExternalID(context.Background(), "200001")
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.NotEmpty(t, leaf.PictureID)

	assert.Equal(t, p.ID, env.state.imported[1005001])
}

func TestImportProductOutOfStock(t *testing.T) {
	env := newTestEnv()
	scraped := scrapedEarbuds()
	scraped.TotalAvailableQuantity = 0
	env.client.products[1005001] = scraped

	p, err := env.svc.ImportProduct(context.Background(), 1005001, nil, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	assert.Equal(t, 0, p.StockQuantity)
	assert.False(t, p.StockAvailability)
}

func TestImportProductCreatesCategoryChain(t *testing.T) {
	env := newTestEnv()
	env.client.products[1005001] = scrapedEarbuds()

	p, err := env.svc.ImportProduct(context.Background(), 1005001, nil, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	require.Len(t, env.store.categories, 3)

	root, err := env.store.GetCategoryByExternalID(context.Background(), "3")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, "Electronics", root.Name)
	assert.Empty(t, root.ParentCategoryID)
	assert.Equal(t, catalog.DefaultKnownIDs().CategoryLayout, root.CategoryLayoutID)
	assert.True(t, root.Published)

	mid, err := env.store.GetCategoryByExternalID(context.Background(), "44")
	require.NoError(t, err)
	require.NotNil(t, mid)
	assert.Equal(t, root.ID, mid.ParentCategoryID)

	leaf, err := env.store.GetCategoryByExternalID(context.Background(), "200001")
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.Equal(t, mid.ID, leaf.ParentCategoryID)

	// Only the deepest created node is attached.
	require.Len(t, p.Categories, 1)
	assert.Equal(t, leaf.ID, p.Categories[0].CategoryID)
	assert.False(t, p.Categories[0].Featured)
}

func TestImportProductReusesExistingCategories(t *testing.T) {
	env := newTestEnv()
	env.client.products[1005001] = scrapedEarbuds()

	first, err := env.svc.ImportProduct(context.Background(), 1005001, nil, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	second, err := env.svc.ImportProduct(context.Background(), 1005001, nil, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	// Second run found the whole chain and attached the existing leaf.
	assert.Len(t, env.store.categories, 3)
	require.Len(t, second.Categories, 1)
	assert.Equal(t, first.Categories[0].CategoryID, second.Categories[0].CategoryID)
}

func TestImportProductPictureFailureKeepsOrdersContiguous(t *testing.T) {
	env := newTestEnv()
	scraped := scrapedEarbuds()
	scraped.Images = []string{"https://cdn/a.jpg", "https://cdn/broken.jpg", "https://cdn/c.jpg"}
	env.client.products[1005001] = scraped
	env.fetcher.images["https://cdn/a.jpg"] = jpegBytes
	env.fetcher.images["https://cdn/c.jpg"] = jpegBytes

	p, err := env.svc.ImportProduct(context.Background(), 1005001, nil, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	require.Len(t, p.Pictures, 2)
	assert.Equal(t, 1, p.Pictures[0].DisplayOrder)
	assert.Equal(t, 2, p.Pictures[1].DisplayOrder)
}

func TestImportProductExplicitCategories(t *testing.T) {
	env := newTestEnv()
	env.client.products[1005001] = scrapedEarbuds()

	cat1 := &catalog.Category{Name: "Deals"}
	cat2 := &catalog.Category{Name: "New Arrivals"}
	require.NoError(t, env.store.CreateCategory(context.Background(), cat1))
	require.NoError(t, env.store.CreateCategory(context.Background(), cat2))

	p, err := env.svc.ImportProduct(context.Background(), 1005001, []string{cat1.ID, cat2.ID}, catalog.DefaultImportPolicy())
	require.NoError(t, err)

	require.Len(t, p.Categories, 2)
	assert.Equal(t, cat1.ID, p.Categories[0].CategoryID)
	assert.Equal(t, cat2.ID, p.Categories[1].CategoryID)
	// The breadcrumb was not walked.
	assert.Empty(t, env.store.categories[p.Categories[0].CategoryID].ExternalID)
}

func TestImportProductUnknownExplicitCategoryFails(t *testing.T) {
	env := newTestEnv()
	env.client.products[1005001] = scrapedEarbuds()

	cat := &catalog.Category{Name: "Deals"}
	require.NoError(t, env.store.CreateCategory(context.Background(), cat))

	_, err := env.svc.ImportProduct(context.Background(), 1005001, []string{cat.ID, "missing"}, catalog.DefaultImportPolicy())
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestImportProductScrapeFailure(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ImportProduct(context.Background(), 404, nil, catalog.DefaultImportPolicy())
	require.Error(t, err)
	assert.Empty(t, env.store.products)
}

func TestImportByCategoryListingFailure(t *testing.T) {
	env := newTestEnv()
	env.client.listErr = assert.AnError

	_, err := env.svc.ImportByCategory(context.Background(), "200001", "earphones", catalog.DefaultImportPolicy())
	require.Error(t, err)
	assert.Empty(t, env.store.products)
}

func TestImportByCategory(t *testing.T) {
	env := newTestEnv()
	env.client.listIDs = []int64{1005001, 1005002, 1005003}
	env.client.products[1005001] = scrapedEarbuds()
	// 1005002 fails to scrape, 1005003 was imported in a previous run.
	env.state.imported[1005003] = "id-existing"

	imported, err := env.svc.ImportByCategory(context.Background(), "200001", "earphones", catalog.DefaultImportPolicy())
	require.NoError(t, err)

	// Only the scrapable, not-yet-imported product made it in.
	require.Len(t, imported, 1)
	assert.Equal(t, "Wireless Earbuds", imported[0].Name)
	assert.Len(t, env.store.products, 1)
	// The already-imported product was never scraped again.
	assert.Equal(t, []int64{1005001, 1005002}, env.client.getCalls)
}
