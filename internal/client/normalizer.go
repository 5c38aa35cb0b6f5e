package client

import (
	"sort"

	"aliexpress/importer/internal/domain"
	"aliexpress/importer/internal/rawval"
)

// NormalizeProduct projects the site-native state payload into the canonical
// product record. It is pure: every absent optional field yields an empty
// collection or zero value, never an error.
func NormalizeProduct(productID int64, data rawval.Value, descriptionURL, description string) *domain.Product {
	return &domain.Product{
		ID:                     productID,
		Title:                  data.Get("titleModule", "subject").String(),
		ActionCategoryID:       data.Get("actionModule", "categoryId").Int(),
		CategoryPath:           normalizeCategoryPath(data.Get("crossLinkModule", "breadCrumbPathList")),
		TotalAvailableQuantity: int(data.Get("quantityModule", "totalAvailQuantity").Int()),
		Orders:                 int(data.Get("titleModule", "tradeCount").Int()),
		DescriptionURL:         descriptionURL,
		Description:            description,
		Images:                 normalizeImages(data.Get("imageModule", "imagePathList")),
		Shop:                   normalizeShop(data.Get("storeModule")),
		Rating:                 normalizeRating(data.Get("titleModule", "feedbackRating")),
		Currency:               data.Get("webEnv", "currency").String(),
		OriginalPrice:          normalizeOriginalPrice(data.Get("priceModule")),
		SalePrice:              normalizeSalePrice(data.Get("priceModule")),
		Variants: domain.VariantSet{
			Options: normalizeOptions(data.Get("skuModule", "productSKUPropertyList")),
			Prices:  normalizePrices(data.Get("skuModule", "skuPriceList")),
		},
	}
}

// normalizeCategoryPath filters out zero-id breadcrumb entries, sorts the
// rest ascending by id and drops duplicates, so the last entry is the leaf.
func normalizeCategoryPath(list rawval.Value) []domain.CategoryPathEntry {
	entries := make([]domain.CategoryPathEntry, 0)
	for _, el := range list.Array() {
		id := el.Get("cateId").Int()
		if id == 0 {
			continue
		}
		entries = append(entries, domain.CategoryPathEntry{
			ID:     id,
			Name:   el.Get("name").String(),
			Target: el.Get("target").String(),
			URL:    el.Get("url").String(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	deduped := entries[:0]
	seen := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		deduped = append(deduped, e)
	}
	return deduped
}

func normalizeImages(list rawval.Value) []string {
	images := make([]string, 0)
	for _, el := range list.Array() {
		if s := el.String(); s != "" {
			images = append(images, s)
		}
	}
	return images
}

func normalizeShop(store rawval.Value) domain.Shop {
	return domain.Shop{
		ID:          store.Get("companyId").Int(),
		CompanyID:   store.Get("companyId").Int(),
		Name:        store.Get("storeName").String(),
		StoreNumber: store.Get("storeNum").Int(),
		Followers:   int(store.Get("followingNumber").Int()),
		RatingCount: int(store.Get("positiveNum").Int()),
		Rating:      store.Get("positiveRate").String(),
	}
}

func normalizeRating(feedback rawval.Value) domain.Rating {
	return domain.Rating{
		TotalStar:   5,
		AverageStar: feedback.Get("averageStar").Float(),
		TotalCount:  int(feedback.Get("totalValidNum").Int()),
		FiveStar:    int(feedback.Get("fiveStarNum").Int()),
		FourStar:    int(feedback.Get("fourStarNum").Int()),
		ThreeStar:   int(feedback.Get("threeStarNum").Int()),
		TwoStar:     int(feedback.Get("twoStarNum").Int()),
		OneStar:     int(feedback.Get("oneStarNum").Int()),
	}
}

func normalizeOriginalPrice(price rawval.Value) domain.PriceRange {
	return domain.PriceRange{
		Min: price.Get("minAmount", "value").Float(),
		Max: price.Get("maxAmount", "value").Float(),
	}
}

// normalizeSalePrice falls back per-bound to the original amount when no
// promotional ("activity") amount exists at that bound.
func normalizeSalePrice(price rawval.Value) domain.PriceRange {
	sale := domain.PriceRange{
		Min: price.Get("minAmount", "value").Float(),
		Max: price.Get("maxAmount", "value").Float(),
	}
	if v := price.Get("minActivityAmount", "value"); v.Exists() {
		sale.Min = v.Float()
	}
	if v := price.Get("maxActivityAmount", "value"); v.Exists() {
		sale.Max = v.Float()
	}
	return sale
}

func normalizeOptions(list rawval.Value) []domain.VariantOption {
	options := make([]domain.VariantOption, 0)
	for _, el := range list.Array() {
		option := domain.VariantOption{
			ID:     el.Get("skuPropertyId").Int(),
			Name:   el.Get("skuPropertyName").String(),
			Values: make([]domain.OptionValue, 0),
		}
		for _, pv := range el.Get("skuPropertyValues").Array() {
			option.Values = append(option.Values, domain.OptionValue{
				ID:          pv.Get("propertyValueId").Int(),
				Name:        pv.Get("propertyValueName").String(),
				DisplayName: pv.Get("propertyValueDisplayName").String(),
				ImagePath:   pv.Get("skuPropertyImagePath").String(),
			})
		}
		options = append(options, option)
	}
	return options
}

func normalizePrices(list rawval.Value) []domain.VariantPriceEntry {
	prices := make([]domain.VariantPriceEntry, 0)
	for _, el := range list.Array() {
		entry := domain.VariantPriceEntry{
			ID:                el.Get("skuId").Int(),
			AvailableQuantity: int(el.Get("skuVal", "availQuantity").Int()),
			OptionValueIDs:    el.Get("skuPropIds").String(),
			OriginalPrice:     el.Get("skuVal", "skuAmount", "value").Float(),
			SalePrice:         el.Get("skuVal", "skuAmount", "value").Float(),
		}
		if v := el.Get("skuVal", "skuActivityAmount", "value"); v.Exists() {
			entry.SalePrice = v.Float()
		}
		prices = append(prices, entry)
	}
	return prices
}
