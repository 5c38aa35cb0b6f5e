package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"

	log "github.com/sirupsen/logrus"
)

// mapAttributes turns each variant dimension into an attribute mapping on the
// product. Color/size/ships-from dimensions bind to the store's shared
// attribute definitions; anything else gets a definition looked up or created
// by name. For single-dimension products the per-value price and stock are
// written onto the values themselves; multi-dimension products carry those in
// combinations instead.
func (s *Service) mapAttributes(ctx context.Context, productID string, scraped *domain.Product) ([]catalog.AttributeMapping, error) {
	single := !scraped.Variants.HasMultipleVariants()

	mappings := make([]catalog.AttributeMapping, 0, len(scraped.Variants.Options))
	for i, option := range scraped.Variants.Options {
		attributeID, controlType, err := s.resolveAttribute(ctx, option.Name)
		if err != nil {
			return nil, err
		}

		mapping := catalog.AttributeMapping{
			ProductAttributeID: attributeID,
			ControlType:        controlType,
			IsRequired:         true,
			DisplayOrder:       i + 1,
		}

		for j, value := range option.Values {
			attrValue := catalog.AttributeValue{
				Name:            value.DisplayName,
				DisplayOrder:    j + 1,
				PriceAdjustment: 0,
				Quantity:        1,
			}

			// Only the color swatch dimension carries value images.
			if controlType == catalog.ControlTypeImageSquares && value.ImagePath != "" {
				pictureID, err := s.ingestPicture(ctx, value.ImagePath)
				if err != nil {
					log.Errorf("❌ Failed to fetch image for value %s of %s: %v", value.DisplayName, option.Name, err)
				} else {
					attrValue.PictureID = pictureID
				}
			}

			if single {
				if entry := scraped.Variants.PriceByOptionValueID(strconv.FormatInt(value.ID, 10)); entry != nil {
					attrValue.PriceAdjustment = entry.SalePrice
					attrValue.Quantity = entry.AvailableQuantity
				}
			}

			mapping.Values = append(mapping.Values, attrValue)
		}

		if err := s.store.AddAttributeMapping(ctx, productID, &mapping); err != nil {
			return nil, fmt.Errorf("failed to add attribute mapping %s to product %s: %w", option.Name, productID, err)
		}
		mappings = append(mappings, mapping)
	}

	return mappings, nil
}

// resolveAttribute picks the store attribute definition a dimension binds to.
// Classification is by substring so localized suffixes like "Shoe Size (EU)"
// still hit the shared definitions.
func (s *Service) resolveAttribute(ctx context.Context, optionName string) (string, catalog.AttributeControlType, error) {
	name := strings.ToLower(optionName)

	switch {
	case strings.Contains(name, "color"):
		return s.ids.ColorAttribute, catalog.ControlTypeImageSquares, nil
	case strings.Contains(name, "size"):
		return s.ids.SizeAttribute, catalog.ControlTypeDropdownList, nil
	case strings.Contains(name, "ship"):
		return s.ids.ShipsFromAttribute, catalog.ControlTypeDropdownList, nil
	}

	id, err := s.ensureProductAttribute(ctx, optionName)
	if err != nil {
		return "", 0, err
	}
	return id, catalog.ControlTypeDropdownList, nil
}

// ensureProductAttribute finds a store-wide attribute definition by name,
// creating it on first use.
func (s *Service) ensureProductAttribute(ctx context.Context, name string) (string, error) {
	existing, err := s.store.GetProductAttributeByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	created := &catalog.ProductAttribute{Name: name}
	if err := s.store.CreateProductAttribute(ctx, created); err != nil {
		return "", fmt.Errorf("failed to create product attribute %s: %w", name, err)
	}

	log.Infof("🏷 Created product attribute %s", name)
	return created.ID, nil
}

// buildCombinations persists one purchasable combination per variant price
// entry, resolving each entry's option values to the (mapping, value) pairs
// added by mapAttributes. A value that cannot be resolved is dropped from the
// combination; the combination itself is still persisted with the stock and
// price of its entry.
func (s *Service) buildCombinations(
	ctx context.Context,
	productID string,
	scraped *domain.Product,
	mappings []catalog.AttributeMapping,
) error {
	for _, entry := range scraped.Variants.Prices {
		combination := catalog.AttributeCombination{
			StockQuantity:   entry.AvailableQuantity,
			OverriddenPrice: entry.SalePrice,
		}

		for _, valueID := range entry.ValueIDs() {
			value := scraped.Variants.OptionValueByID(valueID)
			if value == nil {
				log.Warnf("⚠️ Price entry %d references unknown option value %s", entry.ID, valueID)
				continue
			}

			optionIndex := s.optionIndexByValueID(scraped.Variants, valueID)
			if optionIndex < 0 || optionIndex >= len(mappings) {
				continue
			}

			mappingValue := findMappingValue(mappings[optionIndex], value.DisplayName)
			if mappingValue == nil {
				continue
			}

			combination.Attributes = append(combination.Attributes, catalog.CombinationAttribute{
				MappingID: mappings[optionIndex].ID,
				ValueID:   mappingValue.ID,
			})

			// The combination picture comes from the color swatch value.
			if combination.PictureID == "" && mappings[optionIndex].ControlType == catalog.ControlTypeImageSquares {
				combination.PictureID = mappingValue.PictureID
			}
		}

		if err := s.store.AddAttributeCombination(ctx, productID, &combination); err != nil {
			return fmt.Errorf("failed to add combination for entry %d to product %s: %w", entry.ID, productID, err)
		}
	}

	return nil
}

func (s *Service) optionIndexByValueID(variants domain.VariantSet, valueID string) int {
	for i := range variants.Options {
		for _, v := range variants.Options[i].Values {
			if strconv.FormatInt(v.ID, 10) == valueID {
				return i
			}
		}
	}
	return -1
}

func findMappingValue(mapping catalog.AttributeMapping, displayName string) *catalog.AttributeValue {
	for i := range mapping.Values {
		if mapping.Values[i].Name == displayName {
			return &mapping.Values[i]
		}
	}
	return nil
}
