package domain

import (
	"strconv"
	"strings"
)

// VariantSet carries the variant dimensions of a product together with the
// price entries for their purchasable combinations. Option-value ids are
// unique across the whole set and are used as cross-dimension lookup keys.
type VariantSet struct {
	Options []VariantOption     `json:"options"`
	Prices  []VariantPriceEntry `json:"prices"`
}

// VariantOption is one axis of variation (e.g. Color) with its ordered values.
type VariantOption struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Values []OptionValue `json:"values"`
}

type OptionValue struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	ImagePath   string `json:"image_path,omitempty"`
}

// VariantPriceEntry prices one combination of 1-2 option values.
// OptionValueIDs is the site's comma-delimited value id string; SalePrice
// equals OriginalPrice when the entry has no promotional amount.
type VariantPriceEntry struct {
	ID                int64   `json:"id"`
	AvailableQuantity int     `json:"available_quantity"`
	OptionValueIDs    string  `json:"option_value_ids"`
	OriginalPrice     float64 `json:"original_price"`
	SalePrice         float64 `json:"sale_price"`
}

// ValueIDs splits the delimited option-value id string.
func (e VariantPriceEntry) ValueIDs() []string {
	if e.OptionValueIDs == "" {
		return nil
	}
	return strings.Split(e.OptionValueIDs, ",")
}

// OptionByValueID returns the dimension owning the given option-value id.
func (s VariantSet) OptionByValueID(valueID string) *VariantOption {
	for i := range s.Options {
		for _, v := range s.Options[i].Values {
			if formatID(v.ID) == valueID {
				return &s.Options[i]
			}
		}
	}
	return nil
}

// OptionValueByID looks an option value up across every dimension.
func (s VariantSet) OptionValueByID(valueID string) *OptionValue {
	for i := range s.Options {
		for j := range s.Options[i].Values {
			if formatID(s.Options[i].Values[j].ID) == valueID {
				return &s.Options[i].Values[j]
			}
		}
	}
	return nil
}

// PriceByOptionValueID returns the price entry addressed by exactly the given
// value id string. Only meaningful for single-dimension products, where each
// entry references a single value.
func (s VariantSet) PriceByOptionValueID(valueID string) *VariantPriceEntry {
	for i := range s.Prices {
		if s.Prices[i].OptionValueIDs == valueID {
			return &s.Prices[i]
		}
	}
	return nil
}

// HasMultipleVariants reports whether any price entry spans more than one
// variant dimension. When false, per-value price/quantity comes straight from
// the entry addressed by that value; when true it only lives per-combination.
func (s VariantSet) HasMultipleVariants() bool {
	for _, p := range s.Prices {
		if strings.Contains(p.OptionValueIDs, ",") {
			return true
		}
	}
	return false
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
