package catalog

// AttributeControlType selects how a mapped attribute is presented.
type AttributeControlType int

const (
	ControlTypeDropdownList AttributeControlType = 1
	ControlTypeImageSquares AttributeControlType = 45
)

// ProductAttribute is a store-wide attribute definition (e.g. "Color").
type ProductAttribute struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AttributeMapping binds an attribute definition to a product with a
// presentation control type and the values offered for it.
type AttributeMapping struct {
	ID                 string               `json:"id"`
	ProductAttributeID string               `json:"product_attribute_id"`
	ControlType        AttributeControlType `json:"control_type"`
	IsRequired         bool                 `json:"is_required"`
	DisplayOrder       int                  `json:"display_order"`
	Values             []AttributeValue     `json:"values,omitempty"`
}

// AttributeValue is one selectable value of a mapping. PriceAdjustment and
// Quantity are only meaningful for single-dimension products; otherwise the
// truth lives in the per-combination records.
type AttributeValue struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PictureID       string  `json:"picture_id,omitempty"`
	DisplayOrder    int     `json:"display_order"`
	PriceAdjustment float64 `json:"price_adjustment"`
	Quantity        int     `json:"quantity"`
}

// AttributeCombination is one purchasable selection across 1-2 dimensions,
// with its own stock, overridden price and optional picture.
type AttributeCombination struct {
	ID              string                 `json:"id"`
	Attributes      []CombinationAttribute `json:"attributes,omitempty"`
	StockQuantity   int                    `json:"stock_quantity"`
	OverriddenPrice float64                `json:"overridden_price"`
	PictureID       string                 `json:"picture_id,omitempty"`
}

// CombinationAttribute identifies one (mapping, value) pair of a combination.
type CombinationAttribute struct {
	MappingID string `json:"mapping_id"`
	ValueID   string `json:"value_id"`
}
