package catalog

// Product type and inventory method values of the store.
const (
	ProductTypeSimple       = 5
	ManageStockByAttributes = 2
)

// Product is the catalog product built up by an import run. It is created
// bare and then mutated phase by phase: categories, provenance fields,
// pictures, attribute mappings, combinations.
type Product struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MetaTitle       string `json:"meta_title"`
	FullDescription string `json:"full_description"`

	ProductTypeID   int    `json:"product_type_id"`
	ProductLayoutID string `json:"product_layout_id"`

	Published            bool `json:"published"`
	ShowOnHomePage       bool `json:"show_on_home_page"`
	VisibleIndividually  bool `json:"visible_individually"`
	AllowCustomerReviews bool `json:"allow_customer_reviews"`
	AvailableForPreOrder bool `json:"available_for_pre_order"`

	Price           float64 `json:"price"`
	ProductCost     float64 `json:"product_cost"`
	CatalogPrice    float64 `json:"catalog_price"`
	StartPrice      float64 `json:"start_price"`
	MinEnteredPrice float64 `json:"min_entered_price"`
	MaxEnteredPrice float64 `json:"max_entered_price"`

	StockQuantity           int  `json:"stock_quantity"`
	StockAvailability       bool `json:"stock_availability"`
	DisplayStockQuantity    bool `json:"display_stock_quantity"`
	ManageInventoryMethodID int  `json:"manage_inventory_method_id"`
	OrderMinimumQuantity    int  `json:"order_minimum_quantity"`
	OrderMaximumQuantity    int  `json:"order_maximum_quantity"`

	DisplayOrder int `json:"display_order"`

	UserFields   []UserField            `json:"user_fields,omitempty"`
	Categories   []ProductCategory      `json:"categories,omitempty"`
	Pictures     []ProductPicture       `json:"pictures,omitempty"`
	Mappings     []AttributeMapping     `json:"attribute_mappings,omitempty"`
	Combinations []AttributeCombination `json:"attribute_combinations,omitempty"`
}

// UserField is a key/value annotation on a product (provenance metadata).
type UserField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductCategory associates a product with a category.
type ProductCategory struct {
	CategoryID string `json:"category_id"`
	Featured   bool   `json:"featured"`
}

// ProductPicture attaches a registered picture asset to a product.
type ProductPicture struct {
	PictureID    string `json:"picture_id"`
	DisplayOrder int    `json:"display_order"`
}
