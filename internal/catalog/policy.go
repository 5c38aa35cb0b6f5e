package catalog

// ImportPolicy carries the publication flags a caller picks for an import
// run. Categories created during reconciliation inherit them.
type ImportPolicy struct {
	PublishProducts                bool   `json:"publish_products"`
	PublishCategories              bool   `json:"publish_categories"`
	IncludeInMenu                  bool   `json:"include_in_menu"`
	ShowOnHomePage                 bool   `json:"show_on_home_page"`
	AllowCustomersToSelectPageSize bool   `json:"allow_customers_to_select_page_size"`
	PageSize                       int    `json:"page_size"`
	PageSizeOptions                string `json:"page_size_options"`
}

// DefaultImportPolicy mirrors the defaults of the import request body.
func DefaultImportPolicy() ImportPolicy {
	return ImportPolicy{
		PublishProducts:                true,
		PublishCategories:              true,
		IncludeInMenu:                  true,
		ShowOnHomePage:                 false,
		AllowCustomersToSelectPageSize: true,
		PageSize:                       10,
		PageSizeOptions:                "10,15,20",
	}
}

// KnownIDs are the pre-existing store entities the mapper reuses instead of
// creating: the shared attribute definitions and the layouts applied to
// imported products and categories.
type KnownIDs struct {
	ProductLayout      string `json:"product_layout"`
	CategoryLayout     string `json:"category_layout"`
	ColorAttribute     string `json:"color_attribute"`
	SizeAttribute      string `json:"size_attribute"`
	ShipsFromAttribute string `json:"ships_from_attribute"`
}

// DefaultKnownIDs returns the ids seeded by the store installation.
func DefaultKnownIDs() KnownIDs {
	return KnownIDs{
		ProductLayout:      "621026006e254b2d02acf47f",
		CategoryLayout:     "621026006e254b2d02acf481",
		ColorAttribute:     "621026006e254b2d02acf4b1",
		SizeAttribute:      "621026006e254b2d02acf4b7",
		ShipsFromAttribute: "62154c69ce1c3af9f2761fc9",
	}
}
