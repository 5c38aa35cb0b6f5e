package catalog

// Category is a node of the store's category tree. ExternalID carries the
// marketplace category id and is the reconciliation key across import runs.
type Category struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParentCategoryID string `json:"parent_category_id,omitempty"`
	ExternalID       string `json:"external_id,omitempty"`
	CategoryLayoutID string `json:"category_layout_id,omitempty"`
	PictureID        string `json:"picture_id,omitempty"`

	Published                      bool   `json:"published"`
	IncludeInMenu                  bool   `json:"include_in_menu"`
	ShowOnHomePage                 bool   `json:"show_on_home_page"`
	AllowCustomersToSelectPageSize bool   `json:"allow_customers_to_select_page_size"`
	PageSize                       int    `json:"page_size"`
	PageSizeOptions                string `json:"page_size_options,omitempty"`
	DisplayOrder                   int    `json:"display_order"`
}
