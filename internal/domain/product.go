package domain

// Product is the canonical, site-agnostic record of a scraped AliExpress
// listing. It is immutable after normalization; the import pipeline only
// reads from it.
type Product struct {
	ID                     int64               `json:"id"`
	URL                    string              `json:"url"`
	Title                  string              `json:"title"`
	ActionCategoryID       int64               `json:"action_category_id"` // category id claimed by the source page
	CategoryPath           []CategoryPathEntry `json:"category_path"`      // breadcrumb, root to leaf
	TotalAvailableQuantity int                 `json:"total_available_quantity"`
	Orders                 int                 `json:"orders"`
	DescriptionURL         string              `json:"description_url"`
	Description            string              `json:"description"` // rendered markup of the description sub-page
	Images                 []string            `json:"images"`
	Shop                   Shop                `json:"shop"`
	Rating                 Rating              `json:"rating"`
	Currency               string              `json:"currency"`
	OriginalPrice          PriceRange          `json:"original_price"`
	SalePrice              PriceRange          `json:"sale_price"`
	Variants               VariantSet          `json:"variants"`
}

// CategoryPathEntry is one breadcrumb level. After normalization entries are
// zero-filtered, sorted ascending by id and unique by id; the last entry is
// the leaf category.
type CategoryPathEntry struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Target string `json:"target"`
	URL    string `json:"url"`
}

type Shop struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"company_id"`
	Name        string `json:"name"`
	StoreNumber int64  `json:"store_number"`
	Followers   int    `json:"followers"`
	RatingCount int    `json:"rating_count"`
	Rating      string `json:"rating"`
}

type Rating struct {
	TotalStar   float64 `json:"total_star"`
	AverageStar float64 `json:"average_star"`
	TotalCount  int     `json:"total_count"`
	FiveStar    int     `json:"five_star"`
	FourStar    int     `json:"four_star"`
	ThreeStar   int     `json:"three_star"`
	TwoStar     int     `json:"two_star"`
	OneStar     int     `json:"one_star"`
}

// PriceRange holds the min/max bounds of a listed price. The sale range falls
// back per-bound to the original range when no promotional amount exists.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
