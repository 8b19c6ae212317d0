package model

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryOuter  Category = "outer"
	CategoryTop    Category = "top"
	CategoryBottom Category = "bottom"
	CategoryShoes  Category = "shoes"
	CategoryAcc    Category = "acc"
)

// Categories lists every category in a stable presentation order.
var Categories = []Category{
	CategoryOuter,
	CategoryTop,
	CategoryBottom,
	CategoryShoes,
	CategoryAcc,
}

func ParseCategory(value string) (Category, bool) {
	switch Category(value) {
	case CategoryOuter, CategoryTop, CategoryBottom, CategoryShoes, CategoryAcc:
		return Category(value), true
	}
	return "", false
}

// Item is one catalog entry. Vectors are L2-normalized by the offline
// preprocessing job; a zero vector means the source embedding was missing.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    Category  `json:"category"`
	NameVec     []float32 `json:"name_vec"`
	BrandVec    []float32 `json:"brand_vec"`
	ImageVec    []float32 `json:"image_vec"`
	CategoryVec []float32 `json:"category_vec"`
}

// RecommendedItem is one entry of a recommendation response.
type RecommendedItem struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Category Category `json:"category"`
	ImageURL string   `json:"image_url"`
	Score    float64  `json:"score"`
}

// PriceRange is the min/max price observed within one category.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}
