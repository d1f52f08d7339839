package models

// Category groups products in the catalog.
type Category struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CategoryDetail is a category together with the products filed under it.
// Products is never nil.
type CategoryDetail struct {
	Category
	Products []ProductSummary `db:"-" json:"products"`
}

// CategorySummary is the slim form of a category nested under a product.
type CategorySummary struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
