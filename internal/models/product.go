package models

import "github.com/shopspring/decimal"

// Product represents a sellable item in the catalog.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID         int             `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Stock      int             `db:"stock" json:"stock"`
	CategoryID *int            `db:"category_id" json:"categoryId"`

	// Nested associations, filled by the repository after the main query.
	Category *CategorySummary `db:"-" json:"category"`
	Tags     []TagSummary     `db:"-" json:"tags"`
}

// ProductSummary is the slim form of a product nested under a category or tag.
type ProductSummary struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
