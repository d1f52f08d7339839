package models

// Tag is a free-form label that can be attached to many products.
type Tag struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	Products []ProductSummary `db:"-" json:"products"`
}

// TagSummary is the slim form of a tag nested under a product.
type TagSummary struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
