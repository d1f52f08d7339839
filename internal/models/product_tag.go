package models

// ProductTag is one row of the product/tag join table. Rows are the only
// persisted evidence of a product-tag association.
type ProductTag struct {
	ID        int `db:"id" json:"id"`
	ProductID int `db:"product_id" json:"productId"`
	TagID     int `db:"tag_id" json:"tagId"`
}
