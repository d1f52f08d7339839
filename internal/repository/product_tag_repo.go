package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/catalog_api/internal/models"
)

// ProductTagRepository handles data access for the product/tag join table.
type ProductTagRepository struct {
	db sqlx.ExtContext
}

// NewProductTagRepository creates a new ProductTagRepository.
func NewProductTagRepository(db sqlx.ExtContext) *ProductTagRepository {
	return &ProductTagRepository{db: db}
}

// ListByProduct returns the join rows of a product ordered by id.
func (r *ProductTagRepository) ListByProduct(ctx context.Context, productID int) ([]models.ProductTag, error) {
	const q = `SELECT id, product_id, tag_id FROM product_tags WHERE product_id = $1 ORDER BY id`

	rows := []models.ProductTag{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, q, productID); err != nil {
		return nil, fmt.Errorf("list product tags: %w", err)
	}
	return rows, nil
}

// BulkCreate inserts all rows with a single statement and returns them with
// their generated ids.
func (r *ProductTagRepository) BulkCreate(ctx context.Context, rows []models.ProductTag) ([]models.ProductTag, error) {
	created := []models.ProductTag{}
	if len(rows) == 0 {
		return created, nil
	}

	productIDs := make([]int, len(rows))
	tagIDs := make([]int, len(rows))
	for i, row := range rows {
		productIDs[i] = row.ProductID
		tagIDs[i] = row.TagID
	}

	const q = `
        INSERT INTO product_tags (product_id, tag_id)
        SELECT * FROM unnest($1::int[], $2::int[])
        RETURNING id, product_id, tag_id`

	if err := sqlx.SelectContext(ctx, r.db, &created, q, pq.Array(int64s(productIDs)), pq.Array(int64s(tagIDs))); err != nil {
		return nil, fmt.Errorf("bulk create product tags: %w", err)
	}
	return created, nil
}

// DeleteByIDs removes the join rows with the given ids.
func (r *ProductTagRepository) DeleteByIDs(ctx context.Context, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM product_tags WHERE id = ANY($1)`, pq.Array(int64s(ids)))
	if err != nil {
		return 0, fmt.Errorf("delete product tags: %w", err)
	}
	return res.RowsAffected()
}
