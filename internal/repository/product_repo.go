package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/catalog_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db sqlx.ExtContext
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db sqlx.ExtContext) *ProductRepository {
	return &ProductRepository{db: db}
}

const productSelect = `
        SELECT p.id, p.name, p.price, p.stock, p.category_id,
               c.id AS category_ref_id, c.name AS category_ref_name
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id`

// productRow is a product joined with its (optional) category.
type productRow struct {
	models.Product
	CategoryRefID   sql.NullInt64  `db:"category_ref_id"`
	CategoryRefName sql.NullString `db:"category_ref_name"`
}

func (row productRow) toProduct() models.Product {
	p := row.Product
	if row.CategoryRefID.Valid {
		p.Category = &models.CategorySummary{
			ID:   int(row.CategoryRefID.Int64),
			Name: row.CategoryRefName.String,
		}
	}
	p.Tags = []models.TagSummary{}
	return p
}

// productTagRow is a tag attached to the product identified by ProductID.
type productTagRow struct {
	ProductID int `db:"product_id"`
	models.TagSummary
}

// List returns all products ordered by id, each with its category and tags.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, productSelect+` ORDER BY p.id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]models.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toProduct()
	}
	if err := r.attachTags(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id with its category and tags.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var row productRow
	if err := sqlx.GetContext(ctx, r.db, &row, productSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, err
	}

	products := []models.Product{row.toProduct()}
	if err := r.attachTags(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// attachTags loads the tags of all given products in one query and nests them.
func (r *ProductRepository) attachTags(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int, len(products))
	byID := make(map[int]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	const q = `
        SELECT pt.product_id, t.id, COALESCE(t.name, '') AS name
        FROM product_tags pt
        JOIN tags t ON t.id = pt.tag_id
        WHERE pt.product_id = ANY($1)
        ORDER BY pt.product_id, t.id`

	var rows []productTagRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, q, pq.Array(int64s(ids))); err != nil {
		return fmt.Errorf("list product tags: %w", err)
	}

	for _, row := range rows {
		i := byID[row.ProductID]
		products[i].Tags = append(products[i].Tags, row.TagSummary)
	}
	return nil
}

// Create inserts a product and fills in its generated id.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	const q = `INSERT INTO products (name, price, stock, category_id)
              VALUES ($1, $2, $3, $4)
              RETURNING id`

	return r.db.QueryRowxContext(ctx, q,
		product.Name,
		product.Price,
		product.Stock,
		product.CategoryID,
	).Scan(&product.ID)
}

// Update applies patch to the product with the given id.
// It returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepository) Update(ctx context.Context, id int, patch ProductPatch) error {
	const q = `UPDATE products
              SET name = COALESCE($2, name),
                  price = COALESCE($3, price),
                  stock = COALESCE($4, stock),
                  category_id = CASE WHEN $6::boolean THEN $5::integer ELSE category_id END
              WHERE id = $1
              RETURNING id`

	var updatedID int
	return r.db.QueryRowxContext(ctx, q,
		id,
		patch.Name,
		patch.Price,
		patch.Stock,
		patch.CategoryID,
		patch.CategorySet,
	).Scan(&updatedID)
}

// Delete deletes a product by id. Join rows are removed by the FK cascade.
func (r *ProductRepository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
