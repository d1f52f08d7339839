package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/catalog_api/internal/models"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db sqlx.ExtContext
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db sqlx.ExtContext) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	const q = `SELECT id, name FROM categories ORDER BY id`

	categories := []models.Category{}
	if err := sqlx.SelectContext(ctx, r.db, &categories, q); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a single category by id together with the products filed under it.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.CategoryDetail, error) {
	const q = `SELECT id, name FROM categories WHERE id = $1`

	var c models.CategoryDetail
	if err := sqlx.GetContext(ctx, r.db, &c.Category, q, id); err != nil {
		return nil, err
	}

	const productsQ = `SELECT id, name FROM products WHERE category_id = $1 ORDER BY id`
	c.Products = []models.ProductSummary{}
	if err := sqlx.SelectContext(ctx, r.db, &c.Products, productsQ, id); err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	return &c, nil
}

// Create inserts a category and fills in its generated id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowxContext(ctx, q, category.Name).Scan(&category.ID)
}

// Update renames the category identified by category.ID.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	const q = `UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name`
	return r.db.QueryRowxContext(ctx, q, category.ID, category.Name).StructScan(category)
}

// Delete deletes a category by id and reports how many rows were removed.
func (r *CategoryRepository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
