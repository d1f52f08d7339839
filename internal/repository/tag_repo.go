package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/catalog_api/internal/models"
)

// TagRepository handles data access for tags.
type TagRepository struct {
	db sqlx.ExtContext
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db sqlx.ExtContext) *TagRepository {
	return &TagRepository{db: db}
}

// taggedProductRow is a product carrying the tag identified by TagID.
type taggedProductRow struct {
	TagID int `db:"tag_id"`
	models.ProductSummary
}

// List returns all tags ordered by id, each with its tagged products.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	const q = `SELECT id, COALESCE(name, '') AS name FROM tags ORDER BY id`

	tags := []models.Tag{}
	if err := sqlx.SelectContext(ctx, r.db, &tags, q); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if err := r.attachProducts(ctx, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByID returns a single tag by id with its tagged products.
func (r *TagRepository) GetByID(ctx context.Context, id int) (*models.Tag, error) {
	const q = `SELECT id, COALESCE(name, '') AS name FROM tags WHERE id = $1`

	var t models.Tag
	if err := sqlx.GetContext(ctx, r.db, &t, q, id); err != nil {
		return nil, err
	}

	tags := []models.Tag{t}
	if err := r.attachProducts(ctx, tags); err != nil {
		return nil, err
	}
	return &tags[0], nil
}

func (r *TagRepository) attachProducts(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	ids := make([]int, len(tags))
	byID := make(map[int]int, len(tags))
	for i := range tags {
		tags[i].Products = []models.ProductSummary{}
		ids[i] = tags[i].ID
		byID[tags[i].ID] = i
	}

	const q = `
        SELECT pt.tag_id, p.id, p.name
        FROM product_tags pt
        JOIN products p ON p.id = pt.product_id
        WHERE pt.tag_id = ANY($1)
        ORDER BY pt.tag_id, p.id`

	var rows []taggedProductRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, q, pq.Array(int64s(ids))); err != nil {
		return fmt.Errorf("list tagged products: %w", err)
	}

	for _, row := range rows {
		i := byID[row.TagID]
		tags[i].Products = append(tags[i].Products, row.ProductSummary)
	}
	return nil
}

// Create inserts a tag and fills in its generated id.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	const q = `INSERT INTO tags (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowxContext(ctx, q, tag.Name).Scan(&tag.ID)
}

// Update renames a tag. A nil name keeps the current one; the call then only
// checks that the tag exists. Returns sql.ErrNoRows for a missing tag.
func (r *TagRepository) Update(ctx context.Context, id int, name *string) (*models.Tag, error) {
	const q = `UPDATE tags SET name = COALESCE($2, name) WHERE id = $1
              RETURNING id, COALESCE(name, '') AS name`

	var t models.Tag
	if err := r.db.QueryRowxContext(ctx, q, id, name).StructScan(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete deletes a tag by id. Join rows are removed by the FK cascade.
func (r *TagRepository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
