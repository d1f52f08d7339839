package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
)

// CategoryRepo is the data access contract for categories.
// Lookups and updates of a missing row return sql.ErrNoRows.
type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int) (*models.CategoryDetail, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int) (int64, error)
}

// ProductRepo is the data access contract for products.
// List and GetByID return products with their category and tags nested.
type ProductRepo interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id int, patch ProductPatch) error
	Delete(ctx context.Context, id int) (int64, error)
}

// TagRepo is the data access contract for tags.
type TagRepo interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id int) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, id int, name *string) (*models.Tag, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// ProductTagRepo is the data access contract for product/tag join rows.
type ProductTagRepo interface {
	ListByProduct(ctx context.Context, productID int) ([]models.ProductTag, error)
	BulkCreate(ctx context.Context, rows []models.ProductTag) ([]models.ProductTag, error)
	DeleteByIDs(ctx context.Context, ids []int) (int64, error)
}

// ProductPatch carries the product columns to change. Nil fields keep their
// value, except CategoryID: it is written whenever CategorySet is true, so a
// nil CategoryID with CategorySet detaches the product from its category.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *int
	CategorySet bool
}

// Repositories bundles one repository per entity, all bound to the same
// connection or transaction.
type Repositories struct {
	Categories  CategoryRepo
	Products    ProductRepo
	Tags        TagRepo
	ProductTags ProductTagRepo
}

// Transactor hands out repositories and runs units of work atomically.
type Transactor interface {
	Repositories() Repositories
	WithTx(ctx context.Context, fn func(r Repositories) error) error
}

// Store is the PostgreSQL backed Transactor.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new Store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Repositories returns repositories bound to the connection pool.
func (s *Store) Repositories() Repositories {
	return newRepositories(s.db)
}

// WithTx runs fn inside a database transaction. The transaction is committed
// when fn returns nil and rolled back otherwise, including on panic.
func (s *Store) WithTx(ctx context.Context, fn func(r Repositories) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func newRepositories(db sqlx.ExtContext) Repositories {
	return Repositories{
		Categories:  NewCategoryRepository(db),
		Products:    NewProductRepository(db),
		Tags:        NewTagRepository(db),
		ProductTags: NewProductTagRepository(db),
	}
}

// int64s converts ids for pq.Array, which has native support for []int64.
func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
