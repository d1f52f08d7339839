// Package repotest provides an in-memory repository.Transactor for tests.
// It mirrors the PostgreSQL schema rules that callers can observe: generated
// ids, sql.ErrNoRows on missing rows, foreign keys, cascades and the
// non-negative price/stock checks.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
)

type state struct {
	categories  map[int]models.Category
	products    map[int]models.Product
	tags        map[int]models.Tag
	productTags map[int]models.ProductTag
	seq         map[string]int
}

func newState() *state {
	return &state{
		categories:  map[int]models.Category{},
		products:    map[int]models.Product{},
		tags:        map[int]models.Tag{},
		productTags: map[int]models.ProductTag{},
		seq:         map[string]int{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.productTags {
		c.productTags[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *state) next(table string) int {
	s.seq[table]++
	return s.seq[table]
}

// MemoryStore is a goroutine-safe in-memory implementation of repository.Transactor.
type MemoryStore struct {
	mu    sync.Mutex
	st    *state
	fail  map[string]error
	calls int
	txs   int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newState(), fail: map[string]error{}}
}

// Fail makes every later call of op return err. Ops are named
// "<repo>.<Method>", e.g. "products.List" or "productTags.BulkCreate";
// "tx.Begin" fails WithTx itself.
func (m *MemoryStore) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
}

// Calls returns how many repository calls have been made.
func (m *MemoryStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Transactions returns how many units of work were started with WithTx.
func (m *MemoryStore) Transactions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txs
}

// Repositories implements repository.Transactor.
func (m *MemoryStore) Repositories() repository.Repositories {
	return repository.Repositories{
		Categories:  &categoryRepo{m},
		Products:    &productRepo{m},
		Tags:        &tagRepo{m},
		ProductTags: &productTagRepo{m},
	}
}

// WithTx implements repository.Transactor. State changes made by fn are
// discarded when it returns an error.
func (m *MemoryStore) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	m.mu.Lock()
	m.txs++
	if err := m.fail["tx.Begin"]; err != nil {
		m.mu.Unlock()
		return err
	}
	snapshot := m.st.clone()
	m.mu.Unlock()

	if err := fn(m.Repositories()); err != nil {
		m.mu.Lock()
		m.st = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// enter locks the store and records a call to op. The caller must unlock.
func (m *MemoryStore) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.fail[op]
}

func fkViolation(table, column string, id int) error {
	return fmt.Errorf("insert or update on table %q violates foreign key constraint on %s=%d", table, column, id)
}

type categoryRepo struct{ m *MemoryStore }

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "categories.List"); err != nil {
		return nil, err
	}
	out := []models.Category{}
	for _, c := range r.m.st.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int) (*models.CategoryDetail, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "categories.GetByID"); err != nil {
		return nil, err
	}
	c, ok := r.m.st.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := models.CategoryDetail{Category: c, Products: []models.ProductSummary{}}
	for _, p := range sortedProducts(r.m.st) {
		if p.CategoryID != nil && *p.CategoryID == id {
			d.Products = append(d.Products, models.ProductSummary{ID: p.ID, Name: p.Name})
		}
	}
	return &d, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "categories.Create"); err != nil {
		return err
	}
	category.ID = r.m.st.next("categories")
	r.m.st.categories[category.ID] = models.Category{ID: category.ID, Name: category.Name}
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "categories.Update"); err != nil {
		return err
	}
	if _, ok := r.m.st.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	r.m.st.categories[category.ID] = models.Category{ID: category.ID, Name: category.Name}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int) (int64, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "categories.Delete"); err != nil {
		return 0, err
	}
	if _, ok := r.m.st.categories[id]; !ok {
		return 0, nil
	}
	delete(r.m.st.categories, id)
	for pid, p := range r.m.st.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			r.m.st.products[pid] = p
		}
	}
	return 1, nil
}

type productRepo struct{ m *MemoryStore }

func sortedProducts(st *state) []models.Product {
	out := make([]models.Product, 0, len(st.products))
	for _, p := range st.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedProductTags(st *state) []models.ProductTag {
	out := make([]models.ProductTag, 0, len(st.productTags))
	for _, pt := range st.productTags {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// nest fills in the category and tags of p the way the SQL joins do.
func nest(st *state, p models.Product) models.Product {
	if p.CategoryID != nil {
		if c, ok := st.categories[*p.CategoryID]; ok {
			p.Category = &models.CategorySummary{ID: c.ID, Name: c.Name}
		}
	}
	p.Tags = []models.TagSummary{}
	for _, pt := range sortedProductTags(st) {
		if pt.ProductID != p.ID {
			continue
		}
		if t, ok := st.tags[pt.TagID]; ok {
			p.Tags = append(p.Tags, models.TagSummary{ID: t.ID, Name: t.Name})
		}
	}
	sort.SliceStable(p.Tags, func(i, j int) bool { return p.Tags[i].ID < p.Tags[j].ID })
	return p
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "products.List"); err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range sortedProducts(r.m.st) {
		out = append(out, nest(r.m.st, p))
	}
	return out, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "products.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.m.st.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	p = nest(r.m.st, p)
	return &p, nil
}

func (r *productRepo) checkRow(p models.Product) error {
	if p.Price.IsNegative() || p.Stock < 0 {
		return fmt.Errorf("new row for relation \"products\" violates check constraint")
	}
	if p.CategoryID != nil {
		if _, ok := r.m.st.categories[*p.CategoryID]; !ok {
			return fkViolation("products", "category_id", *p.CategoryID)
		}
	}
	return nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "products.Create"); err != nil {
		return err
	}
	if err := r.checkRow(*product); err != nil {
		return err
	}
	product.ID = r.m.st.next("products")
	stored := *product
	stored.Category, stored.Tags = nil, nil
	r.m.st.products[product.ID] = stored
	return nil
}

func (r *productRepo) Update(ctx context.Context, id int, patch repository.ProductPatch) error {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "products.Update"); err != nil {
		return err
	}
	p, ok := r.m.st.products[id]
	if !ok {
		return sql.ErrNoRows
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.CategorySet {
		p.CategoryID = nil
		if patch.CategoryID != nil {
			categoryID := *patch.CategoryID
			p.CategoryID = &categoryID
		}
	}
	if err := r.checkRow(p); err != nil {
		return err
	}
	r.m.st.products[id] = p
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int) (int64, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "products.Delete"); err != nil {
		return 0, err
	}
	if _, ok := r.m.st.products[id]; !ok {
		return 0, nil
	}
	delete(r.m.st.products, id)
	for ptID, pt := range r.m.st.productTags {
		if pt.ProductID == id {
			delete(r.m.st.productTags, ptID)
		}
	}
	return 1, nil
}

type tagRepo struct{ m *MemoryStore }

func (r *tagRepo) withProducts(t models.Tag) models.Tag {
	t.Products = []models.ProductSummary{}
	for _, pt := range sortedProductTags(r.m.st) {
		if pt.TagID != t.ID {
			continue
		}
		if p, ok := r.m.st.products[pt.ProductID]; ok {
			t.Products = append(t.Products, models.ProductSummary{ID: p.ID, Name: p.Name})
		}
	}
	sort.SliceStable(t.Products, func(i, j int) bool { return t.Products[i].ID < t.Products[j].ID })
	return t
}

func (r *tagRepo) List(ctx context.Context) ([]models.Tag, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "tags.List"); err != nil {
		return nil, err
	}
	out := []models.Tag{}
	for _, t := range r.m.st.tags {
		out = append(out, r.withProducts(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *tagRepo) GetByID(ctx context.Context, id int) (*models.Tag, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "tags.GetByID"); err != nil {
		return nil, err
	}
	t, ok := r.m.st.tags[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	t = r.withProducts(t)
	return &t, nil
}

func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "tags.Create"); err != nil {
		return err
	}
	tag.ID = r.m.st.next("tags")
	r.m.st.tags[tag.ID] = models.Tag{ID: tag.ID, Name: tag.Name}
	return nil
}

func (r *tagRepo) Update(ctx context.Context, id int, name *string) (*models.Tag, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "tags.Update"); err != nil {
		return nil, err
	}
	t, ok := r.m.st.tags[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if name != nil {
		t.Name = *name
	}
	r.m.st.tags[id] = t
	return &models.Tag{ID: t.ID, Name: t.Name}, nil
}

func (r *tagRepo) Delete(ctx context.Context, id int) (int64, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "tags.Delete"); err != nil {
		return 0, err
	}
	if _, ok := r.m.st.tags[id]; !ok {
		return 0, nil
	}
	delete(r.m.st.tags, id)
	for ptID, pt := range r.m.st.productTags {
		if pt.TagID == id {
			delete(r.m.st.productTags, ptID)
		}
	}
	return 1, nil
}

type productTagRepo struct{ m *MemoryStore }

func (r *productTagRepo) ListByProduct(ctx context.Context, productID int) ([]models.ProductTag, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "productTags.ListByProduct"); err != nil {
		return nil, err
	}
	out := []models.ProductTag{}
	for _, pt := range sortedProductTags(r.m.st) {
		if pt.ProductID == productID {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (r *productTagRepo) BulkCreate(ctx context.Context, rows []models.ProductTag) ([]models.ProductTag, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "productTags.BulkCreate"); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, ok := r.m.st.products[row.ProductID]; !ok {
			return nil, fkViolation("product_tags", "product_id", row.ProductID)
		}
		if _, ok := r.m.st.tags[row.TagID]; !ok {
			return nil, fkViolation("product_tags", "tag_id", row.TagID)
		}
	}
	created := []models.ProductTag{}
	for _, row := range rows {
		row.ID = r.m.st.next("product_tags")
		r.m.st.productTags[row.ID] = row
		created = append(created, row)
	}
	return created, nil
}

func (r *productTagRepo) DeleteByIDs(ctx context.Context, ids []int) (int64, error) {
	defer r.m.mu.Unlock()
	if err := r.m.enter(ctx, "productTags.DeleteByIDs"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if _, ok := r.m.st.productTags[id]; ok {
			delete(r.m.st.productTags, id)
			n++
		}
	}
	return n, nil
}

var _ repository.Transactor = (*MemoryStore)(nil)
