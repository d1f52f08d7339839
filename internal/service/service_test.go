package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository/repotest"
	"github.com/GTDGit/catalog_api/internal/sse"
)

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu     sync.Mutex
	events []*sse.CatalogEvent
}

func (r *recordingNotifier) Notify(event *sse.CatalogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Event
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// seedTags creates one tag per name and returns their ids in order.
func seedTags(t *testing.T, store *repotest.MemoryStore, names ...string) []int {
	t.Helper()
	ids := make([]int, len(names))
	for i, name := range names {
		tag := &models.Tag{Name: name}
		require.NoError(t, store.Repositories().Tags.Create(context.Background(), tag))
		ids[i] = tag.ID
	}
	return ids
}

func seedCategory(t *testing.T, store *repotest.MemoryStore, name string) int {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, store.Repositories().Categories.Create(context.Background(), c))
	return c.ID
}
