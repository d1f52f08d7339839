package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesRegisteredClients(t *testing.T) {
	hub := NewHub()
	a := hub.Register("a")
	b := hub.Register("b")
	assert.Equal(t, 2, hub.ClientCount())

	hub.Broadcast(NewCatalogEvent(EventTagCreated, 7, map[string]string{"name": "sale"}))

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.Events:
			var ev CatalogEvent
			require.NoError(t, json.Unmarshal(data, &ev))
			assert.Equal(t, EventTagCreated, ev.Event)
			assert.Equal(t, 7, ev.EntityID)
		default:
			t.Fatalf("client %s received nothing", c.ID)
		}
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	c := hub.Register("gone")
	hub.Unregister("gone")
	hub.Unregister("gone")

	_, open := <-c.Events
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
}

func TestHub_BroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")

	for i := 0; i < cap(c.Events)+10; i++ {
		hub.Broadcast(NewCatalogEvent(EventProductUpdated, i, nil))
	}
	assert.Len(t, c.Events, cap(c.Events))
}

type recordingNotifier struct{ events []*CatalogEvent }

func (r *recordingNotifier) Notify(event *CatalogEvent) { r.events = append(r.events, event) }

func TestMultiNotifier_FansOut(t *testing.T) {
	first, second := &recordingNotifier{}, &recordingNotifier{}
	multi := MultiNotifier{first, &NopNotifier{}, second}

	ev := NewCatalogEvent(EventCategoryDeleted, 3, nil)
	multi.Notify(ev)

	assert.Equal(t, []*CatalogEvent{ev}, first.events)
	assert.Equal(t, []*CatalogEvent{ev}, second.events)
}

func TestHubNotifier_SkipsWithoutClients(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub)
	n.Notify(NewCatalogEvent(EventProductCreated, 1, nil))

	c := hub.Register("late")
	assert.Empty(t, c.Events)

	n.Notify(NewCatalogEvent(EventProductCreated, 2, nil))
	assert.Len(t, c.Events, 1)
}

func TestHub_CloseDisconnectsEveryone(t *testing.T) {
	hub := NewHub()
	a := hub.Register("a")
	b := hub.Register("b")

	hub.Close()
	hub.Unregister("a")

	for _, c := range []*Client{a, b} {
		_, open := <-c.Events
		assert.False(t, open, c.ID)
	}
	assert.Zero(t, hub.ClientCount())
}
