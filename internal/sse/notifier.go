package sse

// CatalogNotifier is the interface services use to emit catalog change events.
type CatalogNotifier interface {
	Notify(event *CatalogEvent)
}

// HubNotifier implements CatalogNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(event *CatalogEvent) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(event)
}

// MultiNotifier fans an event out to several notifiers in order.
type MultiNotifier []CatalogNotifier

func (m MultiNotifier) Notify(event *CatalogEvent) {
	for _, n := range m {
		n.Notify(event)
	}
}

// NopNotifier is a no-op implementation for when events are not needed.
type NopNotifier struct{}

func (n *NopNotifier) Notify(event *CatalogEvent) {}
