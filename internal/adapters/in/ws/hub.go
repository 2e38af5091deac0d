package ws

import (
	"sync"

	"ordering/internal/core/domain/model/kernel"
)

// Subscriber receives events from the hub. Deliver must never block;
// implementations drop on backpressure.
type Subscriber interface {
	Deliver(event Event)
}

type subscription struct {
	locationID kernel.UUID
	audience   Audience
}

// Hub is the process-local subscriber registry. Each connection holds at
// most one (location, audience) subscription; subscribing again from the
// same connection supersedes the previous subscription.
//
// The hub carries no history and no acknowledgements. An event published
// while nobody is subscribed is simply gone, which is the intended
// contract: current state lives in the store, the hub only accelerates
// its propagation.
type Hub struct {
	mu   sync.RWMutex
	subs map[Subscriber]subscription
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[Subscriber]subscription),
	}
}

// Subscribe registers sub for the given location and audience, replacing
// any previous subscription held by the same subscriber.
func (h *Hub) Subscribe(sub Subscriber, locationID kernel.UUID, audience Audience) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = subscription{locationID: locationID, audience: audience}
}

// Unsubscribe removes the subscriber. Safe to call for a subscriber that
// was never registered.
func (h *Hub) Unsubscribe(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub)
}

// Broadcast delivers an event to every subscriber of the location's
// audience channel. Delivery order across subscribers is unspecified.
func (h *Hub) Broadcast(locationID kernel.UUID, audience Audience, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub, s := range h.subs {
		if s.audience == audience && s.locationID.IsEqual(locationID) {
			sub.Deliver(event)
		}
	}
}

// KitchenDisplayLocations returns the distinct locations that currently
// have at least one kitchen display subscribed. Snapshot publishers use
// this to skip locations nobody is watching.
func (h *Hub) KitchenDisplayLocations() []kernel.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[kernel.UUID]struct{})
	locations := make([]kernel.UUID, 0)
	for _, s := range h.subs {
		if s.audience != AudienceKitchenDisplay {
			continue
		}
		if _, ok := seen[s.locationID]; ok {
			continue
		}
		seen[s.locationID] = struct{}{}
		locations = append(locations, s.locationID)
	}
	return locations
}

// Stats reports current subscriber counts for monitoring.
type Stats struct {
	Total          int `json:"total"`
	Staff          int `json:"staff"`
	KitchenDisplay int `json:"kitchen_display"`
}

// Stats returns a snapshot of subscriber counts by audience.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := Stats{Total: len(h.subs)}
	for _, s := range h.subs {
		switch s.audience {
		case AudienceStaff:
			stats.Staff++
		case AudienceKitchenDisplay:
			stats.KitchenDisplay++
		}
	}
	return stats
}
