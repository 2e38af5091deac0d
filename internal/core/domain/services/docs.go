// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the ordering system. It
// implements logic that doesn't naturally belong to a single aggregate root.
//
// The package includes:
//   - PricingService: checkout pricing from resolved item inputs and an optional promocode
//   - KitchenBoard: the single aggregator deriving preparing/ready display queues
//
// Both services are pure: they compute results from their inputs without
// touching persistence, which keeps the query path and the realtime
// snapshot path guaranteed to agree.
package services
