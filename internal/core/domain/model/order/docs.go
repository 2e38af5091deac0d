// Package order provides domain entities and business logic for order
// lifecycle management in the ordering system. It implements the Order
// aggregate root with pricing invariants, stage timestamps, and a
// role-gated status state machine.
//
// The package includes:
//   - Order: The aggregate root managing identity, money amounts, items, and lifecycle
//   - Status: A state machine whose staff transitions live in one auditable table
//   - Item / ItemModifier: Immutable order lines with order-time price snapshots
//   - StatusChange: Rows of the append-only status audit trail
//
// Key business rules:
//   - totalAmount = subtotal - discountAmount, 0 <= discount <= subtotal
//   - Stages are never skipped; completion is only reachable through ready
//   - Each stage timestamp is set at most once
//   - created -> paid and cancelled -> refunded are payment-sourced, not staff actions
//   - Terminal orders are immutable except for audit reads
package order
