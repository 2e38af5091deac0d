package kernel

import (
	"fmt"

	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not initialized through
// one of the constructor functions. Validating a zero-value UUID returns it.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the identifier value object shared by every aggregate in the
// ordering core: orders, locations, products, ledger rows, and promocodes
// all carry one. It wraps github.com/google/uuid so the domain never
// handles raw identifier bytes directly.
//
// The zero value is invalid; construct through NewUUID, UUIDFromString,
// or UUIDFromBytes. UUID is immutable, comparable, and safe to use as a
// map key, which the realtime hub relies on when routing by location.
//
// Example usage:
//
//	// Fresh identifier for a new aggregate
//	orderID := kernel.NewUUID()
//
//	// Parse an identifier arriving on the API surface
//	locationID, err := kernel.UUIDFromString(c.Param("id"))
//	if err != nil {
//	    // handle error
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random version-4 UUID. Every aggregate created by
// the core gets its identity from here.
//
// Example:
//
//	promoID := kernel.NewUUID()
//	fmt.Println(promoID.String()) // e.g. "3f1c9e9a-0b5d-4c9f-8f2a-7d6e5b4a3c21"
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses a UUID from its text form. Standard layouts are
// accepted, including braced and urn:uuid prefixed variants.
//
// Returns an error when the string does not parse. This is the entry
// point for identifiers arriving from route parameters, request bodies,
// and realtime subscription frames.
//
// Example:
//
//	locationID, err := kernel.UUIDFromString(req.LocationID)
//	if err != nil {
//	    return fmt.Errorf("invalid location ID: %w", err)
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes creates a UUID from a 16-byte slice, the form the
// repositories read back from uuid columns. A nil (all-zero) identifier
// is rejected so restored aggregates can never carry a blank identity.
//
// Example:
//
//	orderID, err := kernel.UUIDFromBytes(dto.ID[:])
//	if err != nil {
//	    return fmt.Errorf("invalid order ID: %w", err)
//	}
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
// form, used in API responses, realtime payloads, and log fields. A zero
// value renders as all zeros.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID, which GORM maps to a uuid
// column. For a plain byte slice, slice the result: id.Bytes()[:].
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual compares two UUIDs by value.
//
// Example:
//
//	if o.LocationID().IsEqual(cmd.LocationID()) {
//	    // same location
//	}
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate reports whether the UUID came from a constructor.
// Returns ErrUUIDIsNotConstructed for the zero value, so aggregate
// setters reject identifiers that were never assigned.
//
// Example:
//
//	func (o *Order) setLocationID(id kernel.UUID) error {
//	    if err := id.Validate(); err != nil {
//	        return err
//	    }
//	    o.locationID = id
//	    return nil
//	}
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
