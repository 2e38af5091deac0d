// Package promocode provides the promocode aggregate used by the pricing
// engine at checkout. A promocode carries a discount definition
// (fixed amount or percentage), a scope (global or a single location), an
// optional validity window, and a usage limit enforced atomically at
// redemption time.
package promocode

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

// ErrInvalidPromocode is the sentinel for promocodes that cannot be applied
// to an order. The concrete InvalidPromocodeError carries the reason.
var ErrInvalidPromocode = errors.New("invalid promocode")

// Reason classifies why a promocode was rejected.
type Reason string

const (
	// ReasonUnknown means no promocode with the given code exists.
	ReasonUnknown Reason = "unknown"

	// ReasonInactive means the code exists but is disabled.
	ReasonInactive Reason = "inactive"

	// ReasonExpired means the current time is outside the validity window.
	ReasonExpired Reason = "expired"

	// ReasonExhausted means the usage limit has been reached.
	ReasonExhausted Reason = "exhausted"

	// ReasonOutOfScope means the code is scoped to a different location.
	ReasonOutOfScope Reason = "out_of_scope"
)

// InvalidPromocodeError reports why a promocode cannot be applied.
type InvalidPromocodeError struct {
	Code   string
	Reason Reason
}

// NewInvalidPromocodeError creates an InvalidPromocodeError for the given
// code and reason.
func NewInvalidPromocodeError(code string, reason Reason) *InvalidPromocodeError {
	return &InvalidPromocodeError{Code: code, Reason: reason}
}

func (e *InvalidPromocodeError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrInvalidPromocode, e.Code, e.Reason)
}

func (e *InvalidPromocodeError) Unwrap() error {
	return ErrInvalidPromocode
}

// DiscountType distinguishes fixed-amount and percentage discounts.
type DiscountType string

const (
	// DiscountFixed subtracts a fixed amount from the subtotal.
	DiscountFixed DiscountType = "fixed"

	// DiscountPercent subtracts a percentage of the subtotal.
	DiscountPercent DiscountType = "percent"
)

// Scope distinguishes platform-wide codes from location-scoped ones.
type Scope string

const (
	// ScopeGlobal codes apply at every location.
	ScopeGlobal Scope = "global"

	// ScopeLocation codes apply only at their own location.
	ScopeLocation Scope = "location"
)

// Promocode is the discount aggregate resolved at checkout.
//
// usedCount is shown here for reads; the authoritative increment happens
// through an atomic conditional update in the repository so that
// concurrent checkouts can never push it past usageLimit.
type Promocode struct {
	id           kernel.UUID
	code         string
	discountType DiscountType
	value        int64
	scope        Scope
	locationID   *kernel.UUID
	startsAt     *time.Time
	endsAt       *time.Time
	usageLimit   int
	usedCount    int
	isActive     bool

	isConstructed bool
}

// NewPromocode creates a promocode definition.
//
// value is cents for fixed codes and whole percent (0..100] for percent
// codes. Location-scoped codes must carry a location id.
func NewPromocode(
	id kernel.UUID,
	code string,
	discountType DiscountType,
	value int64,
	scope Scope,
	locationID *kernel.UUID,
	startsAt, endsAt *time.Time,
	usageLimit int,
) (*Promocode, error) {
	p := &Promocode{isActive: true, isConstructed: true}

	if err := errors.Join(
		p.setID(id),
		p.setCode(code),
		p.setDiscount(discountType, value),
		p.setScope(scope, locationID),
		p.setWindow(startsAt, endsAt),
		p.setUsageLimit(usageLimit),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePromocode reconstructs a promocode from persistence.
func RestorePromocode(
	id kernel.UUID,
	code string,
	discountType DiscountType,
	value int64,
	scope Scope,
	locationID *kernel.UUID,
	startsAt, endsAt *time.Time,
	usageLimit, usedCount int,
	isActive bool,
) (*Promocode, error) {
	p, err := NewPromocode(id, code, discountType, value, scope, locationID, startsAt, endsAt, usageLimit)
	if err != nil {
		return nil, err
	}
	p.usedCount = usedCount
	p.isActive = isActive
	return p, nil
}

// Validate ensures the instance was created through a constructor.
func (p *Promocode) Validate() error {
	if p == nil || !p.isConstructed {
		return errors.New("Promocode must be created via NewPromocode or RestorePromocode constructor")
	}
	return nil
}

// ID returns the promocode identifier.
func (p *Promocode) ID() kernel.UUID { return p.id }

// Code returns the customer-facing code string.
func (p *Promocode) Code() string { return p.code }

// DiscountType returns fixed or percent.
func (p *Promocode) DiscountType() DiscountType { return p.discountType }

// Value returns cents for fixed codes, whole percent for percent codes.
func (p *Promocode) Value() int64 { return p.value }

// Scope returns global or location.
func (p *Promocode) Scope() Scope { return p.scope }

// LocationID returns the owning location for location-scoped codes, else nil.
func (p *Promocode) LocationID() *kernel.UUID { return p.locationID }

// StartsAt returns the optional window start.
func (p *Promocode) StartsAt() *time.Time { return p.startsAt }

// EndsAt returns the optional window end.
func (p *Promocode) EndsAt() *time.Time { return p.endsAt }

// UsageLimit returns the maximum number of successful redemptions.
func (p *Promocode) UsageLimit() int { return p.usageLimit }

// UsedCount returns the redemption count as of the last read.
func (p *Promocode) UsedCount() int { return p.usedCount }

// IsActive reports whether the code is enabled.
func (p *Promocode) IsActive() bool { return p.isActive }

// CheckApplicable verifies the code can be applied to an order at the given
// location and time: active, in scope, inside the window, and not yet
// exhausted as of the last read. The exhaustion check here is advisory;
// the conditional update at redemption is what enforces the limit under
// concurrency.
func (p *Promocode) CheckApplicable(locationID kernel.UUID, now time.Time) error {
	if !p.isActive {
		return NewInvalidPromocodeError(p.code, ReasonInactive)
	}
	if p.scope == ScopeLocation && (p.locationID == nil || !p.locationID.IsEqual(locationID)) {
		return NewInvalidPromocodeError(p.code, ReasonOutOfScope)
	}
	if p.startsAt != nil && now.Before(*p.startsAt) {
		return NewInvalidPromocodeError(p.code, ReasonExpired)
	}
	if p.endsAt != nil && now.After(*p.endsAt) {
		return NewInvalidPromocodeError(p.code, ReasonExpired)
	}
	if p.usedCount >= p.usageLimit {
		return NewInvalidPromocodeError(p.code, ReasonExhausted)
	}
	return nil
}

// DiscountFor computes the discount for a subtotal, clamped to
// [0, subtotal]. Fixed codes larger than the subtotal discount the whole
// subtotal; percent codes truncate to whole cents.
func (p *Promocode) DiscountFor(subtotal kernel.Money) kernel.Money {
	var discount kernel.Money
	switch p.discountType {
	case DiscountFixed:
		discount = kernel.Money(p.value)
	case DiscountPercent:
		discount = subtotal.Percent(p.value)
	}

	if discount.IsNegative() {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}

func (p *Promocode) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Promocode) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("promocode code")
	}
	p.code = code
	return nil
}

func (p *Promocode) setDiscount(t DiscountType, value int64) error {
	switch t {
	case DiscountFixed:
		if value <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"promocode value",
				fmt.Errorf("%d cents is not greater than 0", value),
			)
		}
	case DiscountPercent:
		if value <= 0 || value > 100 {
			return errs.NewValueIsOutOfRangeError("promocode percent", value, 1, 100)
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"promocode type",
			fmt.Errorf("%q is not a valid discount type", t),
		)
	}

	p.discountType = t
	p.value = value
	return nil
}

func (p *Promocode) setScope(scope Scope, locationID *kernel.UUID) error {
	switch scope {
	case ScopeGlobal:
		p.scope = scope
		return nil
	case ScopeLocation:
		if locationID == nil {
			return errs.NewValueIsRequiredError("promocode location id")
		}
		if err := locationID.Validate(); err != nil {
			return err
		}
		p.scope = scope
		p.locationID = locationID
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"promocode scope",
			fmt.Errorf("%q is not a valid scope", scope),
		)
	}
}

func (p *Promocode) setWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"promocode window",
			fmt.Errorf("ends at %s before starts at %s", endsAt, startsAt),
		)
	}
	p.startsAt = startsAt
	p.endsAt = endsAt
	return nil
}

func (p *Promocode) setUsageLimit(limit int) error {
	if limit <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"promocode usage limit",
			fmt.Errorf("%d is not greater than 0", limit),
		)
	}
	p.usageLimit = limit
	return nil
}
