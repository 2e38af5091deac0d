package kernel

import (
	"fmt"

	"ordering/internal/pkg/errs"
)

// Money represents a monetary amount as an integer number of cents.
// Using integer cents avoids floating point rounding in price arithmetic;
// all pricing, discount, and total computations operate on this type.
//
// Money is a value object: arithmetic methods return new values and never
// mutate the receiver. Negative amounts are representable (they can appear
// as intermediate values) but domain constructors reject them where the
// business rules require non-negative amounts.
//
// Example:
//
//	price, _ := kernel.NewMoney(250) // 2.50
//	total := price.MulQuantity(3)    // 7.50
//	fmt.Println(total)               // Output: 7.50
type Money int64

// NewMoney creates a Money value from an amount in cents.
// Returns an error if the amount is negative, since prices and totals
// in the ordering domain are never negative.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"money amount",
			fmt.Errorf("%d cents is negative", cents),
		)
	}
	return Money(cents), nil
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference of two amounts.
// The result may be negative; callers enforce domain bounds.
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulQuantity returns the amount multiplied by an item quantity.
func (m Money) MulQuantity(qty int) Money {
	return m * Money(qty)
}

// Percent returns the given percentage of the amount, truncated to whole
// cents. Used for percent-type promocode discounts.
func (m Money) Percent(value int64) Money {
	return m * Money(value) / 100
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String renders the amount as a decimal string, e.g. "12.34".
// Implements fmt.Stringer for logs and display.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
