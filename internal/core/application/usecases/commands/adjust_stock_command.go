package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrAdjustStockCommandIsNotConstructed = errors.New(
		"AdjustStockCommand must be created via NewAdjustStockCommand constructor",
	)
)

// AdjustStockCommand represents a relative stock change for one ledger row,
// such as a delivery (+N) or spoilage (-N).
type AdjustStockCommand struct { //nolint:recvcheck //using for validation
	locationProductID kernel.UUID
	delta             int

	guard guard.ConstructorGuard
}

// NewAdjustStockCommand creates a stock adjustment command. Delta may be
// negative; the ledger clamps the resulting quantity at zero.
func NewAdjustStockCommand(locationProductID kernel.UUID, delta int) (AdjustStockCommand, error) {
	if err := locationProductID.Validate(); err != nil {
		return AdjustStockCommand{}, err
	}
	return AdjustStockCommand{
		locationProductID: locationProductID,
		delta:             delta,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdjustStockCommand) Validate() error {
	return c.guard.Validate(ErrAdjustStockCommandIsNotConstructed)
}

// LocationProductID returns the ledger row to adjust.
func (c AdjustStockCommand) LocationProductID() kernel.UUID {
	return c.locationProductID
}

// Delta returns the relative quantity change.
func (c AdjustStockCommand) Delta() int {
	return c.delta
}
