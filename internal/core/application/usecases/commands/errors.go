package commands

import (
	"errors"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/promocode"
	"ordering/internal/pkg/errs"
)

// storeError classifies an error coming back from the persistence layer.
// Business-rule errors pass through untouched so callers keep their
// actionable detail; anything else (timeouts, connectivity, driver
// failures) is wrapped as an InfrastructureError whose client-facing
// message stays generic while the cause carries diagnostics.
func storeError(operation string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrConcurrencyConflict),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, promocode.ErrInvalidPromocode):
		return err
	default:
		return errs.NewInfrastructureError(operation, err)
	}
}
