package order_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func validItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 2, mustMoney(t, 500), nil)
	require.NoError(t, err)
	return []order.Item{item}
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	validLocation := kernel.NewUUID()
	now := time.Now()

	t.Run("should create valid order with all valid parameters", func(t *testing.T) {
		items := validItems(t)

		o, err := order.NewOrder(
			validID, 7, validLocation, nil, "Dana",
			items, mustMoney(t, 1000), mustMoney(t, 100), nil, now,
		)

		require.NoError(t, err)
		assert.NotNil(t, o)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.Equal(t, 7, o.OrderNumber())
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, int64(1000), o.Subtotal().Cents())
		assert.Equal(t, int64(100), o.DiscountAmount().Cents())
		assert.Equal(t, int64(900), o.TotalAmount().Cents())
		assert.Equal(t, "Dana", o.CustomerName())
		assert.Nil(t, o.AcceptedAt())
		assert.Nil(t, o.CancelledAt())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(
			invalidID, 7, validLocation, nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail with non-positive order number", func(t *testing.T) {
		o, err := order.NewOrder(
			validID, 0, validLocation, nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "order number")
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(
			validID, 7, validLocation, nil, "",
			nil, mustMoney(t, 1000), 0, nil, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail when discount exceeds subtotal", func(t *testing.T) {
		o, err := order.NewOrder(
			validID, 7, validLocation, nil, "",
			validItems(t), mustMoney(t, 1000), mustMoney(t, 1001), nil, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrder_ConfirmPayment(t *testing.T) {
	now := time.Now()

	t.Run("should move created order to paid", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(), nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)
		require.NoError(t, err)

		change, err := o.ConfirmPayment(now)

		require.NoError(t, err)
		assert.Equal(t, order.Paid, o.Status())
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
		assert.Equal(t, order.Created, change.From)
		assert.Equal(t, order.Paid, change.To)
		assert.Equal(t, order.SourcePayment, change.Source)
	})

	t.Run("should reject double confirmation", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(), nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)
		require.NoError(t, err)

		_, err = o.ConfirmPayment(now)
		require.NoError(t, err)

		_, err = o.ConfirmPayment(now)
		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Paid, o.Status())
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	now := time.Now()

	newPaidOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o, err := order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(), nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)
		require.NoError(t, err)
		_, err = o.ConfirmPayment(now)
		require.NoError(t, err)
		return o
	}

	t.Run("should walk the full happy path and stamp each stage once", func(t *testing.T) {
		o := newPaidOrder(t)

		steps := []struct {
			target order.Status
			stamp  func() *time.Time
		}{
			{order.Accepted, o.AcceptedAt},
			{order.Preparing, o.PreparingAt},
			{order.Ready, o.ReadyAt},
			{order.Completed, o.CompletedAt},
		}

		for i, step := range steps {
			at := now.Add(time.Duration(i+1) * time.Minute)
			change, err := o.TransitionTo(step.target, "", "barista-1", at)

			require.NoError(t, err)
			assert.Equal(t, step.target, o.Status())
			assert.Equal(t, step.target, change.To)
			assert.Equal(t, order.SourceStaff, change.Source)
			assert.Equal(t, "barista-1", change.Actor)
			require.NotNil(t, step.stamp())
			assert.Equal(t, at, *step.stamp())
		}

		assert.True(t, o.Status().IsTerminal())
	})

	t.Run("should record default reason on cancellation without one", func(t *testing.T) {
		o := newPaidOrder(t)

		change, err := o.TransitionTo(order.Cancelled, "", "manager", now)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, order.DefaultCancellationReason, o.CancellationReason())
		assert.Equal(t, order.Cancelled, change.To)
		require.NotNil(t, o.CancelledAt())
	})

	t.Run("should record explicit cancellation reason", func(t *testing.T) {
		o := newPaidOrder(t)

		_, err := o.TransitionTo(order.Cancelled, "customer left", "manager", now)

		require.NoError(t, err)
		assert.Equal(t, "customer left", o.CancellationReason())
	})

	t.Run("should leave order unmutated on rejected transition", func(t *testing.T) {
		o := newPaidOrder(t)

		_, err := o.TransitionTo(order.Completed, "", "barista-1", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Paid, o.Status())
		assert.Nil(t, o.CompletedAt())
		assert.Empty(t, o.CancellationReason())
	})
}

func TestOrder_MarkRefunded(t *testing.T) {
	now := time.Now()

	newCancelledPaidOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o, err := order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(), nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)
		require.NoError(t, err)
		_, err = o.ConfirmPayment(now)
		require.NoError(t, err)
		_, err = o.TransitionTo(order.Cancelled, "", "manager", now)
		require.NoError(t, err)
		return o
	}

	t.Run("should refund a cancelled paid order", func(t *testing.T) {
		o := newCancelledPaidOrder(t)

		change, err := o.MarkRefunded(now)

		require.NoError(t, err)
		assert.Equal(t, order.Refunded, o.Status())
		assert.Equal(t, order.PaymentRefunded, o.PaymentStatus())
		assert.Equal(t, order.Cancelled, change.From)
		assert.Equal(t, order.SourcePayment, change.Source)
	})

	t.Run("should reject refund of a non-cancelled order", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(), nil, "",
			validItems(t), mustMoney(t, 1000), 0, nil, now,
		)
		require.NoError(t, err)
		_, err = o.ConfirmPayment(now)
		require.NoError(t, err)

		_, err = o.MarkRefunded(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should reject refund of an unpaid cancelled order", func(t *testing.T) {
		// Cancellation is only staff-reachable from paid, so build the state
		// through restore: a created order that was never charged.
		o, err := order.RestoreOrder(
			kernel.NewUUID(), 1, kernel.NewUUID(), nil,
			order.Cancelled, order.PaymentPending,
			mustMoney(t, 1000), 0, nil, "", "test", now,
			nil, nil, nil, nil, nil,
			validItems(t),
		)
		require.NoError(t, err)

		_, err = o.MarkRefunded(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestRestoreOrder(t *testing.T) {
	now := time.Now()
	acceptedAt := now.Add(time.Minute)

	t.Run("should restore full state", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), 42, kernel.NewUUID(), nil,
			order.Accepted, order.PaymentPaid,
			mustMoney(t, 2000), mustMoney(t, 200), nil,
			"Sam", "", now,
			&acceptedAt, nil, nil, nil, nil,
			validItems(t),
		)

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, o.Status())
		assert.Equal(t, 42, o.OrderNumber())
		assert.Equal(t, int64(1800), o.TotalAmount().Cents())
		require.NotNil(t, o.AcceptedAt())
		assert.Equal(t, acceptedAt, *o.AcceptedAt())
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), 42, kernel.NewUUID(), nil,
			order.Status(99), order.PaymentPaid,
			mustMoney(t, 2000), 0, nil, "", "", now,
			nil, nil, nil, nil, nil,
			validItems(t),
		)

		require.Error(t, err)
	})
}
