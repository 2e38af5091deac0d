package services_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/promocode"
	"ordering/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func TestPricingService_Price(t *testing.T) {
	pricing := services.NewPricingService()
	locationID := kernel.NewUUID()
	now := time.Now()

	t.Run("should sum lines with modifiers into the subtotal", func(t *testing.T) {
		// Two lattes with an oat milk modifier plus one croissant:
		// (180 + 20) * 2 + 70 = 470.
		oatMilk, err := order.NewItemModifier(kernel.NewUUID(), mustMoney(t, 20))
		require.NoError(t, err)

		inputs := []services.ItemInput{
			{
				ProductID: kernel.NewUUID(),
				Quantity:  2,
				BasePrice: mustMoney(t, 180),
				Modifiers: []order.ItemModifier{oatMilk},
			},
			{
				ProductID: kernel.NewUUID(),
				Quantity:  1,
				BasePrice: mustMoney(t, 70),
			},
		}

		quote, err := pricing.Price(inputs, nil, locationID, now)

		require.NoError(t, err)
		assert.Equal(t, int64(470), quote.Subtotal.Cents())
		assert.Equal(t, int64(0), quote.Discount.Cents())
		assert.Equal(t, int64(470), quote.Total.Cents())
		assert.Nil(t, quote.PromocodeID)
		require.Len(t, quote.Items, 2)
		assert.Equal(t, int64(200), quote.Items[0].UnitPrice().Cents())
		assert.Equal(t, int64(400), quote.Items[0].TotalPrice().Cents())
	})

	t.Run("should apply percent discount truncated to whole cents", func(t *testing.T) {
		promo, err := promocode.NewPromocode(
			kernel.NewUUID(), "TEN", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)
		require.NoError(t, err)

		inputs := []services.ItemInput{
			{ProductID: kernel.NewUUID(), Quantity: 1, BasePrice: mustMoney(t, 270)},
		}

		quote, err := pricing.Price(inputs, promo, locationID, now)

		require.NoError(t, err)
		assert.Equal(t, int64(270), quote.Subtotal.Cents())
		assert.Equal(t, int64(27), quote.Discount.Cents())
		assert.Equal(t, int64(243), quote.Total.Cents())
		require.NotNil(t, quote.PromocodeID)
		assert.True(t, quote.PromocodeID.IsEqual(promo.ID()))
	})

	t.Run("should clamp fixed discount at the subtotal", func(t *testing.T) {
		promo, err := promocode.NewPromocode(
			kernel.NewUUID(), "FIVEOFF", promocode.DiscountFixed, 500,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)
		require.NoError(t, err)

		inputs := []services.ItemInput{
			{ProductID: kernel.NewUUID(), Quantity: 1, BasePrice: mustMoney(t, 300)},
		}

		quote, err := pricing.Price(inputs, promo, locationID, now)

		require.NoError(t, err)
		assert.Equal(t, int64(300), quote.Discount.Cents())
		assert.Equal(t, int64(0), quote.Total.Cents())
	})

	t.Run("should reject promocode scoped to another location", func(t *testing.T) {
		otherLocation := kernel.NewUUID()
		promo, err := promocode.NewPromocode(
			kernel.NewUUID(), "LOCAL", promocode.DiscountPercent, 15,
			promocode.ScopeLocation, &otherLocation, nil, nil, 100,
		)
		require.NoError(t, err)

		inputs := []services.ItemInput{
			{ProductID: kernel.NewUUID(), Quantity: 1, BasePrice: mustMoney(t, 300)},
		}

		_, err = pricing.Price(inputs, promo, locationID, now)

		require.Error(t, err)
		var invalidPromocode *promocode.InvalidPromocodeError
		require.ErrorAs(t, err, &invalidPromocode)
		assert.Equal(t, promocode.ReasonOutOfScope, invalidPromocode.Reason)
	})

	t.Run("should reject promocode outside its window", func(t *testing.T) {
		endsAt := now.Add(-time.Hour)
		promo, err := promocode.NewPromocode(
			kernel.NewUUID(), "EXPIRED", promocode.DiscountPercent, 15,
			promocode.ScopeGlobal, nil, nil, &endsAt, 100,
		)
		require.NoError(t, err)

		inputs := []services.ItemInput{
			{ProductID: kernel.NewUUID(), Quantity: 1, BasePrice: mustMoney(t, 300)},
		}

		_, err = pricing.Price(inputs, promo, locationID, now)

		require.Error(t, err)
		var invalidPromocode *promocode.InvalidPromocodeError
		require.ErrorAs(t, err, &invalidPromocode)
		assert.Equal(t, promocode.ReasonExpired, invalidPromocode.Reason)
	})

	t.Run("should reject line with non-positive quantity", func(t *testing.T) {
		inputs := []services.ItemInput{
			{ProductID: kernel.NewUUID(), Quantity: 0, BasePrice: mustMoney(t, 300)},
		}

		_, err := pricing.Price(inputs, nil, locationID, now)

		require.Error(t, err)
	})
}
