package promocode_test

import (
	"testing"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/promocode"
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

func TestNewPromocode(t *testing.T) {
	validID := kernel.NewUUID()

	t.Run("should create valid percent promocode", func(t *testing.T) {
		p, err := promocode.NewPromocode(
			validID, "WELCOME10", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, "WELCOME10", p.Code())
		assert.Equal(t, promocode.DiscountPercent, p.DiscountType())
		assert.True(t, p.IsActive())
		assert.Zero(t, p.UsedCount())
	})

	t.Run("should fail with empty code", func(t *testing.T) {
		_, err := promocode.NewPromocode(
			validID, "", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with percent above 100", func(t *testing.T) {
		_, err := promocode.NewPromocode(
			validID, "BIG", promocode.DiscountPercent, 101,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail with non-positive fixed value", func(t *testing.T) {
		_, err := promocode.NewPromocode(
			validID, "ZERO", promocode.DiscountFixed, 0,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)

		require.Error(t, err)
	})

	t.Run("should require location for location-scoped code", func(t *testing.T) {
		_, err := promocode.NewPromocode(
			validID, "LOCAL", promocode.DiscountPercent, 10,
			promocode.ScopeLocation, nil, nil, nil, 100,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with inverted window", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)

		_, err := promocode.NewPromocode(
			validID, "WINDOW", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, &start, &end, 100,
		)

		require.Error(t, err)
	})

	t.Run("should fail with non-positive usage limit", func(t *testing.T) {
		_, err := promocode.NewPromocode(
			validID, "NOUSES", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 0,
		)

		require.Error(t, err)
	})
}

func TestPromocode_CheckApplicable(t *testing.T) {
	locationID := kernel.NewUUID()
	now := time.Now()

	assertReason := func(t *testing.T, err error, reason promocode.Reason) {
		t.Helper()
		require.Error(t, err)
		assert.ErrorIs(t, err, promocode.ErrInvalidPromocode)
		var invalidPromocode *promocode.InvalidPromocodeError
		require.ErrorAs(t, err, &invalidPromocode)
		assert.Equal(t, reason, invalidPromocode.Reason)
	}

	t.Run("should accept active global code", func(t *testing.T) {
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "OK", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)
		require.NoError(t, err)

		assert.NoError(t, p.CheckApplicable(locationID, now))
	})

	t.Run("should reject inactive code", func(t *testing.T) {
		p, err := promocode.RestorePromocode(
			kernel.NewUUID(), "OFF", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 100, 0, false,
		)
		require.NoError(t, err)

		assertReason(t, p.CheckApplicable(locationID, now), promocode.ReasonInactive)
	})

	t.Run("should accept matching location scope", func(t *testing.T) {
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "LOCAL", promocode.DiscountPercent, 10,
			promocode.ScopeLocation, &locationID, nil, nil, 100,
		)
		require.NoError(t, err)

		assert.NoError(t, p.CheckApplicable(locationID, now))
	})

	t.Run("should reject other location", func(t *testing.T) {
		other := kernel.NewUUID()
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "LOCAL", promocode.DiscountPercent, 10,
			promocode.ScopeLocation, &other, nil, nil, 100,
		)
		require.NoError(t, err)

		assertReason(t, p.CheckApplicable(locationID, now), promocode.ReasonOutOfScope)
	})

	t.Run("should reject before window start", func(t *testing.T) {
		start := now.Add(time.Hour)
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "SOON", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, &start, nil, 100,
		)
		require.NoError(t, err)

		assertReason(t, p.CheckApplicable(locationID, now), promocode.ReasonExpired)
	})

	t.Run("should reject after window end", func(t *testing.T) {
		end := now.Add(-time.Hour)
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "LATE", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, &end, 100,
		)
		require.NoError(t, err)

		assertReason(t, p.CheckApplicable(locationID, now), promocode.ReasonExpired)
	})

	t.Run("should reject exhausted code", func(t *testing.T) {
		p, err := promocode.RestorePromocode(
			kernel.NewUUID(), "GONE", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 5, 5, true,
		)
		require.NoError(t, err)

		assertReason(t, p.CheckApplicable(locationID, now), promocode.ReasonExhausted)
	})
}

func TestPromocode_DiscountFor(t *testing.T) {
	t.Run("percent truncates to whole cents", func(t *testing.T) {
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "TEN", promocode.DiscountPercent, 10,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)
		require.NoError(t, err)

		assert.Equal(t, int64(27), p.DiscountFor(mustMoney(t, 270)).Cents())
		assert.Equal(t, int64(0), p.DiscountFor(mustMoney(t, 9)).Cents())
	})

	t.Run("fixed clamps at the subtotal", func(t *testing.T) {
		p, err := promocode.NewPromocode(
			kernel.NewUUID(), "FIVEOFF", promocode.DiscountFixed, 500,
			promocode.ScopeGlobal, nil, nil, nil, 100,
		)
		require.NoError(t, err)

		assert.Equal(t, int64(500), p.DiscountFor(mustMoney(t, 2000)).Cents())
		assert.Equal(t, int64(300), p.DiscountFor(mustMoney(t, 300)).Cents())
	})
}
