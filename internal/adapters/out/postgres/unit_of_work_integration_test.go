package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/adapters/out/postgres/promorepo"
	"ordering/internal/adapters/out/postgres/stockrepo"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/promocode"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transactional behavior across
// the order, promocode, and stock repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderItemModifierDTO{},
		&orderrepo.StatusHistoryDTO{},
		&orderrepo.OrderCounterDTO{},
		&promorepo.PromocodeDTO{},
		&stockrepo.LocationProductDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_item_modifiers, order_status_history, order_counters, promocodes, location_products",
	).Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(locationID kernel.UUID, number int) *order.Order {
	price, err := kernel.NewMoney(25000)
	suite.Require().NoError(err)

	item, err := order.NewItem(kernel.NewUUID(), 1, price, nil)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), number, locationID, nil, "",
		[]order.Item{item},
		item.TotalPrice(), kernel.Money(0), nil,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) seedPromocode(code string, usageLimit int) *promocode.Promocode {
	promo, err := promocode.NewPromocode(
		kernel.NewUUID(), code, promocode.DiscountPercent, 10,
		promocode.ScopeGlobal, nil, nil, nil, usageLimit,
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Exec(`
		INSERT INTO promocodes (id, code, discount_type, value, scope, usage_limit, used_count, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 0, true)
	`, promo.ID().Bytes(), promo.Code(), string(promo.DiscountType()), promo.Value(),
		string(promo.Scope()), promo.UsageLimit()).Error)

	return promo
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndRedemption() {
	ctx := context.Background()
	locationID := kernel.NewUUID()
	promo := suite.seedPromocode("WELCOME10", 100)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	number, err := uow.OrderRepository().NextOrderNumber(ctx, locationID)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder(locationID, number)))
	suite.Require().NoError(uow.PromocodeRepository().Redeem(ctx, promo.ID()))
	suite.Require().NoError(uow.Commit(ctx))

	var orderCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Equal(int64(1), orderCount)

	var usedCount int
	suite.Require().NoError(suite.db.Raw(
		"SELECT used_count FROM promocodes WHERE id = ?", promo.ID().Bytes(),
	).Scan(&usedCount).Error)
	suite.Equal(1, usedCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndRedemption() {
	ctx := context.Background()
	locationID := kernel.NewUUID()
	promo := suite.seedPromocode("WELCOME10", 100)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder(locationID, 1)))
	suite.Require().NoError(uow.PromocodeRepository().Redeem(ctx, promo.ID()))
	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Zero(orderCount)

	var usedCount int
	suite.Require().NoError(suite.db.Raw(
		"SELECT used_count FROM promocodes WHERE id = ?", promo.ID().Bytes(),
	).Scan(&usedCount).Error)
	suite.Zero(usedCount)
}

// TestRedeem_ConcurrentCheckoutsNeverExceedLimit drives N+5 concurrent
// redemptions against a code with N remaining uses and asserts exactly N
// succeed, the rest fail with the exhausted reason, and the final count
// equals the limit.
func (suite *UnitOfWorkIntegrationTestSuite) TestRedeem_ConcurrentCheckoutsNeverExceedLimit() {
	ctx := context.Background()
	const remaining = 10
	const attempts = remaining + 5
	promo := suite.seedPromocode("LIMITED", remaining)

	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				results <- err
				return
			}
			err := uow.PromocodeRepository().Redeem(ctx, promo.ID())
			if err != nil {
				_ = uow.Rollback(ctx)
				results <- err
				return
			}
			results <- uow.Commit(ctx)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, exhausted int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.Require().ErrorIs(err, promocode.ErrInvalidPromocode)
		var invalid *promocode.InvalidPromocodeError
		suite.Require().ErrorAs(err, &invalid)
		suite.Equal(promocode.ReasonExhausted, invalid.Reason)
		exhausted++
	}
	suite.Equal(remaining, succeeded)
	suite.Equal(attempts-remaining, exhausted)

	var usedCount int
	suite.Require().NoError(suite.db.Raw(
		"SELECT used_count FROM promocodes WHERE id = ?", promo.ID().Bytes(),
	).Scan(&usedCount).Error)
	suite.Equal(remaining, usedCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStockRepository_PersistsZeroValues() {
	ctx := context.Background()

	lp, err := stock.NewLocationProduct(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 3, 5, nil,
	)
	suite.Require().NoError(err)

	dto := map[string]any{
		"id":                  lp.ID().Bytes(),
		"location_id":         lp.LocationID().Bytes(),
		"product_id":          lp.ProductID().Bytes(),
		"stock_quantity":      lp.StockQuantity(),
		"min_stock_threshold": lp.MinStockThreshold(),
		"is_available":        lp.IsAvailable(),
		"unavailable_reason":  lp.UnavailableReason(),
	}
	suite.Require().NoError(suite.db.Table("location_products").Create(dto).Error)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	loaded, err := uow.StockRepository().Get(ctx, lp.ID())
	suite.Require().NoError(err)

	// Deplete to zero; the zero quantity and false availability flag must
	// survive the write.
	loaded.Adjust(-3)
	suite.Require().NoError(uow.StockRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	reloaded, err := suite.factory.Create().StockRepository().Get(ctx, lp.ID())
	suite.Require().NoError(err)
	suite.Zero(reloaded.StockQuantity())
	suite.False(reloaded.IsAvailable())
	suite.Equal("out of stock", reloaded.UnavailableReason())
	suite.Equal(stock.StatusOutOfStock, reloaded.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStockRepository_GuardedUpdateRejectsStaleRead() {
	ctx := context.Background()

	lp, err := stock.NewLocationProduct(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 10, 3, nil,
	)
	suite.Require().NoError(err)

	dto := map[string]any{
		"id":                  lp.ID().Bytes(),
		"location_id":         lp.LocationID().Bytes(),
		"product_id":          lp.ProductID().Bytes(),
		"stock_quantity":      lp.StockQuantity(),
		"min_stock_threshold": lp.MinStockThreshold(),
		"is_available":        lp.IsAvailable(),
		"unavailable_reason":  lp.UnavailableReason(),
	}
	suite.Require().NoError(suite.db.Table("location_products").Create(dto).Error)

	// The first guarded write lands; a write guarded on the same
	// pre-commit quantity must then miss.
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	loaded, err := uow.StockRepository().Get(ctx, lp.ID())
	suite.Require().NoError(err)
	readQuantity := loaded.StockQuantity()
	loaded.Adjust(-4)
	suite.Require().NoError(uow.StockRepository().UpdateIfQuantity(ctx, loaded, readQuantity))
	suite.Require().NoError(uow.Commit(ctx))

	stale := suite.factory.Create()
	suite.Require().NoError(stale.Begin(ctx))

	loaded, err = stale.StockRepository().Get(ctx, lp.ID())
	suite.Require().NoError(err)
	loaded.Adjust(-3)
	err = stale.StockRepository().UpdateIfQuantity(ctx, loaded, readQuantity)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
	suite.Require().NoError(stale.Rollback(ctx))

	reloaded, err := suite.factory.Create().StockRepository().Get(ctx, lp.ID())
	suite.Require().NoError(err)
	suite.Equal(6, reloaded.StockQuantity())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
