package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransitionOrderRepository struct{ mock.Mock }

func (m *MockTransitionOrderRepository) NextOrderNumber(_ context.Context, _ kernel.UUID) (int, error) {
	return 0, errors.New("not implemented in mock")
}
func (m *MockTransitionOrderRepository) Add(_ context.Context, _ *order.Order) error {
	return errors.New("not implemented in mock")
}
func (m *MockTransitionOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}
func (m *MockTransitionOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockTransitionOrderRepository) GetActiveByLocation(_ context.Context, _ kernel.UUID) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockTransitionOrderRepository) GetKitchenQueue(_ context.Context, _ kernel.UUID) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockTransitionOrderRepository) AppendHistory(ctx context.Context, change order.StatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

type MockTransitionUoW struct{ mock.Mock }

func (m *MockTransitionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTransitionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTransitionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTransitionUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockTransitionUoWFactory struct{ mock.Mock }

func (m *MockTransitionUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

func orderInStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), 1, mustMoney(t, 9000), nil)
	require.NoError(t, err)

	paymentStatus := order.PaymentPaid
	if status == order.Created {
		paymentStatus = order.PaymentPending
	}

	o, err := order.RestoreOrder(
		kernel.NewUUID(), 12, kernel.NewUUID(), nil,
		status, paymentStatus,
		item.TotalPrice(), kernel.Money(0), nil,
		"Dana", "",
		time.Now().UTC().Add(-5*time.Minute),
		nil, nil, nil, nil, nil,
		[]order.Item{item},
	)
	require.NoError(t, err)
	return o
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	existing := orderInStatus(t, order.Paid)
	cmd, err := commands.NewTransitionOrderCommand(existing.ID(), order.Accepted, "", "barista-1")
	require.NoError(t, err)

	repo := new(MockTransitionOrderRepository)
	uow := new(MockTransitionUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", mock.Anything, existing, order.Paid).Return(nil).Once(),
		repo.On("AppendHistory", mock.Anything, mock.AnythingOfType("order.StatusChange")).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &recordingPublisher{}
	h := commands.NewTransitionOrderCommandHandler(factory, publisher, testStoreTimeout)

	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, order.Accepted, updated.Status())
	require.NotNil(t, updated.AcceptedAt())
	require.Equal(t, 1, publisher.statusChanges)
	require.Equal(t, 1, publisher.snapshots)
	require.Zero(t, publisher.ready)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ReadyPublishesSpecial(t *testing.T) {
	ctx := t.Context()
	existing := orderInStatus(t, order.Preparing)
	cmd, err := commands.NewTransitionOrderCommand(existing.ID(), order.Ready, "", "barista-1")
	require.NoError(t, err)

	repo := new(MockTransitionOrderRepository)
	uow := new(MockTransitionUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", mock.Anything, existing, order.Preparing).Return(nil).Once(),
		repo.On("AppendHistory", mock.Anything, mock.AnythingOfType("order.StatusChange")).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &recordingPublisher{}
	h := commands.NewTransitionOrderCommandHandler(factory, publisher, testStoreTimeout)

	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, order.Ready, updated.Status())
	require.Equal(t, 1, publisher.ready)
	require.Equal(t, 1, publisher.statusChanges)
}

func TestTransitionOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	existing := orderInStatus(t, order.Paid)
	cmd, err := commands.NewTransitionOrderCommand(existing.ID(), order.Completed, "", "barista-1")
	require.NoError(t, err)

	repo := new(MockTransitionOrderRepository)
	uow := new(MockTransitionUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, existing.ID()).Return(existing, nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := &recordingPublisher{}
	h := commands.NewTransitionOrderCommandHandler(factory, publisher, testStoreTimeout)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	require.Equal(t, order.Paid, existing.Status())
	require.Zero(t, publisher.statusChanges)
}

func TestTransitionOrderCommandHandler_Handle_RaceLoserGetsInvalidTransition(t *testing.T) {
	// Two staff race paid -> accepted. The loser's conditional update fails,
	// and the re-read shows the order already accepted, so accepting again
	// is no longer legal.
	ctx := t.Context()
	existing := orderInStatus(t, order.Paid)
	winner := orderInStatus(t, order.Accepted)
	cmd, err := commands.NewTransitionOrderCommand(existing.ID(), order.Accepted, "", "barista-2")
	require.NoError(t, err)

	repo := new(MockTransitionOrderRepository)
	uow := new(MockTransitionUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", mock.Anything, existing, order.Paid).
			Return(errs.NewConcurrencyConflictError("order", existing.ID().String())).Once(),
	)
	uow.On("Rollback", mock.Anything).Return(nil)

	rereadRepo := new(MockTransitionOrderRepository)
	rereadUoW := new(MockTransitionUoW)
	mock.InOrder(
		rereadUoW.On("Begin", mock.Anything).Return(nil).Once(),
		rereadUoW.On("OrderRepository").Return(rereadRepo).Once(),
		rereadRepo.On("Get", mock.Anything, existing.ID()).Return(winner, nil).Once(),
		rereadUoW.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		factory.On("Create").Return(rereadUoW).Once(),
	)

	publisher := &recordingPublisher{}
	h := commands.NewTransitionOrderCommandHandler(factory, publisher, testStoreTimeout)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, order.Accepted, invalid.Current)
	require.Zero(t, publisher.statusChanges)
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_RaceLoserGetsRetryableConflict(t *testing.T) {
	// The winner moved preparing -> ready while the loser was cancelling.
	// Cancelling is still legal from ready, so the loser sees a retryable
	// conflict rather than a verdict based on stale state.
	ctx := t.Context()
	existing := orderInStatus(t, order.Preparing)
	winner := orderInStatus(t, order.Ready)
	cmd, err := commands.NewTransitionOrderCommand(existing.ID(), order.Cancelled, "burnt", "manager")
	require.NoError(t, err)

	repo := new(MockTransitionOrderRepository)
	uow := new(MockTransitionUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", mock.Anything, existing, order.Preparing).
			Return(errs.NewConcurrencyConflictError("order", existing.ID().String())).Once(),
	)
	uow.On("Rollback", mock.Anything).Return(nil)

	rereadRepo := new(MockTransitionOrderRepository)
	rereadUoW := new(MockTransitionUoW)
	mock.InOrder(
		rereadUoW.On("Begin", mock.Anything).Return(nil).Once(),
		rereadUoW.On("OrderRepository").Return(rereadRepo).Once(),
		rereadRepo.On("Get", mock.Anything, existing.ID()).Return(winner, nil).Once(),
		rereadUoW.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		factory.On("Create").Return(rereadUoW).Once(),
	)

	h := commands.NewTransitionOrderCommandHandler(factory, &recordingPublisher{}, testStoreTimeout)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
}

func TestTransitionOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.TransitionOrderCommand{} // not constructed properly

	h := commands.NewTransitionOrderCommandHandler(
		new(MockTransitionUoWFactory), &recordingPublisher{}, testStoreTimeout,
	)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestTransitionOrderCommandHandler_Handle_GetError(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(id, order.Accepted, "", "barista-1")
	require.NoError(t, err)

	repo := new(MockTransitionOrderRepository)
	uow := new(MockTransitionUoW)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).
			Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory, &recordingPublisher{}, testStoreTimeout)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
