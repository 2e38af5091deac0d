package commands_test

import (
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(id, order.Cancelled, "customer left", "manager")
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.Cancelled, cmd.TargetStatus())
	assert.Equal(t, "customer left", cmd.CancellationReason())
	assert.Equal(t, "manager", cmd.Actor())
}

func TestNewTransitionOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.UUID{}, order.Accepted, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewTransitionOrderCommand_UnknownStatus(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Status(99), "", "")
	require.Error(t, err)
}
