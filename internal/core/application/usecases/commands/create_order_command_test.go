package commands_test

import (
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	locationID := kernel.NewUUID()
	items := []commands.ItemSpec{{ProductID: kernel.NewUUID(), Quantity: 2}}

	cmd, err := commands.NewCreateOrderCommand(orderID, locationID, nil, "Dana", items, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, locationID, cmd.LocationID())
	assert.Nil(t, cmd.UserID())
	assert.Equal(t, "Dana", cmd.CustomerName())
	assert.Len(t, cmd.Items(), 1)
	assert.Equal(t, "WELCOME10", cmd.PromocodeCode())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	items := []commands.ItemSpec{{ProductID: kernel.NewUUID(), Quantity: 1}}

	_, err := commands.NewCreateOrderCommand(invalidID, kernel.NewUUID(), nil, "", items, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), nil, "", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateOrderCommand_ZeroQuantity(t *testing.T) {
	items := []commands.ItemSpec{{ProductID: kernel.NewUUID(), Quantity: 0}}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), nil, "", items, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewCreateOrderCommand_NegativeModifierPrice(t *testing.T) {
	items := []commands.ItemSpec{{
		ProductID: kernel.NewUUID(),
		Quantity:  1,
		Modifiers: []commands.ItemModifierSpec{{
			ModifierOptionID: kernel.NewUUID(),
			Price:            kernel.Money(-50),
		}},
	}}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), nil, "", items, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
