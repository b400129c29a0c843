package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
)

// placeTestOrder runs a real placement through the fakes so the cancellation
// tests operate on exactly the state a checkout leaves behind
func placeTestOrder(t *testing.T, state *fakeState) *PlacedOrder {
	t.Helper()
	state.records = []invdomain.Record{
		{ID: 100, VariantID: 1, WarehouseID: 1, QuantityOnHand: 2},
		{ID: 101, VariantID: 1, WarehouseID: 2, QuantityOnHand: 4},
	}
	state.carts[7] = []cartdomain.Line{
		{ID: 1, UserID: 7, VariantID: 1, Quantity: 5, Price: decimal.NewFromInt(150000)},
	}
	handler := NewPlaceOrderHandler(&fakeUOW{state: state}, seedVariants(), &fakePublisher{})
	placed, err := handler.Handle(context.Background(), validPlaceCommand())
	require.NoError(t, err)
	return placed
}

func TestCancelOrderRestoresStockExactly(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	require.Equal(t, 1, state.onHand(1))

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID, UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, 6, state.onHand(1), "every placement decrement must be reversed")
	assert.Equal(t, orderdomain.StatusCancelled, state.orders[0].Status)

	// the restocks carry their own audit trail, mirroring the placement
	var placementQty, restockQty int
	for _, m := range state.movements {
		switch m.Reference {
		case invdomain.RefOrderPlacement:
			placementQty += -m.QuantityChange
		case invdomain.RefOrderCancellation:
			restockQty += m.QuantityChange
		}
	}
	assert.Equal(t, placementQty, restockQty)

	assert.Equal(t, paydomain.StatusCancelled, state.payments[0].Status)
	assert.Equal(t, orderdomain.ShipmentFailed, state.shipments[0].Status)
}

func TestCancelOrderRefundsCompletedPayment(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	state.payments[0].Status = paydomain.StatusCompleted

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID, UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, paydomain.StatusRefunded, state.payments[0].Status)
}

func TestCancelOrderOwnershipCheck(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID, UserID: 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")
	assert.Equal(t, orderdomain.StatusPending, state.orders[0].Status)
	assert.Equal(t, 1, state.onHand(1), "nothing restocked on a denied cancel")
}

func TestCancelOrderStaffBypassesOwnership(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID})
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusCancelled, state.orders[0].Status)
}

func TestCancelOrderRejectsShippedOrder(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	state.orders[0].Status = orderdomain.StatusShipped

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID, UserID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, orderdomain.ErrInvalidTransition)
	assert.Equal(t, 1, state.onHand(1))
}

func TestCancelOrderAbortsWhenStatusChangedConcurrently(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	require.Equal(t, 1, state.onHand(1))
	movementsBefore := len(state.movements)

	// another transaction commits its own cancellation between this
	// transaction's read and its status write
	state.afterFindOrder = func(s *fakeState, order *orderdomain.Order) {
		for i := range s.orders {
			if s.orders[i].ID == order.ID {
				s.orders[i].Status = orderdomain.StatusCancelled
			}
		}
	}

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID, UserID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, orderdomain.ErrConcurrentModification)

	// the losing transaction rolled back whole: its restock and movements
	// must not have landed on top of the winner's
	assert.Equal(t, 1, state.onHand(1), "stock must not be restored twice")
	assert.Len(t, state.movements, movementsBefore)
}

func TestCancelOrderAbortsWhenOrderAdvancedConcurrently(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)

	// a payment callback moves the order to processing while the cancel is
	// in flight; pending -> cancelled no longer matches any row
	state.afterFindOrder = func(s *fakeState, order *orderdomain.Order) {
		for i := range s.orders {
			if s.orders[i].ID == order.ID {
				s.orders[i].Status = orderdomain.StatusProcessing
			}
		}
	}

	handler := NewCancelOrderHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: placed.Order.ID, UserID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, orderdomain.ErrConcurrentModification)
	assert.Equal(t, 1, state.onHand(1))
	assert.Equal(t, paydomain.StatusPending, state.payments[0].Status, "payment untouched by the aborted cancel")
}

func TestCancelOrderUnknownOrder(t *testing.T) {
	handler := NewCancelOrderHandler(&fakeUOW{state: newFakeState()})
	err := handler.Handle(context.Background(), CancelOrderCommand{OrderID: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order not found")
}
