package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
)

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	handler := NewUpdateStatusHandler(&fakeUOW{state: state})

	err := handler.Handle(context.Background(), UpdateStatusCommand{OrderID: placed.Order.ID, Status: orderdomain.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusProcessing, state.orders[0].Status)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	handler := NewUpdateStatusHandler(&fakeUOW{state: state})

	err := handler.Handle(context.Background(), UpdateStatusCommand{OrderID: placed.Order.ID, Status: orderdomain.StatusDelivered})
	require.Error(t, err)
	assert.ErrorIs(t, err, orderdomain.ErrInvalidTransition)
	assert.Equal(t, orderdomain.StatusPending, state.orders[0].Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	handler := NewUpdateStatusHandler(&fakeUOW{state: newFakeState()})
	err := handler.Handle(context.Background(), UpdateStatusCommand{OrderID: 1, Status: "archived"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestUpdateStatusToCancelledRunsFullCancellation(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	require.Equal(t, 1, state.onHand(1))

	handler := NewUpdateStatusHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), UpdateStatusCommand{OrderID: placed.Order.ID, Status: orderdomain.StatusCancelled})
	require.NoError(t, err)

	// not a bare column update: stock comes back and the shipment fails over
	assert.Equal(t, orderdomain.StatusCancelled, state.orders[0].Status)
	assert.Equal(t, 6, state.onHand(1))
	assert.Equal(t, orderdomain.ShipmentFailed, state.shipments[0].Status)
}

func TestMarkShipped(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	state.orders[0].Status = orderdomain.StatusProcessing

	handler := NewMarkShippedHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), MarkShippedCommand{
		OrderID:        placed.Order.ID,
		TrackingNumber: "GHN123456",
		Carrier:        "GHN",
	})
	require.NoError(t, err)

	assert.Equal(t, orderdomain.StatusShipped, state.orders[0].Status)
	assert.Equal(t, orderdomain.ShipmentShipped, state.shipments[0].Status)
	assert.Equal(t, "GHN123456", state.shipments[0].TrackingNumber)
	assert.Equal(t, "GHN", state.shipments[0].Carrier)
}

func TestMarkShippedRequiresTrackingNumber(t *testing.T) {
	handler := NewMarkShippedHandler(&fakeUOW{state: newFakeState()})
	err := handler.Handle(context.Background(), MarkShippedCommand{OrderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracking_number is required")
}

func TestMarkShippedFromPendingRejected(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)

	handler := NewMarkShippedHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), MarkShippedCommand{
		OrderID:        placed.Order.ID,
		TrackingNumber: "GHN123456",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, orderdomain.ErrInvalidTransition)
}

func TestMarkDelivered(t *testing.T) {
	state := newFakeState()
	placed := placeTestOrder(t, state)
	state.orders[0].Status = orderdomain.StatusShipped
	state.shipments[0].Status = orderdomain.ShipmentShipped

	handler := NewMarkDeliveredHandler(&fakeUOW{state: state})
	err := handler.Handle(context.Background(), MarkDeliveredCommand{OrderID: placed.Order.ID})
	require.NoError(t, err)

	assert.Equal(t, orderdomain.StatusDelivered, state.orders[0].Status)
	assert.Equal(t, orderdomain.ShipmentDelivered, state.shipments[0].Status)
	require.NotNil(t, state.shipments[0].DeliveredAt)
}
