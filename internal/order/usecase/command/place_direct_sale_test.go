package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
)

func TestPlaceDirectSaleSuccess(t *testing.T) {
	state := newFakeState()
	state.records = []invdomain.Record{
		{ID: 100, VariantID: 1, WarehouseID: 2, QuantityOnHand: 6},
	}
	handler := NewPlaceDirectSaleHandler(&fakeUOW{state: state}, seedVariants())

	placed, err := handler.Handle(context.Background(), PlaceDirectSaleCommand{
		WarehouseID:     2,
		Items:           []DirectSaleItem{{VariantID: 1, Quantity: 2}},
		CustomerName:    "Walk-in",
		PaymentMethodID: paydomain.MethodCOD,
	})
	require.NoError(t, err)
	require.NotNil(t, placed)

	order := placed.Order
	assert.True(t, strings.HasPrefix(order.Code, "DS-"), "code %q", order.Code)
	assert.Equal(t, orderdomain.StatusDelivered, order.Status)
	assert.Nil(t, order.UserID)
	require.NotNil(t, order.WarehouseID)
	assert.Equal(t, uint(2), *order.WarehouseID)

	// counter sale: no shipping, total equals the line subtotal at list price
	assert.True(t, order.ShippingFee.IsZero())
	assert.True(t, order.TotalAmount.Equal(order.SubTotal))
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].UnitPrice.Equal(seedVariants().variants[1].Price))

	payment := placed.Payment
	require.NotNil(t, payment)
	assert.Equal(t, paydomain.StatusCompleted, payment.Status)
	require.NotNil(t, payment.PaidAt)

	assert.Nil(t, placed.Shipment)
	assert.Empty(t, state.shipments)

	assert.Equal(t, 4, state.onHand(1))
	require.Len(t, state.movements, 1)
	assert.Equal(t, invdomain.RefDirectSale, state.movements[0].Reference)
	assert.Equal(t, uint(2), state.movements[0].WarehouseID)
}

func TestPlaceDirectSaleOnlyDrawsFromNamedWarehouse(t *testing.T) {
	state := newFakeState()
	state.records = []invdomain.Record{
		{ID: 100, VariantID: 1, WarehouseID: 1, QuantityOnHand: 10},
		{ID: 101, VariantID: 1, WarehouseID: 2, QuantityOnHand: 1},
	}
	handler := NewPlaceDirectSaleHandler(&fakeUOW{state: state}, seedVariants())

	_, err := handler.Handle(context.Background(), PlaceDirectSaleCommand{
		WarehouseID: 2,
		Items:       []DirectSaleItem{{VariantID: 1, Quantity: 3}},
	})
	require.Error(t, err)

	var stockErr *invdomain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available, "stock in other warehouses must not count")
	assert.Empty(t, state.orders)
	assert.Equal(t, 11, state.onHand(1))
}

func TestPlaceDirectSaleDefaultsToCOD(t *testing.T) {
	state := newFakeState()
	state.records = []invdomain.Record{
		{ID: 100, VariantID: 1, WarehouseID: 1, QuantityOnHand: 5},
	}
	handler := NewPlaceDirectSaleHandler(&fakeUOW{state: state}, seedVariants())

	placed, err := handler.Handle(context.Background(), PlaceDirectSaleCommand{
		WarehouseID: 1,
		Items:       []DirectSaleItem{{VariantID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, paydomain.MethodCOD, placed.Payment.PaymentMethodID)
}

func TestPlaceDirectSaleValidation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     PlaceDirectSaleCommand
		wantErr string
	}{
		{
			"missing warehouse",
			PlaceDirectSaleCommand{Items: []DirectSaleItem{{VariantID: 1, Quantity: 1}}},
			"warehouse_id is required",
		},
		{
			"no items",
			PlaceDirectSaleCommand{WarehouseID: 1},
			"items are required",
		},
		{
			"zero quantity",
			PlaceDirectSaleCommand{WarehouseID: 1, Items: []DirectSaleItem{{VariantID: 1, Quantity: 0}}},
			"quantity must be at least 1",
		},
		{
			"missing variant",
			PlaceDirectSaleCommand{WarehouseID: 1, Items: []DirectSaleItem{{Quantity: 2}}},
			"variant_id is required",
		},
	}

	handler := NewPlaceDirectSaleHandler(&fakeUOW{state: newFakeState()}, seedVariants())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
