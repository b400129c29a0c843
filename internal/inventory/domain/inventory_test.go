package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAvailable(t *testing.T) {
	tests := []struct {
		name     string
		onHand   int
		reserved int
		want     int
	}{
		{"simple", 10, 3, 7},
		{"nothing reserved", 5, 0, 5},
		{"fully reserved", 4, 4, 0},
		{"over-reserved clamps at zero", 2, 5, 0},
		{"empty row", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{QuantityOnHand: tt.onHand, QuantityReserved: tt.reserved}
			assert.Equal(t, tt.want, r.Available())
		})
	}
}

func TestRecordLowStock(t *testing.T) {
	assert.True(t, Record{QuantityOnHand: 3, ReorderLevel: 5}.LowStock())
	assert.True(t, Record{QuantityOnHand: 5, ReorderLevel: 5}.LowStock())
	assert.False(t, Record{QuantityOnHand: 6, ReorderLevel: 5}.LowStock())
}

func TestPlanAllocationSingleWarehouse(t *testing.T) {
	records := []Record{
		{WarehouseID: 1, QuantityOnHand: 10},
	}

	plan, total := PlanAllocation(records, 4)
	require.Len(t, plan, 1)
	assert.Equal(t, uint(1), plan[0].WarehouseID)
	assert.Equal(t, 4, plan[0].Quantity)
	assert.Equal(t, 10, total)
}

func TestPlanAllocationSpansWarehouses(t *testing.T) {
	records := []Record{
		{WarehouseID: 1, QuantityOnHand: 3},
		{WarehouseID: 2, QuantityOnHand: 5, QuantityReserved: 1},
		{WarehouseID: 3, QuantityOnHand: 9},
	}

	plan, total := PlanAllocation(records, 8)
	require.Len(t, plan, 3)
	assert.Equal(t, []Allocation{
		{WarehouseID: 1, Quantity: 3},
		{WarehouseID: 2, Quantity: 4},
		{WarehouseID: 3, Quantity: 1},
	}, plan)
	assert.Equal(t, 16, total)

	// the plan always sums to the request
	sum := 0
	for _, a := range plan {
		sum += a.Quantity
	}
	assert.Equal(t, 8, sum)
}

func TestPlanAllocationSkipsEmptyRows(t *testing.T) {
	records := []Record{
		{WarehouseID: 1, QuantityOnHand: 2, QuantityReserved: 2},
		{WarehouseID: 2, QuantityOnHand: 6},
	}

	plan, _ := PlanAllocation(records, 5)
	require.Len(t, plan, 1)
	assert.Equal(t, uint(2), plan[0].WarehouseID)
}

func TestPlanAllocationInsufficient(t *testing.T) {
	records := []Record{
		{WarehouseID: 1, QuantityOnHand: 2},
		{WarehouseID: 2, QuantityOnHand: 3, QuantityReserved: 1},
	}

	plan, total := PlanAllocation(records, 10)
	assert.Nil(t, plan)
	assert.Equal(t, 4, total)
}

func TestPlanAllocationNoRecords(t *testing.T) {
	plan, total := PlanAllocation(nil, 1)
	assert.Nil(t, plan)
	assert.Zero(t, total)
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{SKU: "TEE-RED-M", Available: 2, Requested: 5}
	assert.Equal(t, "insufficient stock for TEE-RED-M: available 2, requested 5", err.Error())
}
