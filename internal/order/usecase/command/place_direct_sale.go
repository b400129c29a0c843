package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/pkg/logger"
)

// DirectSaleItem is one explicit line of a walk-in sale
type DirectSaleItem struct {
	VariantID uint
	Quantity  int
}

// PlaceDirectSaleCommand is a walk-in order created by warehouse staff:
// explicit warehouse and item list instead of a cart, no shipping
type PlaceDirectSaleCommand struct {
	WarehouseID     uint
	Items           []DirectSaleItem
	CustomerName    string
	CustomerPhone   string
	Notes           string
	PaymentMethodID int
}

// PlaceDirectSaleHandler handles direct sale placement
type PlaceDirectSaleHandler struct {
	uow      UnitOfWork
	variants VariantReader
}

// NewPlaceDirectSaleHandler creates a new place direct sale handler
func NewPlaceDirectSaleHandler(uow UnitOfWork, variants VariantReader) *PlaceDirectSaleHandler {
	return &PlaceDirectSaleHandler{uow: uow, variants: variants}
}

// Handle executes the direct sale. The order is delivered immediately, stock
// comes from the named warehouse only, payment is recorded completed on the
// spot, and no shipment is created.
func (h *PlaceDirectSaleHandler) Handle(ctx context.Context, cmd PlaceDirectSaleCommand) (*PlacedOrder, error) {
	if cmd.WarehouseID == 0 {
		return nil, fmt.Errorf("warehouse_id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("items are required")
	}
	for i, item := range cmd.Items {
		if item.VariantID == 0 {
			return nil, fmt.Errorf("items[%d]: variant_id is required", i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("items[%d]: quantity must be at least 1", i)
		}
	}
	if cmd.PaymentMethodID == 0 {
		cmd.PaymentMethodID = paydomain.MethodCOD
	}

	var result *PlacedOrder
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		code := orderdomain.NewOrderCode(orderdomain.CodePrefixDirectSale, time.Now())
		result, err = h.place(ctx, cmd, code)
		if err == nil || !isDuplicateKey(err) {
			break
		}
		logger.Warn(ctx).
			Str("order_code", code).
			Int("attempt", attempt+1).
			Msg("Order code collision, retrying with a fresh code")
	}
	return result, err
}

func (h *PlaceDirectSaleHandler) place(ctx context.Context, cmd PlaceDirectSaleCommand, code string) (*PlacedOrder, error) {
	var result PlacedOrder

	err := h.uow.Do(ctx, func(s Stores) error {
		warehouseID := cmd.WarehouseID
		order := &orderdomain.Order{
			Code:           code,
			Status:         orderdomain.StatusDelivered, // handed over at the counter
			ShippingFee:    decimal.Zero,
			DiscountAmount: decimal.Zero,
			RecipientName:  cmd.CustomerName,
			RecipientPhone: cmd.CustomerPhone,
			Notes:          cmd.Notes,
			WarehouseID:    &warehouseID,
		}

		subTotal := decimal.Zero
		for _, item := range cmd.Items {
			variant, err := h.variants.FindVariantByID(item.VariantID)
			if err != nil {
				return fmt.Errorf("variant %d not found: %w", item.VariantID, err)
			}
			lineSubtotal := variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			order.Lines = append(order.Lines, orderdomain.Line{
				VariantID: item.VariantID,
				SKU:       variant.SKU,
				Quantity:  item.Quantity,
				UnitPrice: variant.Price,
				Subtotal:  lineSubtotal,
			})
			subTotal = subTotal.Add(lineSubtotal)
		}
		order.SubTotal = subTotal
		order.TotalAmount = subTotal

		if err := s.Orders.Create(order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range order.Lines {
			if err := allocateLine(s.Inventory, order.ID, line.VariantID, line.SKU, line.Quantity, &warehouseID, invdomain.RefDirectSale); err != nil {
				return err
			}
		}

		now := time.Now()
		payment := &paydomain.Payment{
			OrderID:         order.ID,
			PaymentMethodID: cmd.PaymentMethodID,
			Amount:          order.TotalAmount,
			Status:          paydomain.StatusCompleted,
			TransactionCode: newTransactionCode(),
			PaidAt:          &now,
		}
		if err := s.Payments.Create(payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		result = PlacedOrder{Order: order, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
