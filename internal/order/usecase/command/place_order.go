package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/kafka"
	"github.com/tranqv/shopcore/pkg/logger"
)

// PlaceOrderCommand represents the checkout of a user's cart
type PlaceOrderCommand struct {
	UserID           uint
	RecipientName    string
	RecipientPhone   string
	Address          string
	Notes            string
	PaymentMethodID  int
	ShippingMethodID int
}

// PlacedOrder is the full result of a successful placement
type PlacedOrder struct {
	Order    *orderdomain.Order    `json:"order"`
	Payment  *paydomain.Payment    `json:"payment"`
	Shipment *orderdomain.Shipment `json:"shipment,omitempty"`
}

// PlaceOrderHandler handles the order placement transaction
type PlaceOrderHandler struct {
	uow       UnitOfWork
	variants  VariantReader
	publisher EventPublisher
}

// NewPlaceOrderHandler creates a new place order handler
func NewPlaceOrderHandler(uow UnitOfWork, variants VariantReader, publisher EventPublisher) *PlaceOrderHandler {
	return &PlaceOrderHandler{uow: uow, variants: variants, publisher: publisher}
}

// Handle executes the placement: stock check, order + lines insert, ledger
// decrement, pending payment and shipment, cart clear. One transaction;
// any failure rolls back every write.
func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*PlacedOrder, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if cmd.RecipientName == "" {
		return nil, fmt.Errorf("recipient_name is required")
	}
	if cmd.RecipientPhone == "" {
		return nil, fmt.Errorf("recipient_phone is required")
	}
	if cmd.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if cmd.PaymentMethodID == 0 {
		return nil, fmt.Errorf("payment_method_id is required")
	}
	if cmd.ShippingMethodID == 0 {
		cmd.ShippingMethodID = 1
	}

	// The code column carries a unique constraint; on the unlikely collision
	// the whole transaction is retried with a fresh code.
	var result *PlacedOrder
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		code := orderdomain.NewOrderCode(orderdomain.CodePrefixOnline, time.Now())
		result, err = h.place(ctx, cmd, code)
		if err == nil || !isDuplicateKey(err) {
			break
		}
		logger.Warn(ctx).
			Str("order_code", code).
			Int("attempt", attempt+1).
			Msg("Order code collision, retrying with a fresh code")
	}
	if err != nil {
		return nil, err
	}

	h.publishPlaced(ctx, result)
	return result, nil
}

func (h *PlaceOrderHandler) place(ctx context.Context, cmd PlaceOrderCommand, code string) (*PlacedOrder, error) {
	var result PlacedOrder

	err := h.uow.Do(ctx, func(s Stores) error {
		cartLines, err := s.Carts.FindByUser(cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(cartLines) == 0 {
			return fmt.Errorf("cart is empty")
		}

		userID := cmd.UserID
		order := &orderdomain.Order{
			Code:           code,
			UserID:         &userID,
			Status:         orderdomain.StatusPending,
			ShippingFee:    orderdomain.FixedShippingFee,
			DiscountAmount: decimal.Zero,
			RecipientName:  cmd.RecipientName,
			RecipientPhone: cmd.RecipientPhone,
			Address:        cmd.Address,
			Notes:          cmd.Notes,
		}

		subTotal := decimal.Zero
		for _, cl := range cartLines {
			variant, err := h.variants.FindVariantByID(cl.VariantID)
			if err != nil {
				return fmt.Errorf("variant %d not found: %w", cl.VariantID, err)
			}
			lineSubtotal := cl.Price.Mul(decimal.NewFromInt(int64(cl.Quantity)))
			order.Lines = append(order.Lines, orderdomain.Line{
				VariantID: cl.VariantID,
				SKU:       variant.SKU,
				Quantity:  cl.Quantity,
				UnitPrice: cl.Price,
				Subtotal:  lineSubtotal,
			})
			subTotal = subTotal.Add(lineSubtotal)
		}
		order.SubTotal = subTotal
		order.TotalAmount = subTotal.Add(order.ShippingFee).Sub(order.DiscountAmount)

		if err := s.Orders.Create(order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range order.Lines {
			if err := allocateLine(s.Inventory, order.ID, line.VariantID, line.SKU, line.Quantity, nil, invdomain.RefOrderPlacement); err != nil {
				return err
			}
		}

		payment := &paydomain.Payment{
			OrderID:         order.ID,
			PaymentMethodID: cmd.PaymentMethodID,
			Amount:          order.TotalAmount,
			Status:          paydomain.StatusPending,
			TransactionCode: newTransactionCode(),
		}
		if err := s.Payments.Create(payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		shipment := &orderdomain.Shipment{
			OrderID:          order.ID,
			ShippingMethodID: cmd.ShippingMethodID,
			Status:           orderdomain.ShipmentPending,
		}
		if err := s.Orders.CreateShipment(shipment); err != nil {
			return fmt.Errorf("failed to create shipment: %w", err)
		}

		if err := s.Carts.Clear(cmd.UserID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		result = PlacedOrder{Order: order, Payment: payment, Shipment: shipment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (h *PlaceOrderHandler) publishPlaced(ctx context.Context, placed *PlacedOrder) {
	if h.publisher == nil {
		return
	}

	event := kafka.OrderPlacedEvent{
		OrderID:   placed.Order.ID,
		OrderCode: placed.Order.Code,
		Total:     placed.Order.TotalAmount.String(),
	}
	if placed.Order.UserID != nil {
		event.UserID = *placed.Order.UserID
	}
	for _, line := range placed.Order.Lines {
		event.Lines = append(event.Lines, kafka.OrderLinePayload{
			VariantID: line.VariantID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
		})
	}

	if err := h.publisher.PublishOrderPlaced(ctx, event); err != nil {
		// Event delivery is best-effort, the order is already committed
		logger.Error(ctx).
			Err(err).
			Str("order_code", placed.Order.Code).
			Msg("Failed to publish order placed event")
	}
}

// allocateLine consumes stock for one order line, greedily across warehouses
// (or from the single named warehouse), with one audit movement per warehouse
// touched. The conditional decrement re-checks availability at update time so
// concurrent checkouts cannot oversell.
func allocateLine(inv InventoryStore, orderID, variantID uint, sku string, qty int, warehouseID *uint, reference string) error {
	records, err := inv.FindRecordsByVariant(variantID)
	if err != nil {
		return fmt.Errorf("failed to load inventory for %s: %w", sku, err)
	}

	if warehouseID != nil {
		filtered := records[:0]
		for _, r := range records {
			if r.WarehouseID == *warehouseID {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	plan, available := invdomain.PlanAllocation(records, qty)
	if plan == nil {
		return &invdomain.InsufficientStockError{SKU: sku, Available: available, Requested: qty}
	}

	for _, alloc := range plan {
		ok, err := inv.DecrementOnHand(variantID, alloc.WarehouseID, alloc.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock for %s: %w", sku, err)
		}
		if !ok {
			// A concurrent checkout won the row between plan and decrement
			current, aerr := availabilityOf(inv, variantID, warehouseID)
			if aerr != nil {
				current = 0
			}
			return &invdomain.InsufficientStockError{SKU: sku, Available: current, Requested: qty}
		}

		record, err := inv.FindRecord(variantID, alloc.WarehouseID)
		if err != nil {
			return fmt.Errorf("failed to reload inventory record for %s: %w", sku, err)
		}

		oid := orderID
		if err := inv.CreateMovement(&invdomain.StockMovement{
			VariantID:      variantID,
			WarehouseID:    alloc.WarehouseID,
			OrderID:        &oid,
			QuantityChange: -alloc.Quantity,
			QuantityAfter:  record.QuantityOnHand,
			Reference:      reference,
		}); err != nil {
			return fmt.Errorf("failed to record stock movement for %s: %w", sku, err)
		}
	}

	return nil
}

func availabilityOf(inv InventoryStore, variantID uint, warehouseID *uint) (int, error) {
	records, err := inv.FindRecordsByVariant(variantID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range records {
		if warehouseID != nil && r.WarehouseID != *warehouseID {
			continue
		}
		total += r.Available()
	}
	return total, nil
}

func newTransactionCode() string {
	return fmt.Sprintf("PAY-%s", strings.ToUpper(uuid.New().String()[:12]))
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
