package command

import (
	"context"
	"errors"

	"gorm.io/gorm"

	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
	catalogdomain "github.com/tranqv/shopcore/internal/catalog/domain"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/kafka"
)

// fakeState is an in-memory stand-in for the database. The fake unit of work
// snapshots it before each transaction and restores it on error, mirroring a
// rollback.
type fakeState struct {
	orders    []orderdomain.Order
	shipments []orderdomain.Shipment
	payments  []paydomain.Payment
	records   []invdomain.Record
	movements []invdomain.StockMovement
	carts     map[uint][]cartdomain.Line
	nextID    uint

	// while positive, order creation fails with a duplicate key error and
	// decrements, to exercise the code-collision retry
	dupFailures int

	// runs once after the next FindByID, to interleave a concurrent writer
	// between an order read and its status write
	afterFindOrder func(state *fakeState, order *orderdomain.Order)
}

func newFakeState() *fakeState {
	return &fakeState{
		carts:  make(map[uint][]cartdomain.Line),
		nextID: 1,
	}
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		orders:      append([]orderdomain.Order(nil), s.orders...),
		shipments:   append([]orderdomain.Shipment(nil), s.shipments...),
		payments:    append([]paydomain.Payment(nil), s.payments...),
		records:     append([]invdomain.Record(nil), s.records...),
		movements:   append([]invdomain.StockMovement(nil), s.movements...),
		carts:       make(map[uint][]cartdomain.Line, len(s.carts)),
		dupFailures: s.dupFailures,
		nextID:      s.nextID,
	}
	for k, v := range s.carts {
		c.carts[k] = append([]cartdomain.Line(nil), v...)
	}
	return c
}

func (s *fakeState) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

// onHand sums the remaining on-hand quantity for a variant across warehouses
func (s *fakeState) onHand(variantID uint) int {
	total := 0
	for _, r := range s.records {
		if r.VariantID == variantID {
			total += r.QuantityOnHand
		}
	}
	return total
}

type fakeUOW struct {
	state *fakeState
}

func (u *fakeUOW) Do(ctx context.Context, fn func(s Stores) error) error {
	snapshot := u.state.clone()
	err := fn(Stores{
		Orders:    &fakeOrderStore{state: u.state},
		Inventory: &fakeInventoryStore{state: u.state},
		Payments:  &fakePaymentStore{state: u.state},
		Carts:     &fakeCartStore{state: u.state},
	})
	if err != nil {
		// dupFailures is test plumbing, not data; it survives the rollback
		dup := u.state.dupFailures
		*u.state = *snapshot
		u.state.dupFailures = dup
	}
	return err
}

type fakeOrderStore struct {
	state *fakeState
}

func (f *fakeOrderStore) Create(order *orderdomain.Order) error {
	if f.state.dupFailures > 0 {
		f.state.dupFailures--
		return errors.New(`duplicate key value violates unique constraint "idx_orders_code"`)
	}
	for _, existing := range f.state.orders {
		if existing.Code == order.Code {
			return errors.New(`duplicate key value violates unique constraint "idx_orders_code"`)
		}
	}
	order.ID = f.state.id()
	for i := range order.Lines {
		order.Lines[i].ID = f.state.id()
		order.Lines[i].OrderID = order.ID
	}
	f.state.orders = append(f.state.orders, *order)
	return nil
}

func (f *fakeOrderStore) FindByID(id uint) (*orderdomain.Order, error) {
	for i := range f.state.orders {
		if f.state.orders[i].ID == id {
			order := f.state.orders[i]
			if hook := f.state.afterFindOrder; hook != nil {
				f.state.afterFindOrder = nil
				hook(f.state, &order)
			}
			return &order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderStore) UpdateStatus(orderID uint, from, to orderdomain.Status) (bool, error) {
	for i := range f.state.orders {
		if f.state.orders[i].ID == orderID && f.state.orders[i].Status == from {
			f.state.orders[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderStore) CreateShipment(shipment *orderdomain.Shipment) error {
	shipment.ID = f.state.id()
	f.state.shipments = append(f.state.shipments, *shipment)
	return nil
}

func (f *fakeOrderStore) FindShipmentByOrderID(orderID uint) (*orderdomain.Shipment, error) {
	for i := range f.state.shipments {
		if f.state.shipments[i].OrderID == orderID {
			shipment := f.state.shipments[i]
			return &shipment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderStore) UpdateShipment(shipment *orderdomain.Shipment) error {
	for i := range f.state.shipments {
		if f.state.shipments[i].ID == shipment.ID {
			f.state.shipments[i] = *shipment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeInventoryStore struct {
	state *fakeState
}

func (f *fakeInventoryStore) FindRecordsByVariant(variantID uint) ([]invdomain.Record, error) {
	var out []invdomain.Record
	for _, r := range f.state.records {
		if r.VariantID == variantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeInventoryStore) DecrementOnHand(variantID, warehouseID uint, qty int) (bool, error) {
	for i := range f.state.records {
		r := &f.state.records[i]
		if r.VariantID == variantID && r.WarehouseID == warehouseID {
			if r.QuantityOnHand-r.QuantityReserved < qty {
				return false, nil
			}
			r.QuantityOnHand -= qty
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInventoryStore) IncrementOnHand(variantID, warehouseID uint, qty int) error {
	for i := range f.state.records {
		r := &f.state.records[i]
		if r.VariantID == variantID && r.WarehouseID == warehouseID {
			r.QuantityOnHand += qty
			return nil
		}
	}
	f.state.records = append(f.state.records, invdomain.Record{
		ID:             f.state.id(),
		VariantID:      variantID,
		WarehouseID:    warehouseID,
		QuantityOnHand: qty,
	})
	return nil
}

func (f *fakeInventoryStore) FindRecord(variantID, warehouseID uint) (*invdomain.Record, error) {
	for i := range f.state.records {
		if f.state.records[i].VariantID == variantID && f.state.records[i].WarehouseID == warehouseID {
			record := f.state.records[i]
			return &record, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInventoryStore) CreateMovement(movement *invdomain.StockMovement) error {
	movement.ID = f.state.id()
	f.state.movements = append(f.state.movements, *movement)
	return nil
}

func (f *fakeInventoryStore) FindMovementsByOrder(orderID uint) ([]invdomain.StockMovement, error) {
	var out []invdomain.StockMovement
	for _, m := range f.state.movements {
		if m.OrderID != nil && *m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePaymentStore struct {
	state *fakeState
}

func (f *fakePaymentStore) Create(payment *paydomain.Payment) error {
	payment.ID = f.state.id()
	f.state.payments = append(f.state.payments, *payment)
	return nil
}

func (f *fakePaymentStore) FindByOrderID(orderID uint) (*paydomain.Payment, error) {
	for i := range f.state.payments {
		if f.state.payments[i].OrderID == orderID {
			payment := f.state.payments[i]
			return &payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentStore) FindByTransactionCode(code string) (*paydomain.Payment, error) {
	for i := range f.state.payments {
		if f.state.payments[i].TransactionCode == code {
			payment := f.state.payments[i]
			return &payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentStore) Update(payment *paydomain.Payment) error {
	for i := range f.state.payments {
		if f.state.payments[i].ID == payment.ID {
			f.state.payments[i] = *payment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePaymentStore) UpdateStatus(id uint, status string) error {
	for i := range f.state.payments {
		if f.state.payments[i].ID == id {
			f.state.payments[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeCartStore struct {
	state *fakeState
}

func (f *fakeCartStore) FindByUser(userID uint) ([]cartdomain.Line, error) {
	return append([]cartdomain.Line(nil), f.state.carts[userID]...), nil
}

func (f *fakeCartStore) Clear(userID uint) error {
	delete(f.state.carts, userID)
	return nil
}

// fakeVariants resolves variants from a static map
type fakeVariants struct {
	variants map[uint]*catalogdomain.Variant
}

func (f *fakeVariants) FindVariantByID(id uint) (*catalogdomain.Variant, error) {
	if v, ok := f.variants[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakePublisher records published events
type fakePublisher struct {
	placed []kafka.OrderPlacedEvent
	err    error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, event kafka.OrderPlacedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.placed = append(f.placed, event)
	return nil
}
