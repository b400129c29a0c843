package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	ordercommand "github.com/tranqv/shopcore/internal/order/usecase/command"
	"github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/kafka"
)

// callbackState backs the fake stores for the callback tests. Only the
// payment and order surfaces are exercised here.
type callbackState struct {
	payments []domain.Payment
	orders   []orderdomain.Order
}

type callbackUOW struct {
	state *callbackState
}

func (u *callbackUOW) Do(ctx context.Context, fn func(s ordercommand.Stores) error) error {
	snapshot := &callbackState{
		payments: append([]domain.Payment(nil), u.state.payments...),
		orders:   append([]orderdomain.Order(nil), u.state.orders...),
	}
	err := fn(ordercommand.Stores{
		Orders:   &callbackOrderStore{state: u.state},
		Payments: &callbackPaymentStore{state: u.state},
	})
	if err != nil {
		*u.state = *snapshot
	}
	return err
}

type callbackPaymentStore struct {
	state *callbackState
}

func (f *callbackPaymentStore) Create(payment *domain.Payment) error {
	f.state.payments = append(f.state.payments, *payment)
	return nil
}

func (f *callbackPaymentStore) FindByOrderID(orderID uint) (*domain.Payment, error) {
	for i := range f.state.payments {
		if f.state.payments[i].OrderID == orderID {
			payment := f.state.payments[i]
			return &payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *callbackPaymentStore) FindByTransactionCode(code string) (*domain.Payment, error) {
	for i := range f.state.payments {
		if f.state.payments[i].TransactionCode == code {
			payment := f.state.payments[i]
			return &payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *callbackPaymentStore) Update(payment *domain.Payment) error {
	for i := range f.state.payments {
		if f.state.payments[i].ID == payment.ID {
			f.state.payments[i] = *payment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *callbackPaymentStore) UpdateStatus(id uint, status string) error {
	for i := range f.state.payments {
		if f.state.payments[i].ID == id {
			f.state.payments[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type callbackOrderStore struct {
	state *callbackState
}

func (f *callbackOrderStore) Create(order *orderdomain.Order) error {
	f.state.orders = append(f.state.orders, *order)
	return nil
}

func (f *callbackOrderStore) FindByID(id uint) (*orderdomain.Order, error) {
	for i := range f.state.orders {
		if f.state.orders[i].ID == id {
			order := f.state.orders[i]
			return &order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *callbackOrderStore) UpdateStatus(orderID uint, from, to orderdomain.Status) (bool, error) {
	for i := range f.state.orders {
		if f.state.orders[i].ID == orderID && f.state.orders[i].Status == from {
			f.state.orders[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *callbackOrderStore) CreateShipment(shipment *orderdomain.Shipment) error {
	return nil
}

func (f *callbackOrderStore) FindShipmentByOrderID(orderID uint) (*orderdomain.Shipment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *callbackOrderStore) UpdateShipment(shipment *orderdomain.Shipment) error {
	return nil
}

type fakeCompletedPublisher struct {
	events []kafka.PaymentCompletedEvent
}

func (f *fakeCompletedPublisher) PublishPaymentCompleted(ctx context.Context, event kafka.PaymentCompletedEvent) error {
	f.events = append(f.events, event)
	return nil
}

func pendingPaymentState() *callbackState {
	return &callbackState{
		payments: []domain.Payment{{
			ID:              1,
			OrderID:         10,
			PaymentMethodID: domain.MethodVNPay,
			Amount:          decimal.NewFromInt(530000),
			Status:          domain.StatusPending,
			TransactionCode: "ORD-20260315-ABCDEF12-X1Y2Z3",
		}},
		orders: []orderdomain.Order{{
			ID:     10,
			Code:   "ORD-20260315-ABCDEF12",
			Status: orderdomain.StatusPending,
		}},
	}
}

func successResult() GatewayResult {
	return GatewayResult{
		TxnRef:       "ORD-20260315-ABCDEF12-X1Y2Z3",
		Success:      true,
		AmountMinor:  53000000,
		ResponseCode: "00",
		RawResponse:  "vnp_Amount=53000000&vnp_ResponseCode=00",
	}
}

func TestRecordGatewayResultCompletesPaymentAndOrder(t *testing.T) {
	state := pendingPaymentState()
	publisher := &fakeCompletedPublisher{}
	handler := NewRecordGatewayResultHandler(&callbackUOW{state: state}, publisher)

	outcome, err := handler.Handle(context.Background(), successResult())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)

	payment := state.payments[0]
	assert.Equal(t, domain.StatusCompleted, payment.Status)
	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, "vnp_Amount=53000000&vnp_ResponseCode=00", payment.GatewayResponse)

	assert.Equal(t, orderdomain.StatusProcessing, state.orders[0].Status)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, kafka.EventTypePaymentCompleted, event.EventType)
	assert.Equal(t, "ORD-20260315-ABCDEF12", event.OrderCode)
	assert.Equal(t, "530000.00", event.Amount)
	assert.NotEmpty(t, event.EventID)
}

func TestRecordGatewayResultReplayIsNoOp(t *testing.T) {
	state := pendingPaymentState()
	publisher := &fakeCompletedPublisher{}
	handler := NewRecordGatewayResultHandler(&callbackUOW{state: state}, publisher)

	_, err := handler.Handle(context.Background(), successResult())
	require.NoError(t, err)
	firstPaidAt := state.payments[0].PaidAt

	outcome, err := handler.Handle(context.Background(), successResult())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, outcome)
	assert.Equal(t, firstPaidAt, state.payments[0].PaidAt)
	assert.Len(t, publisher.events, 1, "a replay must not publish again")
}

func TestRecordGatewayResultAmountMismatchFailsPayment(t *testing.T) {
	state := pendingPaymentState()
	handler := NewRecordGatewayResultHandler(&callbackUOW{state: state}, &fakeCompletedPublisher{})

	result := successResult()
	result.AmountMinor = 100

	outcome, err := handler.Handle(context.Background(), result)
	require.NoError(t, err, "the failure mark must commit, not roll back")
	assert.Equal(t, OutcomeAmountMismatch, outcome)
	assert.Equal(t, domain.StatusFailed, state.payments[0].Status)
	assert.Equal(t, orderdomain.StatusPending, state.orders[0].Status)
}

func TestRecordGatewayResultGatewayFailure(t *testing.T) {
	state := pendingPaymentState()
	publisher := &fakeCompletedPublisher{}
	handler := NewRecordGatewayResultHandler(&callbackUOW{state: state}, publisher)

	result := successResult()
	result.Success = false
	result.ResponseCode = "24"

	outcome, err := handler.Handle(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Equal(t, domain.StatusFailed, state.payments[0].Status)
	assert.Equal(t, orderdomain.StatusPending, state.orders[0].Status)
	assert.Empty(t, publisher.events)
}

func TestRecordGatewayResultUnknownTxnRef(t *testing.T) {
	handler := NewRecordGatewayResultHandler(&callbackUOW{state: &callbackState{}}, &fakeCompletedPublisher{})

	result := successResult()
	result.TxnRef = "ORD-UNKNOWN-000000-AAAAAA"

	_, err := handler.Handle(context.Background(), result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestRecordGatewayResultRequiresTxnRef(t *testing.T) {
	handler := NewRecordGatewayResultHandler(&callbackUOW{state: &callbackState{}}, &fakeCompletedPublisher{})

	_, err := handler.Handle(context.Background(), GatewayResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction reference is required")
}

func TestRecordGatewayResultDoesNotRegressOrder(t *testing.T) {
	state := pendingPaymentState()
	state.orders[0].Status = orderdomain.StatusShipped

	handler := NewRecordGatewayResultHandler(&callbackUOW{state: state}, &fakeCompletedPublisher{})

	outcome, err := handler.Handle(context.Background(), successResult())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)
	assert.Equal(t, orderdomain.StatusShipped, state.orders[0].Status, "a late callback must not move a shipped order back")
}
