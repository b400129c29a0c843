package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tranqv/shopcore/internal/httpmw"
	"github.com/tranqv/shopcore/internal/payment/gateway"
	"github.com/tranqv/shopcore/internal/payment/usecase/command"
	"github.com/tranqv/shopcore/internal/payment/usecase/query"
	userdomain "github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/logger"
)

// PaymentHandler handles HTTP requests for payments and gateway callbacks
type PaymentHandler struct {
	vnpaySessionHandler    *command.CreateVNPaySessionHandler
	checkoutSessionHandler *command.CreateCheckoutVNSessionHandler
	recordResultHandler    *command.RecordGatewayResultHandler

	getPaymentHandler   *query.GetPaymentHandler
	listPaymentsHandler *query.ListPaymentsHandler

	vnpay    *gateway.VNPay
	checkout *gateway.CheckoutVN
	orders   command.OrderReader

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	vnpaySessionHandler *command.CreateVNPaySessionHandler,
	checkoutSessionHandler *command.CreateCheckoutVNSessionHandler,
	recordResultHandler *command.RecordGatewayResultHandler,
	getPaymentHandler *query.GetPaymentHandler,
	listPaymentsHandler *query.ListPaymentsHandler,
	vnpay *gateway.VNPay,
	checkout *gateway.CheckoutVN,
	orders command.OrderReader,
) *PaymentHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Total number of payment requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_request_duration_seconds",
			Help:    "Duration of payment requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &PaymentHandler{
		vnpaySessionHandler:    vnpaySessionHandler,
		checkoutSessionHandler: checkoutSessionHandler,
		recordResultHandler:    recordResultHandler,
		getPaymentHandler:      getPaymentHandler,
		listPaymentsHandler:    listPaymentsHandler,
		vnpay:                  vnpay,
		checkout:               checkout,
		orders:                 orders,
		requestCounter:         requestCounter,
		requestLatency:         requestLatency,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *PaymentHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// IPNResponse is the acknowledgement format VNPAY expects
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// RegisterRoutes registers all payment routes. Gateway callbacks are public
// by necessity; they authenticate through the signature instead.
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/api/payments/vnpay/create/{orderID}",
		httpmw.RequireAuth(h.metricsMiddleware("/api/payments/vnpay/create/{orderID}", h.CreateVNPaySession))).Methods("POST")
	router.Handle("/api/payments/checkoutvn/create/{orderID}",
		httpmw.RequireAuth(h.metricsMiddleware("/api/payments/checkoutvn/create/{orderID}", h.CreateCheckoutVNSession))).Methods("POST")

	router.HandleFunc("/api/payments/vnpay/return", h.metricsMiddleware("/api/payments/vnpay/return", h.VNPayReturn)).Methods("GET")
	router.HandleFunc("/api/payments/vnpay/ipn", h.metricsMiddleware("/api/payments/vnpay/ipn", h.VNPayIPN)).Methods("GET")
	router.HandleFunc("/api/payments/checkoutvn/ipn", h.metricsMiddleware("/api/payments/checkoutvn/ipn", h.CheckoutVNIPN)).Methods("POST")

	router.Handle("/api/payments/order/{orderID}",
		httpmw.RequireAuth(h.metricsMiddleware("/api/payments/order/{orderID}", h.GetPayment))).Methods("GET")

	admin := httpmw.RequireRole(userdomain.RoleManager, userdomain.RoleAdmin)
	router.Handle("/api/payments",
		httpmw.RequireAuth(admin(h.metricsMiddleware("/api/payments", h.ListPayments)))).Methods("GET")
}

// CreateVNPaySession handles POST /api/payments/vnpay/create/{orderID}
func (h *PaymentHandler) CreateVNPaySession(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathOrderID(w, r)
	if !ok {
		return
	}

	var req struct {
		BankCode string `json:"bank_code"`
	}
	// body is optional
	json.NewDecoder(r.Body).Decode(&req)

	session, err := h.vnpaySessionHandler.Handle(r.Context(), command.CreateVNPaySessionCommand{
		OrderID:  orderID,
		ClientIP: clientIP(r),
		BankCode: req.BankCode,
	})
	if err != nil {
		respondSessionError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Payment session created",
		Data:    session,
	})
}

// CreateCheckoutVNSession handles POST /api/payments/checkoutvn/create/{orderID}
func (h *PaymentHandler) CreateCheckoutVNSession(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathOrderID(w, r)
	if !ok {
		return
	}

	session, err := h.checkoutSessionHandler.Handle(r.Context(), command.CreateCheckoutVNSessionCommand{
		OrderID: orderID,
	})
	if err != nil {
		respondSessionError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Payment session created",
		Data:    session,
	})
}

// VNPayReturn handles GET /api/payments/vnpay/return. This is the browser
// redirect; it applies the result idempotently but the IPN is authoritative.
func (h *PaymentHandler) VNPayReturn(w http.ResponseWriter, r *http.Request) {
	params := flattenQuery(r)
	if !h.vnpay.VerifySignature(params) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid signature",
		})
		return
	}

	result, err := vnpayResult(params, r.URL.RawQuery)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	outcome, err := h.recordResultHandler.Handle(r.Context(), result)
	if err != nil {
		if errors.Is(err, command.ErrPaymentNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Payment not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to apply vnpay return")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to process payment result",
		})
		return
	}

	switch outcome {
	case command.OutcomeCompleted, command.OutcomeAlreadyProcessed:
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Payment completed",
			Data:    map[string]string{"txn_ref": result.TxnRef},
		})
	case command.OutcomeAmountMismatch:
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Payment amount mismatch",
		})
	default:
		respondJSON(w, http.StatusOK, Response{
			Success: false,
			Error:   "Payment failed",
			Data:    map[string]string{"response_code": result.ResponseCode},
		})
	}
}

// VNPayIPN handles GET /api/payments/vnpay/ipn, the authoritative
// server-to-server confirmation. Responses follow the gateway's RspCode
// contract; a replayed notification acknowledges without side effects.
func (h *PaymentHandler) VNPayIPN(w http.ResponseWriter, r *http.Request) {
	params := flattenQuery(r)
	if !h.vnpay.VerifySignature(params) {
		respondJSON(w, http.StatusOK, IPNResponse{RspCode: "97", Message: "Invalid signature"})
		return
	}

	result, err := vnpayResult(params, r.URL.RawQuery)
	if err != nil {
		respondJSON(w, http.StatusOK, IPNResponse{RspCode: "99", Message: "Invalid parameters"})
		return
	}

	outcome, err := h.recordResultHandler.Handle(r.Context(), result)
	if err != nil {
		if errors.Is(err, command.ErrPaymentNotFound) {
			respondJSON(w, http.StatusOK, IPNResponse{RspCode: "01", Message: "Order not found"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to apply vnpay ipn")
		respondJSON(w, http.StatusOK, IPNResponse{RspCode: "99", Message: "Unknown error"})
		return
	}

	switch outcome {
	case command.OutcomeAlreadyProcessed:
		respondJSON(w, http.StatusOK, IPNResponse{RspCode: "02", Message: "Order already confirmed"})
	case command.OutcomeAmountMismatch:
		respondJSON(w, http.StatusOK, IPNResponse{RspCode: "04", Message: "Invalid amount"})
	default:
		respondJSON(w, http.StatusOK, IPNResponse{RspCode: "00", Message: "Confirm success"})
	}
}

// CheckoutVNIPN handles POST /api/payments/checkoutvn/ipn
func (h *PaymentHandler) CheckoutVNIPN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.checkout.VerifyCallback(r.Context(), map[string]string{
		"session_id": req.SessionID,
		"status":     req.Status,
	}); err != nil {
		respondJSON(w, http.StatusForbidden, Response{
			Success: false,
			Error:   "Callback verification is not available",
		})
		return
	}

	raw, _ := json.Marshal(req)
	outcome, err := h.recordResultHandler.Handle(r.Context(), command.GatewayResult{
		TxnRef:       req.SessionID,
		Success:      req.Status == "paid",
		AmountMinor:  req.Amount,
		ResponseCode: req.Status,
		RawResponse:  string(raw),
	})
	if err != nil {
		if errors.Is(err, command.ErrPaymentNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Payment not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to apply checkoutvn ipn")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to process payment result",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: outcome == command.OutcomeCompleted || outcome == command.OutcomeAlreadyProcessed,
		Message: "Callback processed",
	})
}

// GetPayment handles GET /api/payments/order/{orderID}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathOrderID(w, r)
	if !ok {
		return
	}

	// customers only see payments on their own orders
	role := httpmw.RoleFrom(r.Context())
	if role != userdomain.RoleManager && role != userdomain.RoleAdmin {
		order, err := h.orders.FindByID(orderID)
		if err != nil || order.UserID == nil || *order.UserID != httpmw.UserIDFrom(r.Context()) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Payment not found",
			})
			return
		}
	}

	payment, err := h.getPaymentHandler.Handle(r.Context(), query.GetPaymentQuery{OrderID: orderID})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Payment not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    payment,
	})
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listPaymentsHandler.Handle(r.Context(), query.ListPaymentsQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payments")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list payments",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    payments,
	})
}

// vnpayResult maps the callback parameters onto a normalized gateway result
func vnpayResult(params map[string]string, rawQuery string) (command.GatewayResult, error) {
	txnRef := params["vnp_TxnRef"]
	if txnRef == "" {
		return command.GatewayResult{}, errors.New("missing vnp_TxnRef")
	}
	amount, err := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	if err != nil {
		return command.GatewayResult{}, errors.New("invalid vnp_Amount")
	}

	respCode := params["vnp_ResponseCode"]
	txnStatus := params["vnp_TransactionStatus"]
	return command.GatewayResult{
		TxnRef:       txnRef,
		Success:      respCode == gateway.VNPayCodeSuccess && txnStatus == gateway.VNPayCodeSuccess,
		AmountMinor:  amount,
		ResponseCode: respCode,
		RawResponse:  rawQuery,
	}, nil
}

func respondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, command.ErrPaymentAlreadySettled) {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	logger.Error(r.Context()).Err(err).Msg("Failed to create payment session")
	respondJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func pathOrderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["orderID"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid order ID",
		})
		return 0, false
	}
	return uint(id), true
}

// flattenQuery keeps the first value of every query parameter
func flattenQuery(r *http.Request) map[string]string {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
