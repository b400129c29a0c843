package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tranqv/shopcore/internal/httpmw"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	"github.com/tranqv/shopcore/internal/order/usecase/command"
	"github.com/tranqv/shopcore/internal/order/usecase/query"
	userdomain "github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/logger"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	placeOrderHandler      *command.PlaceOrderHandler
	placeDirectSaleHandler *command.PlaceDirectSaleHandler
	cancelOrderHandler     *command.CancelOrderHandler
	updateStatusHandler    *command.UpdateStatusHandler
	markShippedHandler     *command.MarkShippedHandler
	markDeliveredHandler   *command.MarkDeliveredHandler

	getOrderHandler   *query.GetOrderHandler
	listOrdersHandler *query.ListOrdersHandler
	myOrdersHandler   *query.GetMyOrdersHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	placeOrderHandler *command.PlaceOrderHandler,
	placeDirectSaleHandler *command.PlaceDirectSaleHandler,
	cancelOrderHandler *command.CancelOrderHandler,
	updateStatusHandler *command.UpdateStatusHandler,
	markShippedHandler *command.MarkShippedHandler,
	markDeliveredHandler *command.MarkDeliveredHandler,
	getOrderHandler *query.GetOrderHandler,
	listOrdersHandler *query.ListOrdersHandler,
	myOrdersHandler *query.GetMyOrdersHandler,
) *OrderHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_requests_total",
			Help: "Total number of order requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_request_duration_seconds",
			Help:    "Duration of order requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &OrderHandler{
		placeOrderHandler:      placeOrderHandler,
		placeDirectSaleHandler: placeDirectSaleHandler,
		cancelOrderHandler:     cancelOrderHandler,
		updateStatusHandler:    updateStatusHandler,
		markShippedHandler:     markShippedHandler,
		markDeliveredHandler:   markDeliveredHandler,
		getOrderHandler:        getOrderHandler,
		listOrdersHandler:      listOrdersHandler,
		myOrdersHandler:        myOrdersHandler,
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
func (h *OrderHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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

// RegisterRoutes registers all order routes. Checkout endpoints optionally go
// through the rate limiter.
func (h *OrderHandler) RegisterRoutes(router *mux.Router, limiter *httpmw.RateLimiter) {
	checkout := http.Handler(h.metricsMiddleware("/api/orders", h.PlaceOrder))
	if limiter != nil {
		checkout = limiter.Middleware(checkout)
	}
	router.Handle("/api/orders", httpmw.RequireAuth(checkout)).Methods("POST")
	router.Handle("/api/checkout", httpmw.RequireAuth(checkout)).Methods("POST")

	router.Handle("/api/orders/my", httpmw.RequireAuth(h.metricsMiddleware("/api/orders/my", h.MyOrders))).Methods("GET")
	router.Handle("/api/orders/{id}", httpmw.RequireAuth(h.metricsMiddleware("/api/orders/{id}", h.GetOrder))).Methods("GET")
	router.Handle("/api/orders/{id}/cancel", httpmw.RequireAuth(h.metricsMiddleware("/api/orders/{id}/cancel", h.CancelOrder))).Methods("POST")

	manager := func(endpoint string, fn http.HandlerFunc) http.Handler {
		wrapped := h.metricsMiddleware(endpoint, fn)
		return httpmw.RequireAuth(httpmw.RequireRole(userdomain.RoleManager, userdomain.RoleAdmin)(wrapped))
	}
	router.Handle("/api/orders", manager("/api/orders", h.ListOrders)).Methods("GET")
	router.Handle("/api/orders/{id}/status", manager("/api/orders/{id}/status", h.UpdateStatus)).Methods("PUT")
	router.Handle("/api/orders/{id}/ship", manager("/api/orders/{id}/ship", h.MarkShipped)).Methods("POST")
	router.Handle("/api/orders/{id}/deliver", manager("/api/orders/{id}/deliver", h.MarkDelivered)).Methods("POST")

	sale := http.Handler(manager("/api/manager/sales", h.PlaceDirectSale))
	if limiter != nil {
		sale = limiter.Middleware(sale)
	}
	router.Handle("/api/manager/sales", sale).Methods("POST")
}

// PlaceOrder handles POST /api/orders and POST /api/checkout
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientName    string `json:"recipient_name"`
		RecipientPhone   string `json:"recipient_phone"`
		Address          string `json:"address"`
		Notes            string `json:"notes"`
		PaymentMethodID  int    `json:"payment_method_id"`
		ShippingMethodID int    `json:"shipping_method_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	placed, err := h.placeOrderHandler.Handle(r.Context(), command.PlaceOrderCommand{
		UserID:           httpmw.UserIDFrom(r.Context()),
		RecipientName:    req.RecipientName,
		RecipientPhone:   req.RecipientPhone,
		Address:          req.Address,
		Notes:            req.Notes,
		PaymentMethodID:  req.PaymentMethodID,
		ShippingMethodID: req.ShippingMethodID,
	})
	if err != nil {
		respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    placed,
	})
}

// PlaceDirectSale handles POST /api/manager/sales
func (h *OrderHandler) PlaceDirectSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WarehouseID     uint   `json:"warehouse_id"`
		CustomerName    string `json:"customer_name"`
		CustomerPhone   string `json:"customer_phone"`
		Notes           string `json:"notes"`
		PaymentMethodID int    `json:"payment_method_id"`
		Items           []struct {
			VariantID uint `json:"variant_id"`
			Quantity  int  `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.PlaceDirectSaleCommand{
		WarehouseID:     req.WarehouseID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
		PaymentMethodID: req.PaymentMethodID,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.DirectSaleItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	placed, err := h.placeDirectSaleHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Sale recorded successfully",
		Data:    placed,
	})
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	// customers only see their own orders, back office sees everything
	userID := httpmw.UserIDFrom(r.Context())
	if role := httpmw.RoleFrom(r.Context()); role == userdomain.RoleManager || role == userdomain.RoleAdmin {
		userID = 0
	}

	view, err := h.getOrderHandler.Handle(query.GetOrderQuery{ID: id, UserID: userID})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Order not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// MyOrders handles GET /api/orders/my
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.myOrdersHandler.Handle(query.GetMyOrdersQuery{
		UserID: httpmw.UserIDFrom(r.Context()),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list orders")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list orders",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    orders,
	})
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.listOrdersHandler.Handle(query.ListOrdersQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list orders")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list orders",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    orders,
	})
}

// CancelOrder handles POST /api/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	userID := httpmw.UserIDFrom(r.Context())
	if role := httpmw.RoleFrom(r.Context()); role == userdomain.RoleManager || role == userdomain.RoleAdmin {
		userID = 0
	}

	if err := h.cancelOrderHandler.Handle(r.Context(), command.CancelOrderCommand{
		OrderID: id,
		UserID:  userID,
	}); err != nil {
		respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order cancelled",
	})
}

// UpdateStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.updateStatusHandler.Handle(r.Context(), command.UpdateStatusCommand{
		OrderID: id,
		Status:  orderdomain.Status(req.Status),
	}); err != nil {
		respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order status updated",
	})
}

// MarkShipped handles POST /api/orders/{id}/ship
func (h *OrderHandler) MarkShipped(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req struct {
		TrackingNumber string `json:"tracking_number"`
		Carrier        string `json:"carrier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.markShippedHandler.Handle(r.Context(), command.MarkShippedCommand{
		OrderID:        id,
		TrackingNumber: req.TrackingNumber,
		Carrier:        req.Carrier,
	}); err != nil {
		respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order marked as shipped",
	})
}

// MarkDelivered handles POST /api/orders/{id}/deliver
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.markDeliveredHandler.Handle(r.Context(), command.MarkDeliveredCommand{OrderID: id}); err != nil {
		respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order marked as delivered",
	})
}

func orderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid order ID",
		})
		return 0, false
	}
	return uint(id), true
}

// respondOrderError maps usecase errors onto HTTP statuses
func respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *invdomain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   stockErr.Error(),
			Data:    stockErr,
		})
	case errors.Is(err, orderdomain.ErrInvalidTransition):
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
	case strings.Contains(err.Error(), "not found"):
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   err.Error(),
		})
	default:
		logger.Error(r.Context()).Err(err).Msg("Order request failed")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
