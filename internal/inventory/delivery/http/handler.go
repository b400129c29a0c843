package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tranqv/shopcore/internal/httpmw"
	"github.com/tranqv/shopcore/internal/inventory/domain"
	"github.com/tranqv/shopcore/internal/inventory/usecase/command"
	"github.com/tranqv/shopcore/internal/inventory/usecase/query"
	userdomain "github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/logger"
)

// InventoryHandler handles HTTP requests for warehouses and stock
type InventoryHandler struct {
	createWarehouseHandler *command.CreateWarehouseHandler
	upsertRecordHandler    *command.UpsertRecordHandler
	adjustStockHandler     *command.AdjustStockHandler

	availabilityHandler *query.GetAvailabilityHandler
	listHandler         *query.ListInventoryHandler
	lowStockHandler     *query.LowStockHandler

	repo domain.InventoryRepository

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	createWarehouseHandler *command.CreateWarehouseHandler,
	upsertRecordHandler *command.UpsertRecordHandler,
	adjustStockHandler *command.AdjustStockHandler,
	availabilityHandler *query.GetAvailabilityHandler,
	listHandler *query.ListInventoryHandler,
	lowStockHandler *query.LowStockHandler,
	repo domain.InventoryRepository,
) *InventoryHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_requests_total",
			Help: "Total number of inventory requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_request_duration_seconds",
			Help:    "Duration of inventory requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &InventoryHandler{
		createWarehouseHandler: createWarehouseHandler,
		upsertRecordHandler:    upsertRecordHandler,
		adjustStockHandler:     adjustStockHandler,
		availabilityHandler:    availabilityHandler,
		listHandler:            listHandler,
		lowStockHandler:        lowStockHandler,
		repo:                   repo,
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
func (h *InventoryHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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

// RegisterRoutes registers all inventory routes; everything here is back
// office so the whole subtree requires the manager or admin role
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	manager := func(endpoint string, fn http.HandlerFunc) http.Handler {
		wrapped := h.metricsMiddleware(endpoint, fn)
		return httpmw.RequireAuth(httpmw.RequireRole(userdomain.RoleManager, userdomain.RoleAdmin)(wrapped))
	}

	router.Handle("/api/warehouses", manager("/api/warehouses", h.CreateWarehouse)).Methods("POST")
	router.Handle("/api/warehouses", manager("/api/warehouses", h.ListWarehouses)).Methods("GET")

	router.Handle("/api/inventory", manager("/api/inventory", h.ListInventory)).Methods("GET")
	router.Handle("/api/inventory", manager("/api/inventory", h.UpsertRecord)).Methods("PUT")
	router.Handle("/api/inventory/adjust", manager("/api/inventory/adjust", h.AdjustStock)).Methods("POST")
	router.Handle("/api/inventory/low-stock", manager("/api/inventory/low-stock", h.LowStock)).Methods("GET")
	router.Handle("/api/inventory/availability/{variantID}", manager("/api/inventory/availability/{variantID}", h.GetAvailability)).Methods("GET")
	router.Handle("/api/inventory/movements/{orderID}", manager("/api/inventory/movements/{orderID}", h.MovementsByOrder)).Methods("GET")
}

// CreateWarehouse handles POST /api/warehouses
func (h *InventoryHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code    string `json:"code"`
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	warehouse, err := h.createWarehouseHandler.Handle(command.CreateWarehouseCommand{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Warehouse created successfully",
		Data:    warehouse,
	})
}

// ListWarehouses handles GET /api/warehouses
func (h *InventoryHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	warehouses, err := h.repo.FindAllWarehouses(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list warehouses")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list warehouses",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    warehouses,
	})
}

// ListInventory handles GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.listHandler.Handle(query.ListInventoryQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list inventory")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list inventory",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// UpsertRecord handles PUT /api/inventory
func (h *InventoryHandler) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID        uint `json:"variant_id"`
		WarehouseID      uint `json:"warehouse_id"`
		QuantityOnHand   int  `json:"quantity_on_hand"`
		QuantityReserved int  `json:"quantity_reserved"`
		ReorderLevel     int  `json:"reorder_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	record, err := h.upsertRecordHandler.Handle(command.UpsertRecordCommand{
		VariantID:        req.VariantID,
		WarehouseID:      req.WarehouseID,
		QuantityOnHand:   req.QuantityOnHand,
		QuantityReserved: req.QuantityReserved,
		ReorderLevel:     req.ReorderLevel,
	})
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Inventory record saved",
		Data:    record,
	})
}

// AdjustStock handles POST /api/inventory/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID   uint   `json:"variant_id"`
		WarehouseID uint   `json:"warehouse_id"`
		Change      int    `json:"change"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.adjustStockHandler.Handle(command.AdjustStockCommand{
		VariantID:   req.VariantID,
		WarehouseID: req.WarehouseID,
		Change:      req.Change,
		Notes:       req.Notes,
	}); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock adjusted successfully",
	})
}

// GetAvailability handles GET /api/inventory/availability/{variantID}
func (h *InventoryHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	variantID, err := strconv.ParseUint(vars["variantID"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid variant ID",
		})
		return
	}

	result, err := h.availabilityHandler.Handle(query.GetAvailabilityQuery{VariantID: uint(variantID)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// LowStock handles GET /api/inventory/low-stock
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.lowStockHandler.Handle(query.LowStockQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock records")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list low stock records",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// MovementsByOrder handles GET /api/inventory/movements/{orderID}
func (h *InventoryHandler) MovementsByOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseUint(vars["orderID"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid order ID",
		})
		return
	}

	movements, err := h.repo.FindMovementsByOrder(uint(orderID))
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list stock movements",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    movements,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
