package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tranqv/shopcore/internal/catalog/usecase/command"
	"github.com/tranqv/shopcore/internal/catalog/usecase/query"
	"github.com/tranqv/shopcore/internal/httpmw"
	"github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/logger"
)

// CatalogHandler handles HTTP requests for products and variants
type CatalogHandler struct {
	createHandler        *command.CreateProductHandler
	updateHandler        *command.UpdateProductHandler
	deleteHandler        *command.DeleteProductHandler
	createVariantHandler *command.CreateVariantHandler

	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	createVariantHandler *command.CreateVariantHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of catalog requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		createHandler:        createHandler,
		updateHandler:        updateHandler,
		deleteHandler:        deleteHandler,
		createVariantHandler: createVariantHandler,
		getProductHandler:    getProductHandler,
		listHandler:          listHandler,
		requestCounter:       requestCounter,
		requestLatency:       requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
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
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router, cache *httpmw.ResponseCache) {
	list := http.HandlerFunc(h.metricsMiddleware("/api/products", h.ListProducts))
	if cache != nil {
		router.Handle("/api/products", cache.Middleware(list)).Methods("GET")
	} else {
		router.Handle("/api/products", list).Methods("GET")
	}
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")

	admin := httpmw.RequireRole(domain.RoleAdmin, domain.RoleManager)
	router.Handle("/api/products",
		httpmw.RequireAuth(admin(http.HandlerFunc(h.metricsMiddleware("/api/products", h.CreateProduct))))).Methods("POST")
	router.Handle("/api/products/{id}",
		httpmw.RequireAuth(admin(http.HandlerFunc(h.metricsMiddleware("/api/products/{id}", h.UpdateProduct))))).Methods("PUT")
	router.Handle("/api/products/{id}",
		httpmw.RequireAuth(admin(http.HandlerFunc(h.metricsMiddleware("/api/products/{id}", h.DeleteProduct))))).Methods("DELETE")
	router.Handle("/api/products/{id}/variants",
		httpmw.RequireAuth(admin(http.HandlerFunc(h.metricsMiddleware("/api/products/{id}/variants", h.CreateVariant))))).Methods("POST")
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.listHandler.Handle(query.ListProductsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	q := query.GetProductQuery{}
	if id, err := strconv.ParseUint(vars["id"], 10, 32); err == nil {
		q.ID = uint(id)
	} else {
		q.Slug = vars["id"]
	}

	product, err := h.getProductHandler.Handle(q)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Variants    []struct {
			SKU        string          `json:"sku"`
			Attributes string          `json:"attributes"`
			Price      decimal.Decimal `json:"price"`
		} `json:"variants"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.CreateProductCommand{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	for _, v := range req.Variants {
		cmd.Variants = append(cmd.Variants, command.CreateVariantInput{
			SKU:        v.SKU,
			Attributes: v.Attributes,
			Price:      v.Price,
		})
	}

	product, err := h.createHandler.Handle(cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.updateHandler.Handle(command.UpdateProductCommand{
		ID:          uint(id),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
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
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteProductCommand{ID: uint(id)}); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// CreateVariant handles POST /api/products/{id}/variants
func (h *CatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	var req struct {
		SKU        string          `json:"sku"`
		Attributes string          `json:"attributes"`
		Price      decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	variant, err := h.createVariantHandler.Handle(command.CreateVariantCommand{
		ProductID:  uint(id),
		SKU:        req.SKU,
		Attributes: req.Attributes,
		Price:      req.Price,
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
		Message: "Variant created successfully",
		Data:    variant,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
