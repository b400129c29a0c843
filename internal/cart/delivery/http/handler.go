package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tranqv/shopcore/internal/cart/usecase/command"
	"github.com/tranqv/shopcore/internal/cart/usecase/query"
	"github.com/tranqv/shopcore/internal/httpmw"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	"github.com/tranqv/shopcore/pkg/logger"
)

// CartHandler handles HTTP requests for the shopping cart
type CartHandler struct {
	addItemHandler    *command.AddItemHandler
	updateItemHandler *command.UpdateItemHandler
	clearCartHandler  *command.ClearCartHandler
	listItemsHandler  *query.ListItemsHandler
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	addItemHandler *command.AddItemHandler,
	updateItemHandler *command.UpdateItemHandler,
	clearCartHandler *command.ClearCartHandler,
	listItemsHandler *query.ListItemsHandler,
) *CartHandler {
	return &CartHandler{
		addItemHandler:    addItemHandler,
		updateItemHandler: updateItemHandler,
		clearCartHandler:  clearCartHandler,
		listItemsHandler:  listItemsHandler,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers all cart routes; the cart belongs to the
// authenticated user so everything requires a token
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/api/cart", httpmw.RequireAuth(http.HandlerFunc(h.GetCart))).Methods("GET")
	router.Handle("/api/cart/items", httpmw.RequireAuth(http.HandlerFunc(h.AddItem))).Methods("POST")
	router.Handle("/api/cart/items/{variantID}", httpmw.RequireAuth(http.HandlerFunc(h.UpdateItem))).Methods("PUT")
	router.Handle("/api/cart", httpmw.RequireAuth(http.HandlerFunc(h.ClearCart))).Methods("DELETE")
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFrom(r.Context())

	view, err := h.listItemsHandler.Handle(query.ListItemsQuery{UserID: userID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load cart")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load cart",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID uint `json:"variant_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	line, err := h.addItemHandler.Handle(command.AddItemCommand{
		UserID:    httpmw.UserIDFrom(r.Context()),
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item added to cart",
		Data:    line,
	})
}

// UpdateItem handles PUT /api/cart/items/{variantID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	variantID, err := strconv.ParseUint(vars["variantID"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid variant ID",
		})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	line, err := h.updateItemHandler.Handle(command.UpdateItemCommand{
		UserID:    httpmw.UserIDFrom(r.Context()),
		VariantID: uint(variantID),
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(w, err)
		return
	}

	if line == nil {
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Item removed from cart",
		})
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart updated",
		Data:    line,
	})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.clearCartHandler.Handle(command.ClearCartCommand{
		UserID: httpmw.UserIDFrom(r.Context()),
	}); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to clear cart")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to clear cart",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart cleared",
	})
}

// respondCartError maps usecase errors, surfacing availability numbers on
// insufficient stock so the storefront can adjust the quantity
func respondCartError(w http.ResponseWriter, err error) {
	var stockErr *invdomain.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   stockErr.Error(),
			Data:    stockErr,
		})
		return
	}
	respondJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   err.Error(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
