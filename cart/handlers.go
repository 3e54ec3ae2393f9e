package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"agromarket/inventory"
	"agromarket/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// GetCart returns the consumer's cart, creating an empty one on first access.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.Get(ctx, userID)
	if err != nil {
		log.Println("GetCart error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"cart": c}})
}

// AddToCart merges quantity into an existing line or appends a new one.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if body.Product == "" || body.Quantity < 1 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	c, err := h.svc.AddItem(ctx, userID, body.Product, body.Quantity)
	if err != nil {
		h.respondError(w, err, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"cart": c}})
}

// UpdateCartItem overwrites a line quantity; zero or less removes the line.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.UpdateItem(ctx, userID, ps.ByName("productid"), body.Quantity)
	if err != nil {
		h.respondError(w, err, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"cart": c}})
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.svc.RemoveItem(ctx, userID, ps.ByName("productid"))
	if err != nil {
		h.respondError(w, err, "Failed to remove from cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"cart": c}})
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Clear(ctx, userID); err != nil {
		log.Println("ClearCart error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (h *Handlers) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Product not found"})
	case errors.Is(err, ErrItemNotFound):
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Product not in cart"})
	default:
		log.Println("cart handler error:", err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
