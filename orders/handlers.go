package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"agromarket/globals"
	"agromarket/inventory"
	"agromarket/models"
	"agromarket/mq"
	"agromarket/pay"
	"agromarket/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// CreateOrder runs checkout for the authenticated consumer.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Println("CreateOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.svc.Create(ctx, userID, in)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	if !pay.Process(order.PaymentMethod, order.TotalAmount) {
		// Simulated processor never fails today; kept for the contract.
		log.Printf("order %s: payment declined", order.OrderID)
	}

	mq.Emit(ctx, mq.Event{
		Type:    mq.EventOrderCreated,
		OrderID: order.OrderID,
		UserID:  order.ConsumerID,
		Title:   "Order placed",
		Message: "Order " + order.OrderNumber + " has been created",
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "data": utils.M{"order": order}})
}

// GetOrder returns one order; only participants (or an admin) may read it.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.svc.Get(ctx, ps.ByName("id"), userID, utils.HasRole(r, globals.RoleAdmin))
	if err != nil {
		respondOrderError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"order": order}})
}

// GetMyOrders lists the consumer's own orders.
func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, ListQuery{ConsumerID: utils.GetUserIDFromRequest(r)})
}

// GetProducerOrders lists orders containing the producer's products.
func (h *Handlers) GetProducerOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, ListQuery{ProducerID: utils.GetUserIDFromRequest(r)})
}

// GetDelivererOrders lists orders assigned to the deliverer.
func (h *Handlers) GetDelivererOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, ListQuery{DelivererID: utils.GetUserIDFromRequest(r)})
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request, q ListQuery) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q.Status = models.OrderStatus(r.URL.Query().Get("status"))
	q.Page, q.Limit = pageParams(r, 10)

	list, total, err := h.svc.List(ctx, q)
	if err != nil {
		log.Println("list orders error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"results": len(list),
		"total":   total,
		"data":    utils.M{"orders": list},
	})
}

// GetTransactionHistory scopes the listing by the caller's role; admins see
// everything.
func (h *Handlers) GetTransactionHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var q ListQuery
	switch {
	case utils.HasRole(r, globals.RoleAdmin):
		// unscoped
	case utils.HasRole(r, globals.RoleProducer):
		q.ProducerID = userID
	case utils.HasRole(r, globals.RoleDeliverer):
		q.DelivererID = userID
	default:
		q.ConsumerID = userID
	}

	q.Status = models.OrderStatus(r.URL.Query().Get("status"))
	q.Page, q.Limit = pageParams(r, 20)
	if t, err := time.Parse(time.RFC3339, r.URL.Query().Get("startDate")); err == nil {
		q.From = &t
	}
	if t, err := time.Parse(time.RFC3339, r.URL.Query().Get("endDate")); err == nil {
		q.To = &t
	}

	list, total, stats, err := h.svc.History(ctx, q)
	if err != nil {
		log.Println("transaction history error:", err)
		http.Error(w, "Could not retrieve history", http.StatusInternalServerError)
		return
	}

	pages := total / q.Limit
	if total%q.Limit != 0 {
		pages++
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"results": len(list),
		"total":   total,
		"page":    q.Page,
		"pages":   pages,
		"stats":   stats,
		"data":    utils.M{"orders": list},
	})
}

// UpdateOrderStatus applies a manual, role-gated status transition.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Status models.OrderStatus `json:"status"`
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

	order, err := h.svc.UpdateStatus(ctx, ps.ByName("id"), body.Status, userID)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	mq.Emit(ctx, mq.Event{
		Type:    mq.EventStatusChanged,
		OrderID: order.OrderID,
		UserID:  order.ConsumerID,
		Title:   "Order updated",
		Message: "Order " + order.OrderNumber + " is now " + string(order.Status),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"order": order}})
}

// CancelOrder cancels the caller's own order and restocks every line.
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.svc.Cancel(ctx, ps.ByName("id"), userID)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	mq.Emit(ctx, mq.Event{
		Type:    mq.EventStatusChanged,
		OrderID: order.OrderID,
		UserID:  order.ConsumerID,
		Title:   "Order cancelled",
		Message: "Order " + order.OrderNumber + " has been cancelled",
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"order": order}})
}

func pageParams(r *http.Request, defaultLimit int64) (page, limit int64) {
	page, limit = 1, defaultLimit
	if p, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, inventory.ErrProductNotFound):
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotOrderOwner), errors.Is(err, ErrAccessDenied):
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{"success": false, "message": err.Error()})
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrMissingAddress):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": err.Error()})
	default:
		log.Println("order handler error:", err)
		http.Error(w, "Order operation failed", http.StatusInternalServerError)
	}
}
