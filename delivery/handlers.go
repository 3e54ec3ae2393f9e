package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"agromarket/globals"
	"agromarket/models"
	"agromarket/mq"
	"agromarket/orders"
	"agromarket/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// GetAvailableDeliveries lists unassigned home-delivery orders.
func (h *Handlers) GetAvailableDeliveries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.svc.Available(ctx)
	if err != nil {
		log.Println("available deliveries error:", err)
		http.Error(w, "Could not retrieve available deliveries", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"results": len(list),
		"data":    utils.M{"orders": list},
	})
}

// AcceptDelivery claims an order for the calling deliverer.
func (h *Handlers) AcceptDelivery(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	delivererID := utils.GetUserIDFromRequest(r)
	if delivererID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	d, err := h.svc.Accept(ctx, ps.ByName("orderid"), delivererID)
	if err != nil {
		respondDeliveryError(w, err)
		return
	}

	mq.Emit(ctx, mq.Event{
		Type:    mq.EventDeliveryAssigned,
		OrderID: d.OrderID,
		UserID:  delivererID,
		Title:   "Delivery accepted",
		Message: "You are now assigned to order " + d.OrderID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "data": utils.M{"delivery": d}})
}

// UpdateDeliveryStatus moves a delivery to in-transit or delivered.
func (h *Handlers) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Status models.DeliveryStatus   `json:"status"`
		Notes  string                  `json:"notes"`
		Proof  *models.ProofOfDelivery `json:"proofOfDelivery"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	delivererID := utils.GetUserIDFromRequest(r)
	if delivererID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	d, err := h.svc.UpdateStatus(ctx, ps.ByName("id"), body.Status, delivererID, body.Proof, body.Notes)
	if err != nil {
		respondDeliveryError(w, err)
		return
	}

	evType := mq.EventStatusChanged
	if d.Status == models.DeliveryDelivered {
		evType = mq.EventDeliveryCompleted
	}
	mq.Emit(ctx, mq.Event{
		Type:    evType,
		OrderID: d.OrderID,
		UserID:  delivererID,
		Title:   "Delivery updated",
		Message: "Delivery is now " + string(d.Status),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"delivery": d}})
}

// GetMyDeliveries lists the caller's deliveries with workload stats.
func (h *Handlers) GetMyDeliveries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	delivererID := utils.GetUserIDFromRequest(r)
	if delivererID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status := models.DeliveryStatus(r.URL.Query().Get("status"))
	list, stats, err := h.svc.MyDeliveries(ctx, delivererID, status)
	if err != nil {
		log.Println("my deliveries error:", err)
		http.Error(w, "Could not retrieve deliveries", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"results": len(list),
		"stats":   stats,
		"data":    utils.M{"deliveries": list},
	})
}

// GetAllDeliveries lists every delivery record, optionally by status.
func (h *Handlers) GetAllDeliveries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := models.DeliveryStatus(r.URL.Query().Get("status"))
	list, err := h.svc.ListAll(ctx, status)
	if err != nil {
		log.Println("list deliveries error:", err)
		http.Error(w, "Could not retrieve deliveries", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"results": len(list),
		"data":    utils.M{"deliveries": list},
	})
}

// GetDelivery returns one delivery record.
func (h *Handlers) GetDelivery(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	d, err := h.svc.Get(ctx, ps.ByName("id"), userID, utils.HasRole(r, globals.RoleAdmin))
	if err != nil {
		respondDeliveryError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": utils.M{"delivery": d}})
}

func respondDeliveryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDeliveryNotFound), errors.Is(err, orders.ErrOrderNotFound):
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotAssignedDeliverer), errors.Is(err, ErrNotParticipant):
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{"success": false, "message": err.Error()})
	case errors.Is(err, ErrAlreadyAssigned):
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotHomeDelivery), errors.Is(err, ErrInvalidStatus):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": err.Error()})
	default:
		log.Println("delivery handler error:", err)
		http.Error(w, "Delivery operation failed", http.StatusInternalServerError)
	}
}
