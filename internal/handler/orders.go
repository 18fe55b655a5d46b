package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/order"
)

// Orders exposes order placement and management over HTTP.
type Orders struct {
	svc *order.Service
	log *slog.Logger
}

func NewOrders(svc *order.Service, log *slog.Logger) *Orders {
	return &Orders{svc: svc, log: log}
}

func (h *Orders) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Address       order.Address       `json:"address"`
		PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	}
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	o, err := h.svc.Create(r.Context(), id.UserID, in.Address, in.PaymentMethod)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   o,
	})
}

func (h *Orders) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListAll(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Orders) ListMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	orders, err := h.svc.ListByUser(r.Context(), id.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Orders) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), order.Requester{
		UserID:  id.UserID,
		IsAdmin: id.IsAdmin,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (h *Orders) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status order.Status `json:"status"`
	}
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Order updated successfully",
		"order":   o,
	})
}

func (h *Orders) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order deleted successfully")
}

func (h *Orders) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": n})
}
