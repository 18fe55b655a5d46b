package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/contact"
)

// Contacts exposes the contact form and its admin management.
type Contacts struct {
	svc *contact.Service
	log *slog.Logger
}

func NewContacts(svc *contact.Service, log *slog.Logger) *Contacts {
	return &Contacts{svc: svc, log: log}
}

func (h *Contacts) Submit(w http.ResponseWriter, r *http.Request) {
	var in contact.SubmitInput
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	c, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Thank you for contacting us! We'll get back to you soon.",
		"contact": map[string]any{
			"id":        c.ID,
			"name":      c.Name,
			"email":     c.Email,
			"createdAt": c.CreatedAt,
		},
	})
}

func (h *Contacts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := h.svc.List(r.Context(), page, limit, contact.Status(q.Get("status")))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if res.Contacts == nil {
		res.Contacts = []contact.Contact{}
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Contacts) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Contacts) Update(w http.ResponseWriter, r *http.Request) {
	var in contact.UpdateInput
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in, id.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Contact updated successfully",
		"contact": c,
	})
}

func (h *Contacts) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Contact deleted successfully")
}
