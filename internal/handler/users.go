package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/internal/user"
	"github.com/dmitrymomot/storefront/pkg/cookie"
)

// Users exposes registration, login, and account management. Login is
// the point where a pending guest cart is merged into the account.
type Users struct {
	svc     *user.Service
	carts   *cart.Engine
	cookies *cookie.Manager
	log     *slog.Logger
}

func NewUsers(svc *user.Service, carts *cart.Engine, cookies *cookie.Manager, log *slog.Logger) *Users {
	return &Users{svc: svc, carts: carts, cookies: cookies, log: log}
}

type authResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

func (h *Users) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	u, token, err := h.svc.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{User: u, Token: token})
}

func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	u, token, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	// Fold any guest cart into the account now that the guest has an
	// identity. A merge failure must not block the login itself.
	if guestID, err := h.cookies.GetSigned(r, guestCartCookie); err == nil && guestID != "" {
		if err := h.carts.MergeGuestCart(r.Context(), u.ID, guestID); err != nil {
			h.log.ErrorContext(r.Context(), "guest cart merge failed",
				"user_id", u.ID, "error", err)
		}
		h.cookies.Delete(w, guestCartCookie)
	}

	respondJSON(w, http.StatusOK, authResponse{User: u, Token: token})
}

func (h *Users) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	u, err := h.svc.Get(r.Context(), id.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *Users) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	var in user.UpdateInput
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	u, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in, id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}

func (h *Users) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": n})
}
