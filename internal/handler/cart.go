package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/pkg/cookie"
)

const (
	guestCartCookie = "guestCartId"
	guestCartMaxAge = 30 * 24 * 60 * 60 // seconds
)

// Carts exposes cart operations over HTTP and owns the guest cart
// cookie lifecycle.
type Carts struct {
	engine  *cart.Engine
	cookies *cookie.Manager
	log     *slog.Logger
}

func NewCarts(engine *cart.Engine, cookies *cookie.Manager, log *slog.Logger) *Carts {
	return &Carts{engine: engine, cookies: cookies, log: log}
}

type cartResponse struct {
	ID         string          `json:"id,omitempty"`
	User       string          `json:"user,omitempty"`
	GuestID    string          `json:"guestId,omitempty"`
	Items      []cart.LineItem `json:"items"`
	TotalPrice float64         `json:"totalPrice"`
}

func toCartResponse(c cart.Cart) cartResponse {
	resp := cartResponse{
		ID:         c.ID,
		Items:      c.Items,
		TotalPrice: c.TotalPrice,
	}
	if resp.Items == nil {
		resp.Items = []cart.LineItem{}
	}
	if uid, ok := c.Owner.UserID(); ok {
		resp.User = uid
	}
	if gid, ok := c.Owner.GuestID(); ok {
		resp.GuestID = gid
	}
	return resp
}

// GetCurrent resolves the cart for the caller's identity. Anonymous
// callers get a guest id cookie on first touch; authenticated callers
// with a pending guest cookie trigger the merge, after which the
// cookie is cleared.
func (h *Carts) GetCurrent(w http.ResponseWriter, r *http.Request) {
	guestID, _ := h.cookies.GetSigned(r, guestCartCookie)

	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		c, err := h.engine.Resolve(r.Context(), id.UserID, guestID)
		if err != nil {
			respondError(w, r, h.log, err)
			return
		}
		if guestID != "" {
			h.cookies.Delete(w, guestCartCookie)
		}
		respondJSON(w, http.StatusOK, toCartResponse(c))
		return
	}

	if guestID == "" {
		guestID = uuid.NewString()
		if err := h.cookies.SetSigned(w, guestCartCookie, guestID, guestCartMaxAge); err != nil {
			respondError(w, r, h.log, err)
			return
		}
	}

	c, err := h.engine.Resolve(r.Context(), "", guestID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

// GetByUser returns a user's cart to the user themself or an admin.
func (h *Carts) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	id, _ := auth.IdentityFromContext(r.Context())
	if id.UserID != userID && !id.IsAdmin {
		respondMessage(w, http.StatusForbidden, "not authorized to access this cart")
		return
	}

	c, err := h.engine.GetUserCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Carts) Add(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	id, _ := auth.IdentityFromContext(r.Context())
	c, err := h.engine.AddItem(r.Context(), id.UserID, in.ProductID, in.Quantity)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Carts) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if in.ProductID == "" || in.Quantity == nil {
		respondMessage(w, http.StatusBadRequest, "productId and quantity are required")
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	c, err := h.engine.UpdateItem(r.Context(), id.UserID, in.ProductID, *in.Quantity)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Carts) Remove(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	c, err := h.engine.RemoveItem(r.Context(), id.UserID, chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Carts) Clear(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	c, err := h.engine.Clear(r.Context(), id.UserID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}
