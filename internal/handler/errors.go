package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/internal/catalog"
	"github.com/dmitrymomot/storefront/internal/contact"
	"github.com/dmitrymomot/storefront/internal/order"
	"github.com/dmitrymomot/storefront/internal/user"
)

// respondError maps domain errors onto HTTP statuses. Anything not in
// the taxonomy is a 500 with a generic message; the cause stays in the
// logs only.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, errBadBody):
		respondMessage(w, http.StatusBadRequest, "invalid request body")

	case errors.Is(err, catalog.ErrValidation),
		errors.Is(err, cart.ErrValidation),
		errors.Is(err, order.ErrValidation),
		errors.Is(err, contact.ErrValidation),
		errors.Is(err, user.ErrValidation),
		errors.Is(err, order.ErrEmptyCart):
		respondMessage(w, http.StatusBadRequest, userMessage(err))

	case errors.Is(err, user.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, userMessage(err))

	case errors.Is(err, order.ErrNotAuthorized),
		errors.Is(err, user.ErrNotAuthorized):
		respondMessage(w, http.StatusForbidden, userMessage(err))

	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		respondMessage(w, http.StatusNotFound, userMessage(err))

	case errors.Is(err, user.ErrEmailTaken):
		respondMessage(w, http.StatusConflict, userMessage(err))

	default:
		log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
