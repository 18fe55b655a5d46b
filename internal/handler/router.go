package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/internal/catalog"
	"github.com/dmitrymomot/storefront/internal/contact"
	"github.com/dmitrymomot/storefront/internal/order"
	"github.com/dmitrymomot/storefront/internal/user"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/health"
)

// Deps bundles everything the router needs.
type Deps struct {
	Catalog  *catalog.Service
	Carts    *cart.Engine
	Orders   *order.Service
	Contacts *contact.Service
	Users    *user.Service
	Tokens   *auth.Service
	Cookies  *cookie.Manager
	Health   health.Checks
	Log      *slog.Logger
}

// New builds the full REST surface.
func New(d Deps) http.Handler {
	products := NewProducts(d.Catalog, d.Log)
	carts := NewCarts(d.Carts, d.Cookies, d.Log)
	orders := NewOrders(d.Orders, d.Log)
	contacts := NewContacts(d.Contacts, d.Log)
	users := NewUsers(d.Users, d.Carts, d.Cookies, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(auth.Authenticate(d.Tokens))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusOK, "storefront API is running")
	})
	r.Get("/health/live", health.Live())
	r.Get("/health/ready", health.Ready(d.Health))

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Get("/categories", products.Categories)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", products.Create)
			r.Get("/stats", products.Stats)
			r.Get("/count", products.Count)
			r.Get("/cache/stats", products.CacheStats)
			r.Delete("/cache/clear", products.CacheClear)
			r.Put("/{id}", products.Update)
			r.Delete("/{id}", products.SoftDelete)
			r.Delete("/{id}/hard", products.HardDelete)
		})

		r.Get("/{id}", products.Get)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", carts.GetCurrent)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/user/{userId}", carts.GetByUser)
			r.Post("/add", carts.Add)
			r.Put("/update", carts.Update)
			r.Delete("/item/{productId}", carts.Remove)
			r.Delete("/clear", carts.Clear)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/", orders.Create)
			r.Get("/myorders", orders.ListMine)
			r.Get("/{id}", orders.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/", orders.ListAll)
			r.Get("/count", orders.Count)
			r.Put("/{id}/status", orders.UpdateStatus)
			r.Delete("/{id}", orders.Delete)
		})
	})

	r.Route("/api/contact", func(r chi.Router) {
		r.Post("/", contacts.Submit)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/", contacts.List)
			r.Get("/{id}", contacts.Get)
			r.Put("/{id}", contacts.Update)
			r.Delete("/{id}", contacts.Delete)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", users.Register)
		r.Post("/login", users.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/", users.List)
			r.Get("/me", users.Me)
			r.Put("/{id}", users.Update)
			r.Delete("/{id}", users.Delete)
		})

		r.With(auth.RequireAdmin).Get("/count", users.Count)
		r.Get("/{id}", users.GetProfile)
	})

	return r
}
