package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storefront/internal/catalog"
)

// Products exposes the catalog over HTTP.
type Products struct {
	svc *catalog.Service
	log *slog.Logger
}

func NewProducts(svc *catalog.Service, log *slog.Logger) *Products {
	return &Products{svc: svc, log: log}
}

func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := h.svc.List(r.Context(), catalog.ListQuery{
		Category:        q.Get("category"),
		Search:          q.Get("search"),
		Page:            page,
		Limit:           limit,
		ShowAll:         q.Get("showAll") == "true",
		IncludeInactive: q.Get("includeInactive") == "true",
		MinPrice:        q.Get("minPrice"),
		MaxPrice:        q.Get("maxPrice"),
		Sort:            q.Get("sort"),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if res.Products == nil {
		res.Products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.Product
	if err := decode(r, &in); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	var patch catalog.Patch
	if err := decode(r, &patch); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Products) SoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted successfully")
}

func (h *Products) HardDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HardDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product permanently deleted")
}

func (h *Products) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Products) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Products) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Products) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.CacheStats(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Products) CacheClear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCache(r.Context()); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product cache cleared successfully")
}
