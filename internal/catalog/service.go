package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/storefront/pkg/cache"
)

// Repository is the storage contract the service depends on.
// Implementations must return ErrNotFound for missing ids.
type Repository interface {
	Find(ctx context.Context, q ListQuery) ([]Product, int64, error)
	FindByID(ctx context.Context, id string) (Product, error)
	Insert(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, patch Patch) (Product, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
	Count(ctx context.Context) (int64, error)
}

// Service exposes catalog reads through the cache layer and
// invalidates it on every mutation.
type Service struct {
	repo   Repository
	caches *Caches
	log    *slog.Logger
}

func NewService(repo Repository, caches *Caches, log *slog.Logger) *Service {
	return &Service{repo: repo, caches: caches, log: log}
}

// List returns one page of products matching q, read through the list
// cache. Cache failures degrade to direct storage reads.
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	q = q.normalize()
	return cache.GetOrSet(ctx, s.caches.lists, listKey(q), func(ctx context.Context) (ListResult, time.Duration, error) {
		products, total, err := s.repo.Find(ctx, q)
		if err != nil {
			return ListResult{}, 0, err
		}
		totalPages := total / int64(q.Limit)
		if total%int64(q.Limit) != 0 {
			totalPages++
		}
		return ListResult{
			Products:    products,
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: q.Page,
		}, listTTL, nil
	})
}

// Get returns a single product by id. Not-found results are never
// cached.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return cache.GetOrSet(ctx, s.caches.details, detailKey(id), func(ctx context.Context) (Product, time.Duration, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return Product{}, 0, err
		}
		return p, detailTTL, nil
	})
}

// Create validates and stores a new product, then invalidates the
// catalog cache.
func (s *Service) Create(ctx context.Context, in Product) (Product, error) {
	if err := validateNew(in); err != nil {
		return Product{}, err
	}
	in.IsActive = true
	p, err := s.repo.Insert(ctx, in)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Update applies a partial patch to an existing product.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	if err := validatePatch(patch); err != nil {
		return Product{}, err
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

// SoftDelete marks a product inactive without removing its document.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// HardDelete removes the product document permanently.
func (s *Service) HardDelete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Categories lists the distinct categories of active products.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return cache.GetOrSet(ctx, s.caches.categories, categoriesKey, func(ctx context.Context) ([]string, time.Duration, error) {
		cats, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, 0, err
		}
		return cats, categoriesTTL, nil
	})
}

// Stats returns the per-category aggregation with active/inactive
// totals.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return cache.GetOrSet(ctx, s.caches.stats, statsKey, func(ctx context.Context) (Stats, time.Duration, error) {
		st, err := s.repo.Stats(ctx)
		if err != nil {
			return Stats{}, 0, err
		}
		return st, statsTTL, nil
	})
}

// Count returns the total number of products, active or not.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return cache.GetOrSet(ctx, s.caches.counts, countKey, func(ctx context.Context) (int64, time.Duration, error) {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return 0, 0, err
		}
		return n, countTTL, nil
	})
}

// CacheStats reports aggregated hit/miss/key counters.
func (s *Service) CacheStats(ctx context.Context) (cache.Stats, error) {
	return s.caches.Stats(ctx)
}

// ClearCache drops every catalog cache entry.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.caches.InvalidateAll(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.caches.InvalidateAll(ctx); err != nil {
		s.log.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

func validateNew(p Product) error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if p.Price == 0 {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(p.Image) == "" {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(p.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}

func validatePatch(p Patch) error {
	if p.Price != nil && *p.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}

// ParsePrice converts an optional price-bound query parameter.
// An empty string means "no bound"; a malformed value is a validation
// error rather than a silent zero.
func ParsePrice(s string) (float64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: invalid price bound %q", ErrValidation, s)
	}
	return v, true, nil
}
