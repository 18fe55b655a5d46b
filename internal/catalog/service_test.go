package catalog_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal/catalog"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

type fakeRepo struct {
	products map[string]catalog.Product
	nextID   int
	finds    atomic.Int32
	findErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]catalog.Product), nextID: 1}
}

func (f *fakeRepo) Find(_ context.Context, q catalog.ListQuery) ([]catalog.Product, int64, error) {
	f.finds.Add(1)
	if f.findErr != nil {
		return nil, 0, f.findErr
	}
	var out []catalog.Product
	for _, p := range f.products {
		if !p.IsActive && !q.ShowAll && !q.IncludeInactive {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (catalog.Product, error) {
	f.finds.Add(1)
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Insert(_ context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = "p" + string(rune('0'+f.nextID))
	f.nextID++
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, patch catalog.Patch) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	f.products[id] = p
	return p, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.IsActive = active
	f.products[id] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range f.products {
		if !p.IsActive {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (f *fakeRepo) Stats(_ context.Context) (catalog.Stats, error) {
	var st catalog.Stats
	for _, p := range f.products {
		if p.IsActive {
			st.TotalActive++
		} else {
			st.TotalInactive++
		}
	}
	st.Total = st.TotalActive + st.TotalInactive
	return st, nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

func validProduct() catalog.Product {
	return catalog.Product{
		Name:        "Trail Runner",
		Price:       89.99,
		Description: "Lightweight trail shoe",
		Image:       "https://img.example.com/trail.png",
		Stock:       12,
		Category:    "shoes",
	}
}

func newService(t *testing.T, repo catalog.Repository) *catalog.Service {
	t.Helper()
	caches := catalog.NewMemoryCaches()
	t.Cleanup(func() { _ = caches.Close() })
	return catalog.NewService(repo, caches, logger.NewNope())
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through Get", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)

		created, err := svc.Create(context.Background(), validProduct())
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.True(t, created.IsActive)

		got, err := svc.Get(context.Background(), created.ID)
		require.NoError(t, err)
		require.Equal(t, created, got)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, newFakeRepo())

		p := validProduct()
		p.Name = ""
		_, err := svc.Create(context.Background(), p)
		require.ErrorIs(t, err, catalog.ErrValidation)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, newFakeRepo())

		p := validProduct()
		p.Price = -5
		_, err := svc.Create(context.Background(), p)
		require.ErrorIs(t, err, catalog.ErrValidation)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, newFakeRepo())

		p := validProduct()
		p.Stock = -1
		_, err := svc.Create(context.Background(), p)
		require.ErrorIs(t, err, catalog.ErrValidation)
	})

	t.Run("invalidates cached lists", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)

		first, err := svc.List(context.Background(), catalog.ListQuery{})
		require.NoError(t, err)
		require.Empty(t, first.Products)

		_, err = svc.Create(context.Background(), validProduct())
		require.NoError(t, err)

		second, err := svc.List(context.Background(), catalog.ListQuery{})
		require.NoError(t, err)
		require.Len(t, second.Products, 1)
	})
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	t.Run("serves repeat queries from cache", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)

		_, err := svc.List(context.Background(), catalog.ListQuery{})
		require.NoError(t, err)
		callsAfterFirst := repo.finds.Load()

		_, err = svc.List(context.Background(), catalog.ListQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Equal(t, callsAfterFirst, repo.finds.Load(), "normalized query should hit the cache")
	})

	t.Run("computes total pages", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)
		for range 3 {
			_, err := svc.Create(context.Background(), validProduct())
			require.NoError(t, err)
		}

		res, err := svc.List(context.Background(), catalog.ListQuery{Limit: 2})
		require.NoError(t, err)
		require.Equal(t, int64(3), res.Total)
		require.Equal(t, int64(2), res.TotalPages)
		require.Equal(t, 1, res.CurrentPage)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		repo.findErr = errors.New("connection reset")
		svc := newService(t, repo)

		_, err := svc.List(context.Background(), catalog.ListQuery{})
		require.Error(t, err)
	})
}

func TestServiceGet(t *testing.T) {
	t.Parallel()

	t.Run("not found is not cached", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)

		_, err := svc.Get(context.Background(), "missing")
		require.ErrorIs(t, err, catalog.ErrNotFound)

		// The product appears after creation even though the first
		// lookup missed.
		created, err := svc.Create(context.Background(), validProduct())
		require.NoError(t, err)

		got, err := svc.Get(context.Background(), created.ID)
		require.NoError(t, err)
		require.Equal(t, created.Name, got.Name)
	})
}

func TestServiceSoftDelete(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := newService(t, repo)

	created, err := svc.Create(context.Background(), validProduct())
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), created.ID))

	res, err := svc.List(context.Background(), catalog.ListQuery{})
	require.NoError(t, err)
	require.Empty(t, res.Products, "inactive products excluded by default")

	all, err := svc.List(context.Background(), catalog.ListQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all.Products, 1)
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies partial patch", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)

		created, err := svc.Create(context.Background(), validProduct())
		require.NoError(t, err)

		price := 49.99
		updated, err := svc.Update(context.Background(), created.ID, catalog.Patch{Price: &price})
		require.NoError(t, err)
		require.Equal(t, price, updated.Price)
		require.Equal(t, created.Name, updated.Name)
	})

	t.Run("rejects invalid patch price", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, newFakeRepo())

		price := 0.0
		_, err := svc.Update(context.Background(), "any", catalog.Patch{Price: &price})
		require.ErrorIs(t, err, catalog.ErrValidation)
	})

	t.Run("refreshes stale detail cache", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepo()
		svc := newService(t, repo)

		created, err := svc.Create(context.Background(), validProduct())
		require.NoError(t, err)

		_, err = svc.Get(context.Background(), created.ID)
		require.NoError(t, err)

		name := "Renamed"
		_, err = svc.Update(context.Background(), created.ID, catalog.Patch{Name: &name})
		require.NoError(t, err)

		got, err := svc.Get(context.Background(), created.ID)
		require.NoError(t, err)
		require.Equal(t, name, got.Name)
	})
}

func TestServiceCacheStats(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := newService(t, repo)

	_, err := svc.List(context.Background(), catalog.ListQuery{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), catalog.ListQuery{})
	require.NoError(t, err)

	stats, err := svc.CacheStats(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.Hits, int64(1))
	require.GreaterOrEqual(t, stats.Misses, int64(1))
	require.Equal(t, int64(1), stats.Keys)

	require.NoError(t, svc.ClearCache(context.Background()))
	stats, err = svc.CacheStats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.Keys)
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	v, ok, err := catalog.ParsePrice("19.5")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 19.5, v)

	_, ok, err = catalog.ParsePrice("")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = catalog.ParsePrice("cheap")
	require.ErrorIs(t, err, catalog.ErrValidation)
}
