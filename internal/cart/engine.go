package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/storefront/internal/catalog"
)

// Repository is the storage contract for carts.
//
// ClaimGuestCart must atomically fetch and delete the guest cart in a
// single storage operation; it returns ErrCartNotFound when no cart
// exists for the guest id. The atomic claim is what makes the merge
// flow exactly-once: a retried merge finds nothing to claim and
// no-ops instead of double-counting quantities.
//
// AddItemAtomic must increment the quantity of an existing line item
// or append a new one as an atomic storage-level operation, creating
// the cart when absent, and return the resulting cart with its total
// recomputed.
type Repository interface {
	FindByOwner(ctx context.Context, owner Owner) (Cart, error)
	ClaimGuestCart(ctx context.Context, guestID string) (Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id string) error
	AddItemAtomic(ctx context.Context, userID string, item LineItem) (Cart, error)
}

// ProductGetter supplies product snapshots for add-to-cart. Satisfied
// by the catalog service, so lookups go through its cache.
type ProductGetter interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Engine owns the cart lifecycle: lazy creation, mutation, and the
// one-time guest-to-user merge at login.
type Engine struct {
	repo     Repository
	products ProductGetter
	log      *slog.Logger
}

func NewEngine(repo Repository, products ProductGetter, log *slog.Logger) *Engine {
	return &Engine{repo: repo, products: products, log: log}
}

// Resolve returns the single authoritative cart for a request given an
// optional authenticated user id and an optional guest id. When both
// are present any pending guest cart is merged first. A missing cart
// resolves to an empty unsaved one so callers never see not-found.
func (e *Engine) Resolve(ctx context.Context, userID, guestID string) (Cart, error) {
	if userID != "" {
		if guestID != "" {
			if err := e.MergeGuestCart(ctx, userID, guestID); err != nil {
				return Cart{}, err
			}
		}
		return e.GetUserCart(ctx, userID)
	}

	if guestID != "" {
		c, err := e.repo.FindByOwner(ctx, GuestOwner(guestID))
		if errors.Is(err, ErrCartNotFound) {
			return Cart{Owner: GuestOwner(guestID)}, nil
		}
		if err != nil {
			return Cart{}, err
		}
		return c, nil
	}

	return Cart{}, nil
}

// MergeGuestCart folds a guest cart into the user's cart. The guest
// cart is claimed (fetched and deleted atomically) before any item
// logic runs, so a concurrent or retried merge finds nothing and
// no-ops. No-op when either id is empty or no guest cart exists.
func (e *Engine) MergeGuestCart(ctx context.Context, userID, guestID string) error {
	if userID == "" || guestID == "" {
		return nil
	}

	guest, err := e.repo.ClaimGuestCart(ctx, guestID)
	if errors.Is(err, ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	user, err := e.repo.FindByOwner(ctx, UserOwner(userID))
	if errors.Is(err, ErrCartNotFound) {
		// No user cart yet: reassign the guest cart wholesale.
		guest.Owner = UserOwner(userID)
		guest.recalcTotal()
		return e.repo.Save(ctx, &guest)
	}
	if err != nil {
		return err
	}

	for _, gi := range guest.Items {
		if i := user.itemIndex(gi.ProductID); i > -1 {
			user.Items[i].Quantity += gi.Quantity
		} else {
			user.Items = append(user.Items, gi)
		}
	}
	user.recalcTotal()
	return e.repo.Save(ctx, &user)
}

// AddItem adds qty of a product to the user's cart, snapshotting the
// product's current price, name, and image. An existing line item is
// incremented. The storage layer applies the increment atomically, so
// concurrent adds to the same product never lose a quantity.
func (e *Engine) AddItem(ctx context.Context, userID, productID string, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	p, err := e.products.Get(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return Cart{}, ErrProductNotFound
	}
	if err != nil {
		return Cart{}, err
	}

	return e.repo.AddItemAtomic(ctx, userID, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  qty,
	})
}

// UpdateItem sets the quantity of an existing line item directly.
// A quantity of zero or less removes the line, which is not an error.
func (e *Engine) UpdateItem(ctx context.Context, userID, productID string, qty int) (Cart, error) {
	c, err := e.repo.FindByOwner(ctx, UserOwner(userID))
	if err != nil {
		return Cart{}, err
	}

	i := c.itemIndex(productID)
	if i == -1 {
		return Cart{}, ErrItemNotFound
	}

	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = qty
	}

	c.recalcTotal()
	if err := e.repo.Save(ctx, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// RemoveItem drops a product's line item if present.
func (e *Engine) RemoveItem(ctx context.Context, userID, productID string) (Cart, error) {
	c, err := e.repo.FindByOwner(ctx, UserOwner(userID))
	if err != nil {
		return Cart{}, err
	}

	if i := c.itemIndex(productID); i > -1 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}

	c.recalcTotal()
	if err := e.repo.Save(ctx, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Clear empties the user's cart, keeping the cart record.
func (e *Engine) Clear(ctx context.Context, userID string) (Cart, error) {
	c, err := e.repo.FindByOwner(ctx, UserOwner(userID))
	if err != nil {
		return Cart{}, err
	}

	c.Items = nil
	c.recalcTotal()
	if err := e.repo.Save(ctx, &c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// GetUserCart returns the user's cart, or an empty unsaved cart when
// none exists yet.
func (e *Engine) GetUserCart(ctx context.Context, userID string) (Cart, error) {
	c, err := e.repo.FindByOwner(ctx, UserOwner(userID))
	if errors.Is(err, ErrCartNotFound) {
		return Cart{Owner: UserOwner(userID)}, nil
	}
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}
