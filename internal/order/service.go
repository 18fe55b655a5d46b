package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/storefront/internal/cart"
)

// Repository is the storage contract for orders.
type Repository interface {
	Insert(ctx context.Context, o Order) (Order, error)
	FindByID(ctx context.Context, id string) (Order, error)
	FindAll(ctx context.Context) ([]Order, error)
	FindByUser(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, o Order) (Order, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// CartStore is the slice of the cart storage the order flow needs:
// loading the source cart and destroying it once the order is saved.
type CartStore interface {
	FindByOwner(ctx context.Context, owner cart.Owner) (cart.Cart, error)
	Delete(ctx context.Context, id string) error
}

// Requester identifies who is asking for an order.
type Requester struct {
	UserID  string
	IsAdmin bool
}

// Service places and manages orders.
type Service struct {
	repo  Repository
	carts CartStore
	log   *slog.Logger
}

func NewService(repo Repository, carts CartStore, log *slog.Logger) *Service {
	return &Service{repo: repo, carts: carts, log: log}
}

// Create places an order from the user's current cart. Items and
// prices are snapshotted from the cart; subtotal is recomputed here,
// shipping is flat zero. The cart is deleted after the order is saved,
// so a subsequent cart read starts empty.
func (s *Service) Create(ctx context.Context, userID string, addr Address, method PaymentMethod) (Order, error) {
	if err := validateAddress(addr); err != nil {
		return Order{}, err
	}
	if !method.Valid() {
		return Order{}, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	c, err := s.carts.FindByOwner(ctx, cart.UserOwner(userID))
	if errors.Is(err, cart.ErrCartNotFound) {
		return Order{}, ErrEmptyCart
	}
	if err != nil {
		return Order{}, err
	}
	if len(c.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	items := make([]Item, 0, len(c.Items))
	var subtotal float64
	for _, li := range c.Items {
		items = append(items, Item{
			ProductID: li.ProductID,
			Name:      li.Name,
			Price:     li.Price,
			Quantity:  li.Quantity,
			Image:     li.Image,
		})
		subtotal += li.Price * float64(li.Quantity)
	}

	const shipping = 0.0

	o, err := s.repo.Insert(ctx, Order{
		UserID:        userID,
		Items:         items,
		Address:       addr,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         subtotal + shipping,
		Status:        StatusPending,
		PaymentMethod: method,
	})
	if err != nil {
		return Order{}, err
	}

	if err := s.carts.Delete(ctx, c.ID); err != nil {
		// The order exists; a stale cart is recoverable, a lost order
		// is not. Log and return the order.
		s.log.ErrorContext(ctx, "failed to delete cart after order creation",
			"order_id", o.ID, "cart_id", c.ID, "error", err)
	}

	return o, nil
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.FindAll(ctx)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Get returns an order visible to the requester: its owner or an
// admin.
func (s *Service) Get(ctx context.Context, id string, req Requester) (Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !req.IsAdmin && o.UserID != req.UserID {
		return Order{}, ErrNotAuthorized
	}
	return o, nil
}

// UpdateStatus moves an order to a new status. Moving to processing
// marks non-cash orders paid; moving to delivered marks cash orders
// paid (payment collected on delivery).
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}

	o.Status = status

	switch {
	case status == StatusProcessing && !o.IsPaid && o.PaymentMethod != PaymentCash:
		now := time.Now()
		o.IsPaid = true
		o.PaidAt = &now
	case status == StatusDelivered && !o.IsPaid && o.PaymentMethod == PaymentCash:
		now := time.Now()
		o.IsPaid = true
		o.PaidAt = &now
	}

	return s.repo.Update(ctx, o)
}

// Delete removes an order permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Count returns the total number of orders.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func validateAddress(a Address) error {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"country", a.Country},
		{"address", a.Address},
		{"city", a.City},
		{"phone", a.Phone},
		{"email", a.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: address fields required: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
