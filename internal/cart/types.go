package cart

import "time"

// OwnerKind discriminates cart ownership.
type OwnerKind string

const (
	OwnerUser  OwnerKind = "user"
	OwnerGuest OwnerKind = "guest"
)

// Owner identifies who a cart belongs to: exactly one of an
// authenticated user or an anonymous guest. The constructors are the
// only way to build a non-zero Owner, so user-xor-guest holds by type
// rather than by convention.
type Owner struct {
	kind OwnerKind
	id   string
}

func UserOwner(id string) Owner {
	return Owner{kind: OwnerUser, id: id}
}

func GuestOwner(id string) Owner {
	return Owner{kind: OwnerGuest, id: id}
}

func (o Owner) Kind() OwnerKind { return o.kind }
func (o Owner) ID() string      { return o.id }
func (o Owner) IsZero() bool    { return o.kind == "" }

// UserID returns the user id when the owner is an authenticated user.
func (o Owner) UserID() (string, bool) {
	if o.kind != OwnerUser {
		return "", false
	}
	return o.id, true
}

// GuestID returns the guest id when the owner is anonymous.
func (o Owner) GuestID() (string, bool) {
	if o.kind != OwnerGuest {
		return "", false
	}
	return o.id, true
}

// LineItem is one product in a cart with a price/name/image snapshot
// taken at add time.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the line items for a single owner. At most one line item
// exists per product id; TotalPrice is recomputed before every save
// and never trusted from caller input.
type Cart struct {
	ID         string     `json:"id"`
	Owner      Owner      `json:"-"`
	Items      []LineItem `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (c *Cart) recalcTotal() {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.TotalPrice = total
}

// itemIndex returns the position of the line item for productID, or -1.
func (c *Cart) itemIndex(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
