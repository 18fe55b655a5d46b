package order

import "time"

// Status is the order fulfillment state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the order is paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPaypal PaymentMethod = "paypal"
	PaymentCard   PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPaypal, PaymentCard:
		return true
	}
	return false
}

// Address is the shipping destination captured at checkout.
type Address struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Country             string `json:"country"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Item is one ordered product with the snapshot carried over from the
// cart line item.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Order is a placed order. Creating one consumes the source cart.
type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Items         []Item        `json:"items"`
	Address       Address       `json:"address"`
	Subtotal      float64       `json:"subtotal"`
	Shipping      float64       `json:"shipping"`
	Total         float64       `json:"total"`
	Status        Status        `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	IsPaid        bool          `json:"isPaid"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
